package main

import (
	"fmt"
	"os"

	"ai-studio/backend/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ai-studio",
		Short:         "Backend for the AI studio desktop front-end",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newInvokeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version reported by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.App.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "Path to config file (default ./config.yaml)")
	return cmd
}
