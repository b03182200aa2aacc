package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newInvokeCmd() *cobra.Command {
	var (
		addr    string
		rawArgs []string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "invoke <command>",
		Short: "Invoke a command on a running server",
		Example: `  ai-studio invoke create_workflow --arg name=Demo
  ai-studio invoke update_workflow_progress --arg workflow_id=<id> --arg progress=0.5 --arg status=running`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := buildArgs(rawArgs)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out, err := invokeRemote(ctx, addr, args[0], body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "Server base URL")
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Command argument as key=value; JSON values are decoded")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	return cmd
}

// buildArgs turns key=value pairs into a JSON object. Values that parse as
// JSON (numbers, booleans, objects) keep their type; anything else is a string.
func buildArgs(pairs []string) ([]byte, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			args[key] = decoded
		} else {
			args[key] = value
		}
	}
	return json.Marshal(args)
}

func invokeRemote(ctx context.Context, addr, command string, body []byte) (string, error) {
	url := strings.TrimRight(addr, "/") + "/api/v1/invoke/" + command
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(data)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s failed with status %d: %s", command, resp.StatusCode, strings.TrimSpace(pretty.String()))
	}
	return pretty.String(), nil
}
