// Package commands holds the command surface exposed to the front-end. Each
// command has a name, a description and a handler that decodes its JSON
// arguments; transports (HTTP, MCP) only ever talk to the Dispatcher.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"ai-studio/backend/internal/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrUnknownCommand is returned when no command is registered under the name.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArguments is returned when the arguments cannot be decoded or are incomplete.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrInternal is returned when a handler panics.
	ErrInternal = errors.New("internal error")
)

// HandlerFunc executes a command with its raw JSON arguments.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Command is a named entry in the dispatcher.
type Command struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Handler     HandlerFunc `json:"-"`
}

// Dispatcher routes invocations to registered commands.
type Dispatcher struct {
	commands    map[string]Command
	logger      *logging.Logger
	invocations metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewDispatcher creates an empty Dispatcher. Metrics are recorded through the
// global OpenTelemetry meter provider.
func NewDispatcher(logger *logging.Logger) *Dispatcher {
	meter := otel.Meter("ai-studio/backend/commands")

	invocations, err := meter.Int64Counter("commands.invocations",
		metric.WithDescription("Number of command invocations"))
	if err != nil {
		otel.Handle(err)
	}
	duration, err := meter.Float64Histogram("commands.duration",
		metric.WithDescription("Command invocation duration"),
		metric.WithUnit("ms"))
	if err != nil {
		otel.Handle(err)
	}

	return &Dispatcher{
		commands:    make(map[string]Command),
		logger:      logger,
		invocations: invocations,
		duration:    duration,
	}
}

// Register adds a command. Registering the same name twice panics.
func (d *Dispatcher) Register(cmd Command) {
	if _, exists := d.commands[cmd.Name]; exists {
		panic(fmt.Sprintf("commands: duplicate registration of %q", cmd.Name))
	}
	d.commands[cmd.Name] = cmd
}

// Commands returns the registered commands sorted by name.
func (d *Dispatcher) Commands() []Command {
	list := make([]Command, 0, len(d.commands))
	for _, cmd := range d.commands {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Invoke runs the named command. Every failure, including a panic inside the
// handler, is returned as an error.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) (result any, err error) {
	cmd, ok := d.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", "command", name, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			result, err = nil, fmt.Errorf("%w: command %s failed", ErrInternal, name)
		}
		d.record(ctx, name, time.Since(start), err)
	}()

	return cmd.Handler(ctx, args)
}

func (d *Dispatcher) record(ctx context.Context, name string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		d.logger.Warn("command failed", "command", name, "error", err, "elapsed", elapsed)
	} else {
		d.logger.Debug("command completed", "command", name, "elapsed", elapsed)
	}

	attrs := metric.WithAttributes(
		attribute.String("command", name),
		attribute.String("outcome", outcome),
	)
	if d.invocations != nil {
		d.invocations.Add(ctx, 1, attrs)
	}
	if d.duration != nil {
		d.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}

// decodeArgs decodes a JSON object into dst. Empty or null arguments leave
// dst untouched.
func decodeArgs(args json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}
