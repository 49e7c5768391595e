// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package input

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Console is the CLI's interactive surface. Commands print through it
// and prompt through it, which keeps tests free of real terminals.
type Console interface {
	Message(ctx context.Context, message string)
	Prompt(ctx context.Context, options ConsoleOptions) (string, error)
	Select(ctx context.Context, options ConsoleOptions) (int, error)
	Confirm(ctx context.Context, options ConsoleOptions) (bool, error)
	Writer() io.Writer
}

type ConsoleOptions struct {
	Message      string
	Options      []string
	DefaultValue any
}

type askerConsole struct {
	writer io.Writer
	isTerm bool
}

// NewConsole creates a console bound to stdout. Color output is handled
// through go-colorable so Windows consoles render ANSI properly.
func NewConsole() Console {
	return &askerConsole{
		writer: colorable.NewColorableStdout(),
		isTerm: isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// NewConsoleWithWriter creates a console writing to w, for tests.
func NewConsoleWithWriter(w io.Writer) Console {
	return &askerConsole{
		writer: w,
	}
}

func (c *askerConsole) Writer() io.Writer {
	return c.writer
}

func (c *askerConsole) Message(ctx context.Context, message string) {
	fmt.Fprintln(c.writer, message)
}

func (c *askerConsole) Prompt(ctx context.Context, options ConsoleOptions) (string, error) {
	var defaultValue string
	if value, ok := options.DefaultValue.(string); ok {
		defaultValue = value
	}

	prompt := &survey.Input{
		Message: options.Message,
		Default: defaultValue,
	}

	var response string
	if err := survey.AskOne(prompt, &response); err != nil {
		return "", fmt.Errorf("prompting for input: %w", err)
	}

	return response, nil
}

func (c *askerConsole) Select(ctx context.Context, options ConsoleOptions) (int, error) {
	prompt := &survey.Select{
		Message: options.Message,
		Options: options.Options,
	}

	var response int
	if err := survey.AskOne(prompt, &response); err != nil {
		return -1, fmt.Errorf("prompting for selection: %w", err)
	}

	return response, nil
}

func (c *askerConsole) Confirm(ctx context.Context, options ConsoleOptions) (bool, error) {
	var defaultValue bool
	if value, ok := options.DefaultValue.(bool); ok {
		defaultValue = value
	}

	prompt := &survey.Confirm{
		Message: options.Message,
		Default: defaultValue,
	}

	var response bool
	if err := survey.AskOne(prompt, &response); err != nil {
		return false, fmt.Errorf("prompting for confirmation: %w", err)
	}

	return response, nil
}
