// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package mockexec provides a CommandRunner test double with a
// When/Respond configuration style.
package mockexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/fkatada/ms-msstore-cli/pkg/exec"
)

// MockCommandRunner dispatches Run calls to the first matching
// expectation, newest first, and records every invocation.
type MockCommandRunner struct {
	expressions []*CommandExpression
	runs        []exec.RunArgs
}

func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{}
}

func (m *MockCommandRunner) Run(ctx context.Context, args exec.RunArgs) (exec.RunResult, error) {
	m.runs = append(m.runs, args)

	command := strings.TrimSpace(fmt.Sprintf("%s %s", args.Cmd, strings.Join(args.Args, " ")))

	// Newest expectations take precedence so tests can layer overrides.
	for i := len(m.expressions) - 1; i >= 0; i-- {
		expr := m.expressions[i]
		if expr.predicate(args, command) {
			if expr.responseFn != nil {
				return expr.responseFn(args)
			}
			return expr.response, expr.err
		}
	}

	panic(fmt.Sprintf("No mock found for command: '%s'", command))
}

// Runs returns every RunArgs this mock has seen, in call order.
func (m *MockCommandRunner) Runs() []exec.RunArgs {
	return m.runs
}

// When registers a predicate over the RunArgs and the rendered command
// line; chain Respond, RespondFn or SetError on the result.
func (m *MockCommandRunner) When(predicate CommandPredicate) *CommandExpression {
	expr := &CommandExpression{
		runner:    m,
		predicate: predicate,
	}
	m.expressions = append(m.expressions, expr)
	return expr
}

// CommandPredicate matches a command invocation. command is the space
// joined command line, convenient for strings.Contains checks.
type CommandPredicate func(args exec.RunArgs, command string) bool

// CommandExpression is a single configured response.
type CommandExpression struct {
	runner *MockCommandRunner

	predicate  CommandPredicate
	response   exec.RunResult
	responseFn RespondFn
	err        error
}

// RespondFn computes a response from the actual invocation.
type RespondFn func(args exec.RunArgs) (exec.RunResult, error)

// Respond sets a static successful response for the expression.
func (e *CommandExpression) Respond(response exec.RunResult) *MockCommandRunner {
	e.response = response
	return e.runner
}

// RespondFn sets a dynamic response for the expression.
func (e *CommandExpression) RespondFn(fn RespondFn) *MockCommandRunner {
	e.responseFn = fn
	return e.runner
}

// SetError sets the error the expression returns.
func (e *CommandExpression) SetError(err error) *MockCommandRunner {
	e.err = err
	return e.runner
}
