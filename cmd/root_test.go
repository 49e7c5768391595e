// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkatada/ms-msstore-cli/pkg/input"
	"github.com/fkatada/ms-msstore-cli/test/mocks/mockexec"
)

func TestRootCommandSurface(t *testing.T) {
	root := NewRootCmd(nil, mockexec.NewMockCommandRunner())

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	for _, expected := range []string{
		"init", "package", "publish", "reconfigure",
		"apps", "submission", "flights", "version",
	} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd(input.NewConsoleWithWriter(&out), mockexec.NewMockCommandRunner())
	root.SetArgs([]string{"version"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), Version)
}
