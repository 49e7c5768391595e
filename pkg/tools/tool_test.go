// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package tools

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/require"
)

func TestExtractVersion(t *testing.T) {
	cases := []struct {
		output string
		want   semver.Version
	}{
		{"9.8.1", semver.Version{Major: 9, Minor: 8, Patch: 1}},
		{"v18.17.0\n", semver.Version{Major: 18, Minor: 17}},
		{"Flutter 3.19.2 • channel stable", semver.Version{Major: 3, Minor: 19, Patch: 2}},
		{"1.22", semver.Version{Major: 1, Minor: 22}},
		{"17", semver.Version{Major: 17}},
	}

	for _, c := range cases {
		got, err := ExtractVersion(c.output)
		require.NoError(t, err, c.output)
		require.Equal(t, c.want, got, c.output)
	}

	_, err := ExtractVersion("no digits here")
	require.Error(t, err)
}
