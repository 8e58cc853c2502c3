// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package path_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/lysmarine/proot/internal/path"
)

func TestJoinPaths(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected string
	}{
		{
			name:     "separator inserted",
			input:    []string{"/a", "b"},
			expected: "/a/b",
		},
		{
			name:     "separator collapsed",
			input:    []string{"/a/", "/b"},
			expected: "/a/b",
		},
		{
			name:     "separator kept",
			input:    []string{"/a/", "b"},
			expected: "/a/b",
		},
		{
			name:     "empty fragment skipped",
			input:    []string{"/a", ""},
			expected: "/a",
		},
		{
			name:     "leading empty fragment skipped",
			input:    []string{"", "a", "b"},
			expected: "a/b",
		},
		{
			name:     "internal separators untouched",
			input:    []string{"/a//b/", "c//d"},
			expected: "/a//b/c//d",
		},
		{
			name:     "no fragments",
			input:    nil,
			expected: "",
		},
		{
			name:     "root and relative",
			input:    []string{"/", "etc/passwd"},
			expected: "/etc/passwd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := path.JoinPaths(tt.input...)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestJoinPathsNameTooLong(t *testing.T) {
	longest := "/" + strings.Repeat("x", unix.PathMax-2)

	t.Run("at the bound", func(t *testing.T) {
		actual, err := path.JoinPaths(longest)
		require.NoError(t, err)

		assert.Len(t, actual, unix.PathMax-1)
	})

	t.Run("beyond the bound", func(t *testing.T) {
		_, err := path.JoinPaths(longest, "x")
		require.ErrorIs(t, err, path.ErrNameTooLong)
	})

	t.Run("beyond the bound with junction separator", func(t *testing.T) {
		_, err := path.JoinPaths(longest[:len(longest)-1], "xx")
		require.ErrorIs(t, err, path.ErrNameTooLong)
	})
}
