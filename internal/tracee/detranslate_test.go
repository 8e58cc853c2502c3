// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package tracee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysmarine/proot/internal/binding"
	"github.com/lysmarine/proot/internal/path"
	"github.com/lysmarine/proot/internal/tracee"
)

func newGuest(t *testing.T) *tracee.Tracee {
	t.Helper()

	guest, err := tracee.New(tracee.Supervised(1234), "/mnt/guest",
		binding.Binding{Host: "/opt/lib", Guest: "/foo"},
		binding.Binding{Host: "/tmp", Guest: "/tmp"},
	)
	require.NoError(t, err)

	guest.Exe = "/bin/app"
	guest.Cwd = "/work"

	return guest
}

func TestDetranslate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		outcome     tracee.Outcome
		expectedErr error
	}{
		{
			name:     "inside the root",
			input:    "/mnt/guest/etc/passwd",
			expected: "/etc/passwd",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "the root itself",
			input:    "/mnt/guest",
			expected: "/",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "bound path",
			input:    "/opt/lib/a",
			expected: "/foo/a",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "symmetric binding",
			input:    "/tmp/a",
			expected: "/tmp/a",
			outcome:  tracee.Unchanged,
		},
		{
			name:     "relative",
			input:    "a/b",
			expected: "a/b",
			outcome:  tracee.Unchanged,
		},
		{
			name:        "escapes the root",
			input:       "/usr/share",
			expectedErr: path.ErrNotPermitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guest := newGuest(t)

			actual, outcome, err := guest.Detranslate(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			assert.Equal(t, tt.expected, actual)
			assert.Equal(t, tt.outcome, outcome)
		})
	}
}

func TestDetranslateReportedLength(t *testing.T) {
	guest := newGuest(t)

	actual, outcome, err := guest.Detranslate("/mnt/guest/etc/passwd")
	require.NoError(t, err)

	require.Equal(t, tracee.Rewritten, outcome)

	// 11 chars plus the terminator the ptrace layer writes back.
	assert.Equal(t, 12, len(actual)+1)
}

func TestDetranslateRootIsSlash(t *testing.T) {
	guest, err := tracee.New(tracee.Supervised(1234), "/")
	require.NoError(t, err)

	actual, outcome, err := guest.Detranslate("/usr/share")
	require.NoError(t, err)

	assert.Equal(t, "/usr/share", actual)
	assert.Equal(t, tracee.Unchanged, outcome)
}

func TestDetranslateSymlink(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		referrer string
		expected string
		outcome  tracee.Outcome
	}{
		{
			name:     "relative target untouched",
			target:   "../lib/b",
			referrer: "/opt/lib/a",
			expected: "../lib/b",
			outcome:  tracee.Unchanged,
		},
		{
			name:     "referrer inside the root",
			target:   "/mnt/guest/etc/passwd",
			referrer: "/mnt/guest/etc/link",
			expected: "/etc/passwd",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "referrer inside the root with outside target",
			target:   "/usr/share",
			referrer: "/mnt/guest/etc/link",
			expected: "/usr/share",
			outcome:  tracee.Unchanged,
		},
		{
			name:     "self contained binding",
			target:   "/opt/lib/b",
			referrer: "/opt/lib/a",
			expected: "/foo/b",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "binding link into the root",
			target:   "/mnt/guest/x",
			referrer: "/opt/lib/a",
			expected: "/x",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "binding link to nowhere",
			target:   "/elsewhere",
			referrer: "/opt/lib/a",
			expected: "/elsewhere",
			outcome:  tracee.Unchanged,
		},
		{
			name:     "emulated cwd",
			target:   "/mnt/guest/work",
			referrer: "/proc/1234/cwd",
			expected: "/work",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "emulated exe",
			target:   "/mnt/guest/bin/app",
			referrer: "/proc/1234/exe",
			expected: "/bin/app",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "emulated root",
			target:   "/mnt/guest",
			referrer: "/proc/1234/root",
			expected: "/",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "proc links always follow bindings",
			target:   "/opt/lib/b",
			referrer: "/proc/1234/fd/3",
			expected: "/foo/b",
			outcome:  tracee.Rewritten,
		},
		{
			name:     "proc link into the root",
			target:   "/mnt/guest/x",
			referrer: "/proc/1234/fd/3",
			expected: "/x",
			outcome:  tracee.Rewritten,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guest := newGuest(t)

			actual, outcome, err := guest.DetranslateSymlink(tt.target, tt.referrer)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, actual)
			assert.Equal(t, tt.outcome, outcome)
		})
	}
}
