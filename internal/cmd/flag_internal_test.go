// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"io"
	"testing"

	"github.com/lysmarine/proot/internal/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		assertFlags func(t *testing.T, flags *flags)
		expectedErr error
	}{
		{
			name:        "help",
			args:        []string{"-help"},
			expectedErr: flag.ErrHelp,
		},
		{
			name: "version",
			args: []string{"-version"},
			assertFlags: func(t *testing.T, flags *flags) {
				assert.True(t, flags.version)
			},
		},
		{
			name:        "no command",
			args:        []string{"-r", "/tmp/rootfs"},
			expectedErr: ErrNoCommand,
		},
		{
			name:        "unknown command",
			args:        []string{"frobnicate", "/etc"},
			expectedErr: ErrUnknownCommand,
		},
		{
			name: "translate",
			args: []string{"-r", "/tmp/rootfs", "translate", "/etc/passwd"},
			assertFlags: func(t *testing.T, flags *flags) {
				assert.Equal(t, "/tmp/rootfs", flags.root)
				assert.Equal(t, "translate", flags.command)
				assert.Equal(t, []string{"/etc/passwd"}, flags.args)
			},
		},
		{
			name:        "translate without path",
			args:        []string{"translate"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "translate with two paths",
			args:        []string{"translate", "/etc", "/usr"},
			expectedErr: &ParseArgsError{},
		},
		{
			name: "detranslate",
			args: []string{"detranslate", "/tmp/rootfs/etc"},
			assertFlags: func(t *testing.T, flags *flags) {
				assert.Equal(t, "detranslate", flags.command)
			},
		},
		{
			name: "fds",
			args: []string{"fds", "1", "42"},
			assertFlags: func(t *testing.T, flags *flags) {
				assert.Equal(t, "fds", flags.command)
				assert.Equal(t, []int{1, 42}, flags.pids())
			},
		},
		{
			name:        "fds without pid",
			args:        []string{"fds"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "fds with non-numeric pid",
			args:        []string{"fds", "one"},
			expectedErr: ErrInvalidPID,
		},
		{
			name:        "fds with negative pid",
			args:        []string{"fds", "-5"},
			expectedErr: &ParseArgsError{},
		},
		{
			name: "bindings",
			args: []string{
				"-b", "/opt/lib:/lib",
				"-b", "/tmp",
				"translate", "/etc",
			},
			assertFlags: func(t *testing.T, flags *flags) {
				expected := BindingList{
					{Host: "/opt/lib", Guest: "/lib"},
					{Host: "/tmp", Guest: "/tmp"},
				}
				assert.Equal(t, expected, flags.bindings)
			},
		},
		{
			name:        "relative binding",
			args:        []string{"-b", "lib:/lib", "translate", "/etc"},
			expectedErr: ErrInvalidBinding,
		},
		{
			name: "no deref",
			args: []string{"-no-deref", "translate", "/etc"},
			assertFlags: func(t *testing.T, flags *flags) {
				assert.True(t, flags.noDeref)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, err := parseArgs(tt.args, io.Discard)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			tt.assertFlags(t, flags)
		})
	}
}

func TestBindingListString(t *testing.T) {
	list := BindingList{
		binding.Binding{Host: "/opt/lib", Guest: "/lib"},
		binding.Binding{Host: "/tmp", Guest: "/tmp"},
	}

	assert.Equal(t, "/opt/lib:/lib,/tmp:/tmp", list.String())
}
