// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package tracee implements the per process translation context: forward
// translation of guest paths into host paths, reverse translation of host
// paths back into the guest namespace, and the canonicalization walker
// both are built on.
//
// A [Tracee] is owned by the supervising loop. Translations run one at a
// time per Tracee and to completion, so the package needs no locking. The
// owner must not mutate the root or bindings while a translation is in
// flight.
package tracee

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lysmarine/proot/internal/binding"
	"github.com/lysmarine/proot/internal/path"
	"github.com/lysmarine/proot/internal/proc"
)

// ProcessID identifies the process whose introspection entries are
// consulted during translation.
type ProcessID struct {
	pid        int
	supervised bool
}

// Supervised returns the ProcessID of an attached supervised process.
func Supervised(pid int) ProcessID {
	return ProcessID{pid: pid, supervised: true}
}

// Bootstrap returns the ProcessID used before any supervised process has
// started, when the supervisor translates paths on its own behalf, like
// the initial program path. Introspection reads fall back to the calling
// process.
func Bootstrap() ProcessID {
	return ProcessID{}
}

// IsSupervised reports whether an actual supervised process is attached.
func (p ProcessID) IsSupervised() bool {
	return p.supervised
}

// Effective returns the process id used for introspection reads.
func (p ProcessID) Effective() int {
	if !p.supervised {
		return os.Getpid()
	}

	return p.pid
}

// Tracee is the translation context of one supervised process.
type Tracee struct {
	// PID identifies the process for introspection reads.
	PID ProcessID

	// Root is the absolute canonical host path serving as the guest's
	// apparent "/".
	Root string

	// Bindings substitutes paths between the guest and host namespaces.
	// It always contains the root binding.
	Bindings *binding.Table

	// Exe and Cwd are the guest paths backing the emulated dynamic
	// introspection links of the process.
	Exe string
	Cwd string

	hooks []Hook
}

// New returns a Tracee for the given guest root and bindings. root must be
// an absolute canonical host path, and all binding paths absolute and
// canonical in their respective namespace. The guest working directory
// starts at "/".
func New(pid ProcessID, root string, bindings ...binding.Binding) (*Tracee, error) {
	if !path.IsAbsolute(root) {
		return nil, fmt.Errorf("root %q: %w", root, path.ErrNotAbsolute)
	}

	table, err := binding.NewTable(root, bindings...)
	if err != nil {
		return nil, fmt.Errorf("binding table: %w", err)
	}

	return &Tracee{
		PID:      pid,
		Root:     root,
		Bindings: table,
		Cwd:      "/",
	}, nil
}

// BelongsToGuestFS reports whether hostPath is equal to or nested under
// the guest root, that is, was not produced by a binding substitution.
func (t *Tracee) BelongsToGuestFS(hostPath string) bool {
	comparison := path.ComparePaths(t.Root, hostPath)

	return comparison == path.Equal || comparison == path.FirstIsPrefix
}

// WarnOpenFDs logs a warning for every path the supervised process already
// has open. It is useful right after attaching, since paths opened before
// supervision started are not retranslated until closed.
func (t *Tracee) WarnOpenFDs(logger *slog.Logger) error {
	pid := t.PID.Effective()

	return proc.ForEachFD(pid, func(fd int, target string) error {
		logger.Warn("open path won't be translated until closed",
			slog.Int("pid", pid),
			slog.Int("fd", fd),
			slog.String("path", target),
		)

		return nil
	})
}

func (t *Tracee) procState() proc.State {
	return proc.State{
		PID: t.PID.Effective(),
		Exe: t.Exe,
		Cwd: t.Cwd,
	}
}
