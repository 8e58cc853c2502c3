// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package proc reads the introspection pseudo filesystem of the kernel and
// emulates the symlinks the kernel generates dynamically below it, so they
// stay consistent with the guest namespace of a supervised process.
package proc

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/lysmarine/proot/internal/path"
)

// Root is where the kernel mounts the introspection pseudo filesystem.
const Root = "/proc"

// CwdLink returns the introspection link resolving to the current working
// directory of pid.
func CwdLink(pid int) string {
	return fmt.Sprintf("%s/%d/cwd", Root, pid)
}

// FDLink returns the introspection link resolving to the target of the
// open descriptor fd of pid.
func FDLink(pid, fd int) string {
	return fmt.Sprintf("%s/%d/fd/%d", Root, pid, fd)
}

// ReadLink reads the target of a symlink into a bounded buffer. Targets at
// or beyond the path bound fail with [path.ErrNameTooLong].
func ReadLink(link string) (string, error) {
	buf := make([]byte, unix.PathMax)

	n, err := unix.Readlink(link, buf)
	if err != nil {
		return "", fmt.Errorf("readlink %s: %w", link, err)
	}

	if n >= unix.PathMax {
		return "", path.ErrNameTooLong
	}

	return string(buf[:n]), nil
}

// State is the guest visible identity of a supervised process. It is what
// the dynamically generated links below [Root] must appear to resolve to
// from inside the guest.
type State struct {
	PID int

	// Exe is the guest path of the executed program.
	Exe string

	// Cwd is the guest path of the current working directory.
	Cwd string
}

// ResolveDynamicLink emulates the kernel generated symlinks below [Root]
// for the given process. referrer is the host side path of the symlink
// whose raw target was read. It returns the guest consistent replacement,
// or false if this link needs no emulation and the raw target can be
// resolved like any other symlink target.
func ResolveDynamicLink(state State, referrer string) (string, bool) {
	base := fmt.Sprintf("%s/%d", Root, state.PID)

	switch referrer {
	case base + "/cwd":
		return state.Cwd, state.Cwd != ""
	case base + "/exe":
		return state.Exe, state.Exe != ""
	case base + "/root":
		// The guest root must appear as "/" no matter where it really is.
		return "/", true
	case Root + "/self":
		return base, true
	default:
		return "", false
	}
}
