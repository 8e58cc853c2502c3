// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package tracee

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/lysmarine/proot/internal/binding"
	"github.com/lysmarine/proot/internal/path"
	"github.com/lysmarine/proot/internal/proc"
)

// Translate produces the host path equivalent to guestPath as written by
// the supervised process. A relative guestPath is resolved against dirFD,
// either [golang.org/x/sys/unix.AT_FDCWD] for the current working
// directory or an open descriptor of the process, which must refer to a
// directory. derefFinal selects whether a final symlink is dereferenced,
// as the intercepted syscall requires.
//
// The result is always an absolute host path.
func (t *Tracee) Translate(dirFD int, guestPath string, derefFinal bool) (string, error) {
	result := path.NewPathBuffer()

	if path.IsAbsolute(guestPath) {
		if err := result.SetString("/"); err != nil {
			return "", err
		}
	} else {
		base, err := t.translateBase(dirFD)
		if err != nil {
			return "", err
		}

		if err := result.SetString(base); err != nil {
			return "", err
		}
	}

	slog.Debug("translate path",
		slog.Int("pid", t.PID.Effective()),
		slog.String("base", result.String()),
		slog.String("path", guestPath),
	)

	action, err := t.notify(EventGuestPath, result, guestPath)
	if err != nil {
		return "", err
	}

	if action != Handled {
		err := t.Canonicalize(guestPath, derefFinal, result, 0)
		if err != nil {
			return "", err
		}

		// Canonicalize works from the guest point of view. The final
		// substitution turns its result into a host path, covering the
		// case of a binding target being the final component.
		host, _, err := t.Bindings.Substitute(binding.Guest, result.String())
		if err != nil && !errors.Is(err, binding.ErrNoBinding) {
			return "", err
		}

		if err := result.SetString(host); err != nil {
			return "", err
		}
	}

	slog.Debug("translated path",
		slog.Int("pid", t.PID.Effective()),
		slog.String("result", result.String()),
	)

	return result.String(), nil
}

// translateBase reads the host side target backing dirFD and strips the
// current root so the base is guest relative, as the canonicalizer
// expects.
func (t *Tracee) translateBase(dirFD int) (string, error) {
	pid := t.PID.Effective()

	var link string
	if dirFD == unix.AT_FDCWD {
		link = proc.CwdLink(pid)
	} else {
		link = proc.FDLink(pid, dirFD)
	}

	base, err := proc.ReadLink(link)
	if err != nil {
		if errors.Is(err, path.ErrNameTooLong) {
			return "", err
		}

		return "", fmt.Errorf("%w: %w", path.ErrNotPermitted, err)
	}

	// An explicit descriptor must denote a directory, see openat(2).
	if dirFD != unix.AT_FDCWD {
		var stat unix.Stat_t

		err := unix.Stat(base, &stat)
		if err != nil || stat.Mode&unix.S_IFMT != unix.S_IFDIR {
			return "", fmt.Errorf("descriptor %d: %w", dirFD, path.ErrNotDirectory)
		}
	}

	detranslated, _, err := t.Detranslate(base)
	if err != nil {
		return "", err
	}

	return detranslated, nil
}
