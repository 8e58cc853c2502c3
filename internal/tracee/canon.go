// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package tracee

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/lysmarine/proot/internal/binding"
	"github.com/lysmarine/proot/internal/path"
	"github.com/lysmarine/proot/internal/proc"
)

// Symlink chain bound, same as the kernel's MAXSYMLINKS.
const maxSymlinkDepth = 40

// Canonicalize resolves guestPath into an absolute, symlink free and
// separator normalized guest path, one component at a time. result must be
// primed with the absolute guest path the walk starts from: "/" for an
// absolute guestPath, or the detranslated base directory for a relative
// one. The canonical guest path is left in result.
//
// derefFinal selects whether a final symlink component is dereferenced, as
// the intercepted syscall requires. A trailing separator in guestPath
// promises a directory and forces dereferencing regardless. Components
// that do not exist on the host side are kept verbatim, the intercepted
// syscall is the one to report or create them. depth counts the symlink
// chain; beyond [maxSymlinkDepth] the walk fails with
// [path.ErrTooManyLinks].
func (t *Tracee) Canonicalize(guestPath string, derefFinal bool, result *path.Buffer, depth int) error {
	if depth > maxSymlinkDepth {
		return path.ErrTooManyLinks
	}

	if !path.IsAbsolute(result.String()) {
		return path.ErrNotAbsolute
	}

	cursor := path.NewCursor(guestPath)

	finality := path.NotFinal
	for !finality.IsFinal() {
		component, nextFinality, err := cursor.Next()
		if err != nil {
			return err
		}

		finality = nextFinality

		if component == "" || component == "." {
			continue
		}

		if component == ".." {
			// Never pops above "/".
			result.Truncate(len(path.PopComponent(result.String())))
			continue
		}

		candidate, err := path.JoinPaths(result.String(), component)
		if err != nil {
			return err
		}

		// The real entry must be inspected through its host form.
		host, _, err := t.Bindings.Substitute(binding.Guest, candidate)
		if err != nil && !errors.Is(err, binding.ErrNoBinding) {
			return err
		}

		var stat unix.Stat_t

		err = unix.Lstat(host, &stat)
		isLink := err == nil && stat.Mode&unix.S_IFMT == unix.S_IFLNK

		if !isLink || (finality == path.FinalNormal && !derefFinal) {
			if err := result.SetString(candidate); err != nil {
				return err
			}

			continue
		}

		target, err := proc.ReadLink(host)
		if err != nil {
			return err
		}

		guestTarget, _, err := t.DetranslateSymlink(target, host)
		if err != nil {
			return err
		}

		// An absolute target restarts from the guest root, a relative one
		// resolves against the canonical prefix walked so far.
		if path.IsAbsolute(guestTarget) {
			if err := result.SetString("/"); err != nil {
				return err
			}
		}

		if err := t.Canonicalize(guestTarget, true, result, depth+1); err != nil {
			return err
		}
	}

	return nil
}
