// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package path

import "golang.org/x/sys/unix"

// Finality classifies a component returned by [Cursor.Next].
type Finality int

const (
	// NotFinal means more components follow.
	NotFinal Finality = iota

	// FinalNormal means the component is the last one of the path.
	FinalNormal

	// FinalSlash means the component is the last one and the path had a
	// trailing separator. The caller expects a directory, even if the
	// component turns out to be a symlink to something else, which matters
	// for the dereferencing policy downstream.
	FinalSlash
)

// IsFinal reports whether no more components follow.
func (f Finality) IsFinal() bool {
	return f != NotFinal
}

// Cursor scans a path string one component at a time. The zero separator
// handling is the same for absolute and relative paths: leading, duplicate
// and trailing separators are consumed, with a trailing separator only
// reflected in the [Finality] of the last component.
type Cursor struct {
	path string
	off  int
}

// NewCursor returns a Cursor positioned at the beginning of path.
func NewCursor(path string) *Cursor {
	return &Cursor{path: path}
}

// Next returns the next component and its finality. Components of
// [golang.org/x/sys/unix.NAME_MAX] bytes or more fail with
// [ErrNameTooLong]. Scanning an empty path or a path of separators only
// yields one empty component classified FinalNormal.
func (c *Cursor) Next() (string, Finality, error) {
	// Skip leading separators.
	for c.off < len(c.path) && c.path[c.off] == '/' {
		c.off++
	}

	start := c.off
	for c.off < len(c.path) && c.path[c.off] != '/' {
		c.off++
	}

	if c.off-start >= unix.NAME_MAX {
		return "", NotFinal, ErrNameTooLong
	}

	component := c.path[start:c.off]

	// A separator right after the component means a directory is wanted.
	wantDir := c.off < len(c.path)

	// Skip trailing separators.
	for c.off < len(c.path) && c.path[c.off] == '/' {
		c.off++
	}

	if c.off == len(c.path) {
		if wantDir {
			return component, FinalSlash, nil
		}

		return component, FinalNormal, nil
	}

	return component, NotFinal, nil
}

// PopComponent returns the parent directory of path by cutting it at the
// separator preceding its last component. Popping "/" is a no-op.
//
// path must be absolute and canonical, without duplicate separators and
// without a trailing separator except for the root itself. Violating this
// is a programming error, not a recoverable condition.
func PopComponent(path string) string {
	if path == "" || path[0] != '/' {
		panic("pop component: path must be absolute")
	}

	offset := len(path) - 1

	// Don't pop over "/", it doesn't mean anything.
	if offset == 0 {
		return path
	}

	// Skip trailing path separators.
	for offset > 1 && path[offset] == '/' {
		offset--
	}

	// Search for the previous path separator.
	for offset > 1 && path[offset] != '/' {
		offset--
	}

	return path[:offset]
}
