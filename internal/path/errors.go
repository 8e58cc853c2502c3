// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package path

import (
	"errors"

	"golang.org/x/sys/unix"
)

var (
	// ErrNameTooLong is returned if a path component exceeds the file name
	// bound or a path exceeds the path bound.
	ErrNameTooLong = errors.New("name too long")

	// ErrNotDirectory is returned if a directory is required but the path
	// refers to something else.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotPermitted is returned if a path leaves the guest root in
	// sanity-checked mode or a process introspection read fails.
	ErrNotPermitted = errors.New("operation not permitted")

	// ErrTooManyLinks is returned if symlink resolution exceeds the
	// recursion bound.
	ErrTooManyLinks = errors.New("too many levels of symbolic links")

	// ErrNotAbsolute is returned if an operation requires an absolute path
	// but got a relative one.
	ErrNotAbsolute = errors.New("path is not absolute")
)

// Errno maps the errors of this layer to the errno the supervised process
// must observe as syscall result. Unknown errors map to EPERM, the most
// conservative answer for a path that could not be translated.
func Errno(err error) unix.Errno {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}

	switch {
	case errors.Is(err, ErrNameTooLong):
		return unix.ENAMETOOLONG
	case errors.Is(err, ErrNotDirectory):
		return unix.ENOTDIR
	case errors.Is(err, ErrTooManyLinks):
		return unix.ELOOP
	case errors.Is(err, ErrNotAbsolute):
		return unix.EINVAL
	default:
		return unix.EPERM
	}
}
