// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCommand is returned if no command is given.
	ErrNoCommand = errors.New("no command given")

	// ErrUnknownCommand is returned if the given command is not known.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidBinding is returned if a binding argument is malformed.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrInvalidPID is returned if a pid argument is not a positive integer.
	ErrInvalidPID = errors.New("invalid pid")

	// ErrEmptyFilePath is returned if a file path argument is empty.
	ErrEmptyFilePath = errors.New("file path must not be empty")

	// ErrNotRegularFile is returned if a file path argument does not point to
	// a regular file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrReadBuildInfo is returned if the build info can not be read.
	ErrReadBuildInfo = errors.New("build info not available")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
