// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package path

import "golang.org/x/sys/unix"

// Buffer is a bounded byte buffer for assembling paths. A Buffer with
// capacity n holds at most n-1 bytes, reserving one byte for the NUL
// terminator required when the result is written into the supervised
// process's address space. Writes that would exceed the bound fail with
// [ErrNameTooLong] and leave the buffer unchanged.
type Buffer struct {
	buf []byte
	max int
}

// NewBuffer returns an empty Buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		buf: make([]byte, 0, capacity),
		max: capacity,
	}
}

// NewPathBuffer returns an empty Buffer bounded to the kernel path bound.
func NewPathBuffer() *Buffer {
	return NewBuffer(unix.PathMax)
}

// Len returns the number of bytes in the buffer, excluding the reserved
// terminator.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// String returns the buffered path.
func (b *Buffer) String() string {
	return string(b.buf)
}

// WriteString appends s. It fails with [ErrNameTooLong] if the result would
// exceed the bound and does not write anything in that case.
func (b *Buffer) WriteString(s string) error {
	if len(b.buf)+len(s) >= b.max {
		return ErrNameTooLong
	}

	b.buf = append(b.buf, s...)

	return nil
}

// SetString replaces the buffer content with s.
func (b *Buffer) SetString(s string) error {
	if len(s) >= b.max {
		return ErrNameTooLong
	}

	b.buf = append(b.buf[:0], s...)

	return nil
}

// Truncate shortens the buffer to n bytes. It panics if the buffer is
// shorter than n.
func (b *Buffer) Truncate(n int) {
	b.buf = b.buf[:n]
}
