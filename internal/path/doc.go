// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package path implements the bounded path algebra the translation layer is
// built on: component scanning, joining, canonical path comparison and the
// bounded buffer all results are assembled in.
//
// All operations enforce the kernel path and file name bounds
// ([golang.org/x/sys/unix.PathMax] and [golang.org/x/sys/unix.NAME_MAX]) at
// the point of write, so an oversized result is rejected before any buffer
// is corrupted. The bounds match the ones the supervised process observes,
// since every translated path is eventually poked back into its address
// space as a NUL terminated C string.
package path
