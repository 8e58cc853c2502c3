// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package binding implements the directory substitution table that makes a
// host directory appear at a possibly different guest path. The guest root
// itself is stored as the implicit lowest priority binding of the host root
// directory to guest "/", so a guest to host substitution always lands in
// the host namespace.
package binding

import (
	"errors"
	"fmt"

	"github.com/lysmarine/proot/internal/path"
)

// ErrNoBinding is returned by [Table.Substitute] if no binding applies to
// the given path.
var ErrNoBinding = errors.New("no binding matches")

// Side selects one of the two namespaces a binding spans.
type Side int

const (
	// Guest selects the path namespace seen by the supervised process.
	Guest Side = iota

	// Host selects the real filesystem namespace.
	Host
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Guest {
		return Host
	}

	return Guest
}

// String implements the [fmt.Stringer] interface.
func (s Side) String() string {
	if s == Guest {
		return "guest"
	}

	return "host"
}

// Binding associates a host directory with a guest visible path. A binding
// with the same path on both sides is symmetric: substitution along it
// never changes anything.
type Binding struct {
	Host  string
	Guest string
}

// Path returns the binding's path on the given side.
func (b *Binding) Path(side Side) string {
	if side == Guest {
		return b.Guest
	}

	return b.Host
}

// IsSymmetric reports whether the binding has the same path on both sides.
func (b *Binding) IsSymmetric() bool {
	return b.Host == b.Guest
}

// Table is an immutable set of bindings for one supervised process. The
// most specific binding wins where bindings nest.
type Table struct {
	bindings []Binding
}

// NewTable returns a Table made of the root binding for the given guest
// root and the given additional bindings. All paths must be absolute and
// canonical in their respective namespace.
func NewTable(root string, bindings ...Binding) (*Table, error) {
	all := make([]Binding, 0, len(bindings)+1)
	all = append(all, Binding{Host: root, Guest: "/"})
	all = append(all, bindings...)

	for _, b := range all {
		if !path.IsAbsolute(b.Host) || !path.IsAbsolute(b.Guest) {
			return nil, fmt.Errorf("binding %s:%s: %w",
				b.Host, b.Guest, path.ErrNotAbsolute)
		}
	}

	return &Table{bindings: all}, nil
}

// Get returns the binding whose path on the given side is the longest
// prefix of p, or nil if no binding applies.
func (t *Table) Get(side Side, p string) *Binding {
	var best *Binding

	for i := range t.bindings {
		b := &t.bindings[i]

		switch path.ComparePaths(b.Path(side), p) {
		case path.Equal, path.FirstIsPrefix:
			if best == nil || len(best.Path(side)) < len(b.Path(side)) {
				best = b
			}
		default:
		}
	}

	return best
}

// Substitute rewrites p along the binding matching it on the given side,
// replacing the side's prefix with the opposite side's. It reports whether
// p actually changed, which is never the case for a symmetric binding. If
// no binding applies it fails with [ErrNoBinding], and if the rewritten
// path would exceed the path bound with [path.ErrNameTooLong].
func (t *Table) Substitute(side Side, p string) (string, bool, error) {
	b := t.Get(side, p)
	if b == nil {
		return p, false, ErrNoBinding
	}

	if b.IsSymmetric() {
		return p, false, nil
	}

	rewritten, err := path.JoinPaths(b.Path(side.Other()), p[len(b.Path(side)):])
	if err != nil {
		return p, false, err
	}

	return rewritten, rewritten != p, nil
}
