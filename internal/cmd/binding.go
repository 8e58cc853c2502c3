// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"strings"

	"github.com/lysmarine/proot/internal/binding"
	"github.com/lysmarine/proot/internal/path"
)

// BindingList collects bindings from repeated flag uses.
type BindingList []binding.Binding

func (b *BindingList) String() string {
	specs := make([]string, len(*b))
	for idx, bnd := range *b {
		specs[idx] = bnd.Host + ":" + bnd.Guest
	}

	return strings.Join(specs, ",")
}

// Set parses a binding of the form "host:guest". A bare path binds the same
// path on both sides. Both sides must be absolute.
func (b *BindingList) Set(s string) error {
	host, guest, found := strings.Cut(s, ":")
	if !found {
		guest = host
	}

	if !path.IsAbsolute(host) || !path.IsAbsolute(guest) {
		return fmt.Errorf("%w: %s", ErrInvalidBinding, s)
	}

	*b = append(*b, binding.Binding{Host: host, Guest: guest})

	return nil
}
