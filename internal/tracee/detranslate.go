// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package tracee

import (
	"errors"
	"fmt"

	"github.com/lysmarine/proot/internal/binding"
	"github.com/lysmarine/proot/internal/path"
	"github.com/lysmarine/proot/internal/proc"
)

// Outcome reports whether a reverse translation transformed the path.
type Outcome int

const (
	// Unchanged means no transformation was needed.
	Unchanged Outcome = iota

	// Rewritten means the path was replaced.
	Rewritten
)

// Detranslate converts a host path into its guest visible equivalent. This
// is the sanity checked form used for direct requests: bindings are always
// resolved and the result must end up inside the guest namespace,
// otherwise it fails with [path.ErrNotPermitted].
func (t *Tracee) Detranslate(hostPath string) (string, Outcome, error) {
	if !path.IsAbsolute(hostPath) {
		return hostPath, Unchanged, nil
	}

	return t.detranslate(hostPath, true, true)
}

// DetranslateSymlink converts the raw target of a symlink that is being
// resolved into its guest visible equivalent. referrer is the host side
// path of the symlink itself, before its target was read.
//
// A relative target is returned unchanged, it stays meaningful wherever
// the walk currently is. Targets of symlinks below the introspection root
// may be replaced by an emulated, guest consistent value and are always
// subject to binding resolution, since those links point into the emulated
// namespace. For a symlink that originates from a binding, bindings are
// resolved only if target and referrer fall under the very same binding,
// which keeps a binding looking self contained from the guest.
func (t *Tracee) DetranslateSymlink(target, referrer string) (string, Outcome, error) {
	if !path.IsAbsolute(target) {
		return target, Unchanged, nil
	}

	followBinding := false

	switch {
	case path.ComparePaths(proc.Root, referrer) == path.FirstIsPrefix:
		// Some links below the introspection root are generated
		// dynamically by the kernel and have to be emulated.
		if emulated, ok := proc.ResolveDynamicLink(t.procState(), referrer); ok {
			return emulated, Rewritten, nil
		}

		followBinding = true
	case !t.BelongsToGuestFS(referrer):
		bindingTarget := t.Bindings.Get(binding.Host, target)
		bindingReferrer := t.Bindings.Get(binding.Host, referrer)

		if bindingTarget != nil && bindingReferrer != nil {
			comparison := path.ComparePaths(bindingTarget.Host, bindingReferrer.Host)
			followBinding = comparison == path.Equal
		}
	}

	return t.detranslate(target, followBinding, false)
}

func (t *Tracee) detranslate(p string, followBinding, sanityCheck bool) (string, Outcome, error) {
	if followBinding {
		rewritten, changed, err := t.Bindings.Substitute(binding.Host, p)

		switch {
		case err == nil && !changed:
			// Symmetric binding, nothing to transform.
			return p, Unchanged, nil
		case err == nil:
			return rewritten, Rewritten, nil
		case !errors.Is(err, binding.ErrNoBinding):
			return p, Unchanged, err
		}
	}

	switch path.ComparePaths(t.Root, p) {
	case path.FirstIsPrefix:
		// Remove the leading root part. If the guest root is "/" itself
		// there is nothing to strip.
		prefix := len(t.Root)
		if prefix == 1 {
			prefix = 0
		}

		return p[prefix:], Rewritten, nil
	case path.Equal:
		return "/", Rewritten, nil
	default:
		if sanityCheck {
			return p, Unchanged, fmt.Errorf(
				"%q escapes the guest root: %w", p, path.ErrNotPermitted)
		}

		return p, Unchanged, nil
	}
}
