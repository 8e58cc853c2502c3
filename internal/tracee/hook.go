// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package tracee

import "github.com/lysmarine/proot/internal/path"

// Event identifies the translation step a [Hook] is notified about.
type Event int

// EventGuestPath is emitted once per translation, after the base has been
// established and before the guest path is canonicalized.
const EventGuestPath Event = iota

// Action is a hook's verdict on a translation step.
type Action int

const (
	// Continue lets the translation proceed normally.
	Continue Action = iota

	// Handled means the hook produced the final host path in the result
	// buffer itself and the remaining translation steps must be skipped.
	Handled
)

// Hook intercepts translation steps. result holds the translation state so
// far and may be replaced by a hook returning [Handled]. guestPath is the
// original path as written by the supervised process. An error aborts the
// translation and is propagated to the caller.
type Hook func(t *Tracee, event Event, result *path.Buffer, guestPath string) (Action, error)

// AddHook registers a hook. Hooks run in registration order.
func (t *Tracee) AddHook(hook Hook) {
	t.hooks = append(t.hooks, hook)
}

// notify offers the translation step to all hooks. The first error or
// Handled verdict wins.
func (t *Tracee) notify(event Event, result *path.Buffer, guestPath string) (Action, error) {
	for _, hook := range t.hooks {
		action, err := hook(t, event, result, guestPath)
		if err != nil {
			return Continue, err
		}

		if action == Handled {
			return Handled, nil
		}
	}

	return Continue, nil
}
