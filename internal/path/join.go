// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package path

// IsAbsolute reports whether p starts with a path separator.
func IsAbsolute(p string) bool {
	return p != "" && p[0] == '/'
}

// JoinPaths concatenates the given fragments into one bounded path. A
// single separator is inserted between two fragments when neither provides
// one at the junction, and collapsed when both do. Empty fragments are
// skipped. Separators inside a fragment are passed through unchanged.
//
// It fails with [ErrNameTooLong] if the result would exceed the path
// bound. The bound is checked at every write, never after the fact.
func JoinPaths(fragments ...string) (string, error) {
	result := NewPathBuffer()

	err := JoinInto(result, fragments...)
	if err != nil {
		return "", err
	}

	return result.String(), nil
}

// JoinInto appends the given fragments to result with the same junction
// rules as [JoinPaths].
func JoinInto(result *Buffer, fragments ...string) error {
	for _, fragment := range fragments {
		if fragment == "" {
			continue
		}

		if result.Len() > 0 {
			left := result.buf[result.Len()-1] == '/'
			right := fragment[0] == '/'

			switch {
			case left && right:
				fragment = fragment[1:]
			case !left && !right:
				if err := result.WriteString("/"); err != nil {
					return err
				}
			}
		}

		if err := result.WriteString(fragment); err != nil {
			return err
		}
	}

	return nil
}
