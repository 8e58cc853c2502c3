// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package path

// Comparison is the result of comparing two canonical paths.
type Comparison int

const (
	// NotComparable means neither path is a prefix of the other.
	NotComparable Comparison = iota

	// Equal means both paths refer to the same entry.
	Equal

	// FirstIsPrefix means the first path is a parent of the second.
	FirstIsPrefix

	// SecondIsPrefix means the second path is a parent of the first.
	SecondIsPrefix
)

// String implements the [fmt.Stringer] interface.
func (c Comparison) String() string {
	switch c {
	case Equal:
		return "equal"
	case FirstIsPrefix:
		return "first is prefix"
	case SecondIsPrefix:
		return "second is prefix"
	default:
		return "not comparable"
	}
}

// ComparePaths classifies two absolute, already canonicalized paths. A
// single trailing separator is ignored. A prefix only counts at a component
// boundary: "/foo" is not a prefix of "/foobar".
//
// Both paths must have been canonicalized in the same namespace, host or
// guest. Comparing across namespaces is a caller bug that cannot be
// detected here.
func ComparePaths(path1, path2 string) Comparison {
	length1 := len(path1)
	length2 := len(path2)

	if length1 == 0 || length2 == 0 {
		return NotComparable
	}

	// Drop a trailing separator for the comparison.
	if path1[length1-1] == '/' {
		length1--
	}

	if path2[length2-1] == '/' {
		length2--
	}

	// The byte following the common prefix in the longer path is the
	// sentinel. It must be a separator, otherwise the match ends inside a
	// component.
	var sentinel byte

	lengthMin := length2

	switch {
	case length1 < length2:
		lengthMin = length1
		sentinel = path2[lengthMin]
	case length1 > length2:
		sentinel = path1[lengthMin]
	}

	if sentinel != 0 && sentinel != '/' {
		return NotComparable
	}

	if path1[:lengthMin] != path2[:lengthMin] {
		return NotComparable
	}

	switch {
	case length1 == length2:
		return Equal
	case length1 < length2:
		return FirstIsPrefix
	default:
		return SecondIsPrefix
	}
}
