// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysmarine/proot/internal/path"
)

func TestBufferWriteString(t *testing.T) {
	buffer := path.NewBuffer(8)

	require.NoError(t, buffer.WriteString("/tmp"))
	assert.Equal(t, "/tmp", buffer.String())
	assert.Equal(t, 4, buffer.Len())

	// 4+4 bytes would leave no room for the terminator.
	err := buffer.WriteString("/abc")
	require.ErrorIs(t, err, path.ErrNameTooLong)
	assert.Equal(t, "/tmp", buffer.String())

	require.NoError(t, buffer.WriteString("/ab"))
	assert.Equal(t, "/tmp/ab", buffer.String())
}

func TestBufferSetString(t *testing.T) {
	buffer := path.NewBuffer(8)

	require.NoError(t, buffer.SetString("/a/b/c"))
	require.NoError(t, buffer.SetString("/d"))
	assert.Equal(t, "/d", buffer.String())

	err := buffer.SetString("/too-long")
	require.ErrorIs(t, err, path.ErrNameTooLong)
	assert.Equal(t, "/d", buffer.String())
}

func TestBufferTruncate(t *testing.T) {
	buffer := path.NewBuffer(16)

	require.NoError(t, buffer.SetString("/a/b"))

	buffer.Truncate(2)
	assert.Equal(t, "/a", buffer.String())

	buffer.Truncate(0)
	assert.Zero(t, buffer.Len())
}
