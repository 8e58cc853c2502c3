// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rootfs populates a guest root directory from a cpio archive, so
// a packaged root filesystem can be used directly as the apparent "/" of a
// supervised process.
package rootfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavaliergopher/cpio"
	"golang.org/x/sys/unix"

	"github.com/lysmarine/proot/internal/path"
)

// ErrEntryEscapes is returned if an archive entry would be created outside
// the destination directory.
var ErrEntryEscapes = errors.New("archive entry escapes the destination")

const defaultDirMode = 0o755

// Extract unpacks the cpio archive read from r into dir. Directories,
// regular files and symbolic links are restored, other entry types are
// skipped. Entry paths are confined to dir, including entries that try to
// reach through a previously extracted symlink.
func Extract(dir string, r io.Reader) error {
	// Resolve the destination once so the per-entry confinement check can
	// compare resolved parents against it.
	dir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	reader := cpio.NewReader(r)

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		if err := extractEntry(dir, header, reader); err != nil {
			return fmt.Errorf("extract %s: %w", header.Name, err)
		}
	}
}

func extractEntry(dir string, header *cpio.Header, body io.Reader) error {
	name := filepath.Clean(strings.TrimPrefix(header.Name, "/"))
	if name == "." {
		return nil
	}

	if name == ".." || strings.HasPrefix(name, "../") {
		return ErrEntryEscapes
	}

	destination := filepath.Join(dir, name)
	mode := header.FileInfo().Mode()

	if !mode.IsDir() && mode&fs.ModeSymlink == 0 && !mode.IsRegular() {
		// Device nodes and the like cannot be created without privileges.
		return nil
	}

	if err := confine(dir, destination); err != nil {
		return err
	}

	if err := mkParents(destination); err != nil {
		return err
	}

	switch {
	case mode.IsDir():
		err := os.Mkdir(destination, mode.Perm())
		if err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("mkdir: %w", err)
		}
	case mode&fs.ModeSymlink != 0:
		// The reader stores the target, read from the entry's body, in the
		// header.
		target := header.Linkname
		if len(target) >= unix.PathMax {
			return path.ErrNameTooLong
		}

		if err := os.Symlink(target, destination); err != nil {
			return fmt.Errorf("symlink: %w", err)
		}
	default:
		if err := writeRegular(destination, mode.Perm(), body); err != nil {
			return err
		}
	}

	return nil
}

// confine verifies that the parent of destination, with symlinks resolved,
// still lies inside dir. Without it, a symlink entry pointing outside
// followed by an entry nested below it would smuggle files past the
// destination. Ancestors that do not exist yet are skipped, they are
// created as plain directories afterwards.
func confine(dir, destination string) error {
	ancestor := filepath.Dir(destination)

	for {
		resolved, err := filepath.EvalSymlinks(ancestor)
		if errors.Is(err, fs.ErrNotExist) {
			ancestor = filepath.Dir(ancestor)
			continue
		}

		if err != nil {
			return fmt.Errorf("resolve parent: %w", err)
		}

		inside := resolved == dir ||
			strings.HasPrefix(resolved, dir+string(filepath.Separator))
		if !inside {
			return fmt.Errorf("%q: %w", destination, ErrEntryEscapes)
		}

		return nil
	}
}

func writeRegular(destination string, perm fs.FileMode, body io.Reader) error {
	file, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()

		return fmt.Errorf("write: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func mkParents(destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), defaultDirMode); err != nil {
		return fmt.Errorf("mkdir parents: %w", err)
	}

	return nil
}
