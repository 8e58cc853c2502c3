// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package proc

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// FDFunc handles one open file descriptor of a process.
type FDFunc func(fd int, target string) error

// OpenFD is one open descriptor target of a process.
type OpenFD struct {
	PID    int
	FD     int
	Target string
}

// ForEachFD calls fn for each open descriptor of pid that refers to a
// filesystem path. Descriptors for sockets, pipes and other anonymous
// targets are skipped, as are descriptors that vanish during the scan. A
// process whose descriptor directory cannot be read at all is treated as
// having none.
func ForEachFD(pid int, fn FDFunc) error {
	dir := fmt.Sprintf("%s/%d/fd", Root, pid)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		fd, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		target, err := ReadLink(dir + "/" + entry.Name())
		if err != nil {
			continue
		}

		if target == "" || target[0] != '/' {
			continue
		}

		if err := fn(fd, target); err != nil {
			return err
		}
	}

	return nil
}

// ListOpenFDs collects the open descriptor targets of all given processes,
// scanning the processes concurrently. The result is sorted by PID and
// descriptor number.
func ListOpenFDs(pids ...int) ([]OpenFD, error) {
	perPID := make([][]OpenFD, len(pids))

	scanGroup := errgroup.Group{}

	for idx, pid := range pids {
		idx, pid := idx, pid

		scanGroup.Go(func() error {
			return ForEachFD(pid, func(fd int, target string) error {
				perPID[idx] = append(perPID[idx], OpenFD{
					PID:    pid,
					FD:     fd,
					Target: target,
				})

				return nil
			})
		})
	}

	if err := scanGroup.Wait(); err != nil {
		return nil, fmt.Errorf("scan open fds: %w", err)
	}

	var fds []OpenFD
	for _, pidFDs := range perPID {
		fds = append(fds, pidFDs...)
	}

	slices.SortFunc(fds, func(a, b OpenFD) int {
		if a.PID != b.PID {
			return a.PID - b.PID
		}

		return a.FD - b.FD
	})

	return fds, nil
}
