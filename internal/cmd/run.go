// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"golang.org/x/sys/unix"

	"github.com/lysmarine/proot/internal/path"
	"github.com/lysmarine/proot/internal/proc"
	"github.com/lysmarine/proot/internal/rootfs"
	"github.com/lysmarine/proot/internal/tracee"
)

const localConfigFile = ".proot-args"

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func newTracee(flags *flags) (*tracee.Tracee, error) {
	config, err := newConfig(flags)
	if err != nil {
		return nil, err
	}

	if config.Archive != "" {
		err := extractArchive(config.Root, config.Archive)
		if err != nil {
			return nil, err
		}
	}

	guest, err := tracee.New(tracee.Bootstrap(), config.Root, config.bindings()...)
	if err != nil {
		return nil, fmt.Errorf("new tracee: %w", err)
	}

	guest.Cwd = config.Cwd

	if flags.debug {
		guest.AddHook(logHook)

		err := guest.WarnOpenFDs(slog.Default())
		if err != nil {
			slog.Debug("Open fd scan failed", slog.Any("error", err))
		}
	}

	return guest, nil
}

func extractArchive(root, archive string) error {
	err := ValidateFilePath(archive)
	if err != nil {
		return fmt.Errorf("archive file: %w", err)
	}

	file, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	err = os.MkdirAll(root, 0o755)
	if err != nil {
		return fmt.Errorf("create root: %w", err)
	}

	err = rootfs.Extract(root, file)
	if err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	slog.Debug("Extracted rootfs archive",
		slog.String("archive", archive),
		slog.String("root", root))

	return nil
}

func logHook(
	t *tracee.Tracee,
	event tracee.Event,
	result *path.Buffer,
	guestPath string,
) (tracee.Action, error) {
	slog.Debug("Translation event",
		slog.Int("event", int(event)),
		slog.String("base", result.String()),
		slog.String("guestPath", guestPath))

	return tracee.Continue, nil
}

func run(flags *flags, cfg IO) error {
	guest, err := newTracee(flags)
	if err != nil {
		return err
	}

	switch flags.command {
	case "translate":
		return runTranslate(guest, flags.args[0], !flags.noDeref, cfg.Stdout)
	case "detranslate":
		return runDetranslate(guest, flags.args[0], cfg.Stdout)
	case "fds":
		return runFDs(guest, flags.pids(), cfg.Stdout)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, flags.command)
	}
}

func runTranslate(
	guest *tracee.Tracee,
	guestPath string,
	deref bool,
	output io.Writer,
) error {
	hostPath, err := guest.Translate(unix.AT_FDCWD, guestPath, deref)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	fmt.Fprintln(output, hostPath)

	return nil
}

func runDetranslate(
	guest *tracee.Tracee,
	hostPath string,
	output io.Writer,
) error {
	guestPath, _, err := guest.Detranslate(hostPath)
	if err != nil {
		return fmt.Errorf("detranslate: %w", err)
	}

	fmt.Fprintln(output, guestPath)

	return nil
}

func runFDs(guest *tracee.Tracee, pids []int, output io.Writer) error {
	fds, err := proc.ListOpenFDs(pids...)
	if err != nil {
		return fmt.Errorf("list open fds: %w", err)
	}

	for _, fd := range fds {
		// Mark targets that live outside the guest root. Those stay
		// untranslated until the fd is reopened.
		marker := ""
		if !guest.BelongsToGuestFS(fd.Target) {
			marker = "\thost"
		}

		fmt.Fprintf(output, "%d\t%d\t%s%s\n", fd.PID, fd.FD, fd.Target, marker)
	}

	return nil
}

func handleParseArgsError(err error) int {
	// [flag.ErrHelp] is returned when help is requested. So exit without
	// error in this case.
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	// Path translation errors map to the errno an intercepted syscall would
	// report. Print it along with the error.
	for _, pathErr := range []error{
		path.ErrNameTooLong,
		path.ErrNotDirectory,
		path.ErrNotPermitted,
		path.ErrTooManyLinks,
		path.ErrNotAbsolute,
	} {
		if errors.Is(err, pathErr) {
			slog.Error(err.Error(),
				slog.String("errno", unix.ErrnoName(path.Errno(err))))

			return -1
		}
	}

	slog.Error(err.Error())

	return -1
}

// Run is the main entry point for the CLI command.
func Run(args []string, cfg IO) int {
	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.debug)

	if flags.version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return -1
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return 0
	}

	err = run(flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
