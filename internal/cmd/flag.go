// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"strconv"
)

const (
	name = "proot"

	usageMessage = `Usage of 'proot':
    proot [flags...] command [args...]

Commands:
    translate <guest-path>    print the host path a guest path translates to
    detranslate <host-path>   print the guest path a host path maps back to
    fds <pid>...              list open file descriptor paths of processes

Examples:
    proot -r /tmp/rootfs translate /etc/passwd
    proot -r /tmp/rootfs -b /home/user:/root detranslate /home/user/.bashrc

All proot flags can also be provided via environment variable PROOT_ARGS:
    PROOT_ARGS="-r /tmp/rootfs -debug" proot translate /etc/passwd

All proot flags can also be provided via file ./.proot-args, with one
argument per line.
`
)

type flags struct {
	root       string
	cwd        string
	archive    FilePath
	configFile FilePath
	bindings   BindingList
	noDeref    bool

	command string
	args    []string

	version bool
	debug   bool

	flagSet *flag.FlagSet
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := &flags{}
	flags.initFlagset(output)

	err := flags.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

func (f *flags) ParseArgs(args []string) error {
	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--". Everything after that is the command and its arguments.
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, parsing is done. Run prints the version and exits.
	if f.version {
		return nil
	}

	positionalArgs := f.flagSet.Args()

	if len(positionalArgs) < 1 {
		return f.fail("command", ErrNoCommand)
	}

	f.command = positionalArgs[0]
	f.args = positionalArgs[1:]

	switch f.command {
	case "translate", "detranslate":
		if len(f.args) != 1 {
			return f.fail(f.command+": requires exactly one path", nil)
		}
	case "fds":
		if len(f.args) < 1 {
			return f.fail("fds: requires at least one pid", nil)
		}

		if _, err := parsePIDs(f.args); err != nil {
			return f.fail("fds", err)
		}
	default:
		return f.fail(f.command, ErrUnknownCommand)
	}

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.StringVar(
		&f.root,
		"r",
		f.root,
		"path to the guest root file system (default \"/\")",
	)

	flagSet.StringVar(
		&f.cwd,
		"w",
		f.cwd,
		"working directory inside the guest (default \"/\")",
	)

	flagSet.Var(
		&f.bindings,
		"b",
		"binding of the form host:guest. A bare path binds the same path on "+
			"both sides. Flag may be used more than once.",
	)

	flagSet.Var(
		&f.archive,
		"rootfs-archive",
		"cpio archive to extract into the guest root before use",
	)

	flagSet.Var(
		&f.configFile,
		"config",
		"YAML configuration file to load",
	)

	flagSet.BoolVar(
		&f.noDeref,
		"no-deref",
		f.noDeref,
		"do not dereference a trailing symlink during translate",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

func (f *flags) pids() []int {
	// Validated during ParseArgs already.
	pids, _ := parsePIDs(f.args)
	return pids
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}

func parsePIDs(args []string) ([]int, error) {
	pids := make([]int, len(args))

	for idx, arg := range args {
		pid, err := strconv.Atoi(arg)
		if err != nil || pid < 1 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPID, arg)
		}

		pids[idx] = pid
	}

	return pids, nil
}
