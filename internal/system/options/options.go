// Released under an MIT license. See LICENSE.

// Package options parses sylva's command line.
package options

import (
	"os"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
)

const version = "sylva 0.1.0"

//nolint:gochecknoglobals
var (
	args        []string
	command     string
	interactive bool
	script      string
	usage       = `sylva

Usage:
  sylva SCRIPT [ARGUMENTS...]
  sylva -c COMMAND [NAME [ARGUMENTS...]]
  sylva [-i] [-s [ARGUMENTS...]]
  sylva -h
  sylva -v

Arguments:
  ARGUMENTS  Positional parameters.
  SCRIPT     Path to sylva script. Also used as the value for $0.
  NAME       Override $0. Otherwise, $0 is set to name used to invoke sylva.

Options:
  -c, --command=COMMAND  Run the specified command.
  -i, --interactive      Invert interactive mode.
  -s, --stdin            Read commands from stdin.
  -h, --help             Display this help.
  -v, --version          Print sylva version.

If sylva's stdin is a TTY, and sylva was invoked with no non-option operands
or sylva was explicitly directed to evaluate commands from stdin, interactive
features are enabled. Otherwise, these features are disabled.
`
)

func Args() []string {
	return args
}

func Command() string {
	return command
}

func Interactive() bool {
	return interactive
}

// Parse parses the command line. A --version flag is handled here:
// docopt prints the version and exits.
func Parse() {
	parse(nil)
}

func parse(argv []string) {
	opts, err := docopt.ParseArgs(usage, argv, version)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	interactive = false
	script = ""

	command, _ = opts.String("--command")

	name, _ := opts.String("NAME")
	if name == "" {
		name = os.Args[0]
	}

	path, _ := opts.String("SCRIPT")
	if path != "" {
		name = path
		script = path
	} else if command == "" && isatty.IsTerminal(os.Stdin.Fd()) {
		interactive = true
	}

	args, _ = opts["ARGUMENTS"].([]string)
	args = append([]string{name}, args...)

	invertInteractive, _ := opts.Bool("--interactive")
	interactive = interactive != invertInteractive
}

func Script() string {
	return script
}
