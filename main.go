// Released under an MIT license. See LICENSE.

/*
Sylva is a small lisp. Source text is read into pairs and atoms,
macro expanded, compiled to executable units and run. Tail calls,
self-recursive or mutual, run in constant stack space.

For more detail, see: https://github.com/ahills/sylva
*/
package main

import (
	"fmt"
	"os"

	"github.com/ahills/sylva/internal/engine"
	"github.com/ahills/sylva/internal/system/options"
	"github.com/ahills/sylva/internal/ui"
)

func main() {
	options.Parse()

	if options.Command() != "" {
		run(engine.NewModule(options.Args()[0]), options.Command())

		return
	}

	if path := options.Script(); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			fail(err)
		}

		run(engine.NewModule(path), string(b))

		return
	}

	if options.Interactive() {
		ui.Run(engine.NewModule("sylva"))

		return
	}

	if _, err := engine.NewModule("stdin").RunFrom(os.Stdin); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "sylva: %v\n", err)
	os.Exit(1)
}

func run(m *engine.T, text string) {
	if _, err := m.Run(text); err != nil {
		fail(err)
	}
}
