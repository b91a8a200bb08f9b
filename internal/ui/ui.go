// Released under an MIT license. See LICENSE.

// Package ui provides a command-line interface for the sylva language.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/ahills/sylva/internal/common"
	"github.com/ahills/sylva/internal/engine"
	"github.com/ahills/sylva/internal/system/history"
)

// Run launches an interactive session feeding the module m.
// Each completed form is evaluated and its value printed; errors are
// reported and the session continues.
func Run(m *engine.T) {
	cli := liner.NewLiner()
	defer cli.Close()

	cli.SetCtrlCAborts(true)

	_ = history.Load(cli.ReadHistory) // A fresh session has no history.

	defer func() {
		if err := history.Save(cli.WriteHistory); err != nil {
			fmt.Fprintf(os.Stderr, "sylva: saving history: %v\n", err)
		}
	}()

	buffered := ""

	for {
		prompt := "> "
		if buffered != "" {
			prompt = "  "
		}

		line, err := cli.Prompt(prompt)

		switch err {
		case nil:
			// Nothing to do.
		case liner.ErrPromptAborted:
			buffered = ""

			continue
		default:
			fmt.Println("")

			return
		}

		buffered += line + "\n"

		v, err := m.Run(buffered)
		if err != nil {
			if incomplete(err) {
				// More input completes the form; keep reading.
				continue
			}

			fmt.Fprintf(os.Stderr, "sylva: %v\n", err)
		} else if v != nil {
			fmt.Println(common.String(v))
		}

		// Liner's history is line based.
		cli.AppendHistory(strings.TrimSpace(strings.ReplaceAll(buffered, "\n", " ")))

		buffered = ""
	}
}

// incomplete reports whether err indicates input that ended
// mid-form rather than input that is malformed.
func incomplete(err error) bool {
	return strings.Contains(err.Error(), "unterminated")
}
