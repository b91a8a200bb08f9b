// Released under an MIT license. See LICENSE.

// Package validate provides argument checking for builtins.
package validate

import (
	"fmt"

	"github.com/ahills/sylva/internal/common/interface/cell"
)

// Variadic checks that args holds at least min values and splits off
// the first max as the expected arguments. The remainder is returned
// for the caller to consume.
func Variadic(args []cell.I, min, max int) ([]cell.I, []cell.I) {
	if len(args) < min {
		s := Count(min, "argument", "s")
		panic(fmt.Sprintf("expected %s, passed %d", s, len(args)))
	}

	if len(args) <= max {
		return args, nil
	}

	return args[:max], args[max:]
}

// Fixed checks that args holds between min and max values.
func Fixed(args []cell.I, min, max int) []cell.I {
	expected, rest := Variadic(args, min, max)
	if len(rest) != 0 {
		s := Count(max, "argument", "s")

		panic(fmt.Sprintf("expected %s, passed %d", s, len(args)))
	}

	return expected
}

// Count formats n with the label, pluralized by p when n is not 1.
func Count(n int, label string, p string) string {
	if n == 1 {
		p = ""
	}

	return fmt.Sprintf("%d %s%s", n, label, p)
}
