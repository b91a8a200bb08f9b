// Released under an MIT license. See LICENSE.

// Package boot provides what is necessary for bootstrapping sylva.
package boot

import _ "embed" // Blank import required by embed.

//go:embed boot.sylva
var script string //nolint:gochecknoglobals

// Script returns the prelude loaded into every new module.
func Script() string {
	return script
}
