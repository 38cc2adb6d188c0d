// Package contracts embeds the Flip and Inc bundles built by the two
// supported toolchains, along with the sources they were built from.
//
//	ask/  flat metadata schema ("spec", entries named by "name")
//	ink/  versioned metadata schema ("V3.spec", entries named by "label")
package contracts

import "embed"

// FS holds the bundles, addressed as "<toolchain>/<contract>.contract".
//
//go:embed ask/*.contract ink/*.contract
var FS embed.FS

// Sources holds the contract scripts, addressed as "src/<toolchain>_<contract>.lua".
//
//go:embed src/*.lua
var Sources embed.FS
