// Package content bundles a sample campaign and character so the binary
// can be played without any files on disk.
package content

import (
	_ "embed"
)

//go:embed goblin_road.json
var campaign []byte

//go:embed hero.json
var character []byte

// Campaign returns the bundled campaign document.
func Campaign() []byte {
	return append([]byte(nil), campaign...)
}

// Character returns the bundled character sheet.
func Character() []byte {
	return append([]byte(nil), character...)
}
