package parable

import (
	_ "embed"
)

//go:embed prelude.l
var preludeL string

// Prelude returns a fresh environment holding the definitions of the
// embedded prelude library.
func Prelude() (*Env, error) {
	return LoadString(preludeL, "prelude.l", nil)
}
