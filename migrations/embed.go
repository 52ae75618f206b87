// Package migrations carries the arena schema so the server binary can apply
// it without a checkout next to it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
