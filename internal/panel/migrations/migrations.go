// Package migrations embeds the goose SQL migrations of the panel's local
// database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
