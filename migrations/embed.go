// Package migrations embeds the SQL schema so the server and the migrate CLI
// ship with it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
