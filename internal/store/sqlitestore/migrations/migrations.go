// Package migrations embeds the sqlitestore schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
