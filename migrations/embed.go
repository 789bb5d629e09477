// Package migrations embeds the marketplace schema.
package migrations

import "embed"

// FS holds the *.up.sql files, applied in name order.
//
//go:embed *.up.sql
var FS embed.FS
