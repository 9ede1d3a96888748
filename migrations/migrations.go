// Package migrations embeds the archive store's SQL schema migrations for
// bun/migrate to discover, grounded on the teacher's own embed.FS
// migrations package.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
