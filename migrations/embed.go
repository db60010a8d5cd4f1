// Package migrations embeds the SQL schema for every supported store.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
