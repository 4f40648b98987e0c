// Package schemas хранит JSON-схемы форм админки.
package schemas

import "embed"

//go:embed forms/*.json
var SchemasFS embed.FS
