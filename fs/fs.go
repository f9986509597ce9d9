// Package appfs embeds the static assets shipped with the binaries.
package appfs

import "embed"

//go:embed migrations/*.sql catalog.yaml
var FS embed.FS

// CatalogFile is the default group & subject catalog.
const CatalogFile = "catalog.yaml"
