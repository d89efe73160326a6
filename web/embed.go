// Package web embeds the HTML templates and static assets served by the
// application.
package web

import "embed"

//go:embed all:templates
var Templates embed.FS

//go:embed all:static
var Static embed.FS
