// Package web embeds the editor page, its fragments and static assets.
package web

import "embed"

// FS holds templates/ and static/.
//
//go:embed templates static
var FS embed.FS

// Template patterns for templates.New.
var TemplatePatterns = []string{"templates/*.html", "templates/fragments/*.html"}
