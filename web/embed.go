package web

import "embed"

// TemplatesFS embeds the HTML page templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the css and js served under /static/.
//
//go:embed static
var StaticFS embed.FS
