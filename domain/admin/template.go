package admin

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const listTemplateName = "waitlist"

var listTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))
