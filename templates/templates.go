// Package templates embeds the server rendered pages.
package templates

import (
	"embed"
	"html/template"
	"net/url"

	"github.com/CPU-commits/CareerNest/models"
)

//go:embed html/*.html
var files embed.FS

var Funcs = template.FuncMap{
	"display": func(date models.FlexDate) string {
		return date.Display()
	},
	"add": func(a, b int) int {
		return a + b
	},
	"sub": func(a, b int) int {
		return a - b
	},
	"query": func(values url.Values, key, value string) string {
		copied := url.Values{}
		for k, v := range values {
			copied[k] = v
		}
		copied.Set(key, value)
		return copied.Encode()
	},
}

// Load parses every page with the shared layout blocks.
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "html/*.html")
}
