package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	pages, err := Load()
	require.NoError(t, err)
	for _, name := range []string{"listing.html", "register.html", "error.html"} {
		assert.NotNil(t, pages.Lookup(name), name)
	}
}

// The register page checks passwords with the unicode classes
// forms.PasswordProblems uses.
func TestRegisterPasswordClasses(t *testing.T) {
	page, err := files.ReadFile("html/register.html")
	require.NoError(t, err)
	for _, class := range []string{`/\p{Ll}/u`, `/\p{Lu}/u`, `/\p{Nd}/u`, `/[\p{P}\p{S}]/u`, `[...password].length`} {
		assert.Contains(t, string(page), class)
	}
	assert.NotContains(t, string(page), `A-Za-z0-9`)
}
