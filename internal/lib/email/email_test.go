package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPreviewData(t *testing.T) {
	for name, data := range PreviewData {
		t.Run(string(name), func(t *testing.T) {
			html, err := Render(name, data)
			require.NoError(t, err)
			assert.Contains(t, html, data["Name"])
			assert.Contains(t, html, "#"+data["ID"])
		})
	}
}

func TestRenderEscapesInput(t *testing.T) {
	html, err := Render(TemplateMessage, map[string]string{
		"ID":      "1",
		"Name":    "<script>alert(1)</script>",
		"Email":   "x@example.com",
		"Message": "hi",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderOmitsEmptyInstitution(t *testing.T) {
	html, err := Render(TemplateRegistration, map[string]string{"ID": "1", "Name": "Bo", "Email": "bo@example.com"})
	require.NoError(t, err)
	assert.NotContains(t, html, "Организация")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render(Template("welcome"), nil)
	assert.Error(t, err)
}
