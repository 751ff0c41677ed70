package web

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docportal/internal/auth"
	"docportal/internal/model"
)

func TestRenderer_PagesParsed(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range []string{"home", "login", "docs_index", "doc_page", "questionnaire", "admin", "admin_users", "error"} {
		assert.Contains(t, r.pages, name)
	}
	assert.NotContains(t, r.pages, "layout")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "missing", View{}, nil)
	assert.ErrorContains(t, err, "missing")
}

func TestRenderer_LayoutShowsSession(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var anon bytes.Buffer
	require.NoError(t, r.Render(&anon, "home", View{Title: "Home"}, nil))
	assert.Contains(t, anon.String(), "<title>Home | LVHN Jumper Server Portal</title>")
	assert.Contains(t, anon.String(), `href="/login"`)
	assert.NotContains(t, anon.String(), `href="/admin"`)

	var admin bytes.Buffer
	user := &auth.Claims{UserID: "u1", Username: "alice", Name: "Alice", Role: model.RoleAdmin}
	require.NoError(t, r.Render(&admin, "home", View{User: user}, nil))
	assert.Contains(t, admin.String(), `href="/admin"`)
	assert.Contains(t, admin.String(), "Alice (admin)")
}

func TestRenderer_DocPageKeepsSanitizedHTML(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	date := time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "doc_page", View{Data: struct {
		Page *model.Page
		HTML template.HTML
	}{
		Page: &model.Page{Title: "RDP <Guide>", Date: &date},
		HTML: template.HTML(`<h2 id="steps">Steps</h2>`),
	}}, nil))

	out := buf.String()
	assert.Contains(t, out, `<h2 id="steps">Steps</h2>`)
	assert.Contains(t, out, "RDP &lt;Guide&gt;")
	assert.Contains(t, out, "Nov 11, 2025")
}
