package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docportal/internal/content"
	apperrors "docportal/internal/errors"
	"docportal/internal/model"
)

func testPages() []model.Page {
	return []model.Page{
		{Slug: "runbooks/rdp", URL: "/docs/runbooks/rdp", Title: "RDP Hardening", Category: "Runbooks", Published: true, Body: "## Disable NLA fallback\n"},
		{Slug: "overview", URL: "/docs/overview", Title: "Portal Overview", Category: "Guides", Published: true, Body: "Welcome"},
		{Slug: "draft", URL: "/docs/draft", Title: "Draft Runbook", Category: "Runbooks", Published: false, Body: "wip"},
	}
}

func TestDocumentService_Catalog(t *testing.T) {
	svc := NewDocumentService(nil, content.NewRenderer(), nil, time.Minute, nil)

	catalog := svc.Catalog()

	require.Len(t, catalog, 11)
	assert.Equal(t, "proposal", catalog[0].ID)
	assert.Equal(t, "technology-stack", catalog[10].ID)
	for _, doc := range catalog {
		assert.Contains(t, doc.MarkdownURL, baseGitHub)
		assert.Contains(t, doc.PDFURL, basePages+"/pdfs/")
	}
}

func TestDocumentService_Pages(t *testing.T) {
	svc := NewDocumentService(testPages(), content.NewRenderer(), nil, time.Minute, nil)

	tests := []struct {
		name  string
		query string
		slugs []string
	}{
		{name: "all published", query: "", slugs: []string{"runbooks/rdp", "overview"}},
		{name: "title match ignores case", query: "rdp", slugs: []string{"runbooks/rdp"}},
		{name: "category match", query: "GUIDES", slugs: []string{"overview"}},
		{name: "unpublished never matches", query: "draft", slugs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := svc.Pages(tt.query)
			slugs := make([]string, 0, len(pages))
			for _, p := range pages {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.slugs, slugs)
		})
	}
}

func TestDocumentService_Render(t *testing.T) {
	svc := NewDocumentService(testPages(), content.NewRenderer(), nil, time.Minute, nil)

	page, html, err := svc.Render(context.Background(), "/runbooks/rdp")

	require.NoError(t, err)
	assert.Equal(t, "RDP Hardening", page.Title)
	assert.Contains(t, html, `<h2 id="disable-nla-fallback">`)
}

func TestDocumentService_RenderNotFound(t *testing.T) {
	svc := NewDocumentService(testPages(), content.NewRenderer(), nil, time.Minute, nil)

	for _, slug := range []string{"missing", "draft"} {
		_, _, err := svc.Render(context.Background(), slug)
		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound, slug)
	}
}

func TestRenderKey_TracksBody(t *testing.T) {
	page := testPages()[0]
	edited := page
	edited.Body = "## Changed\n"

	assert.Equal(t, renderKey(page), renderKey(page))
	assert.NotEqual(t, renderKey(page), renderKey(edited))
	assert.Contains(t, renderKey(page), "docs:runbooks/rdp:")
}
