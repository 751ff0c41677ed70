package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"docportal/internal/auth"
	apperrors "docportal/internal/errors"
	"docportal/internal/model"
	"docportal/internal/service"
	"docportal/internal/web"
)

// DocsHandler serves the document index and the rendered pages.
type DocsHandler struct {
	docs        service.DocumentService
	authService service.AuthService
	cookies     *auth.CookieHelper
}

// NewDocsHandler creates a docs handler.
func NewDocsHandler(docs service.DocumentService, authService service.AuthService, cookies *auth.CookieHelper) *DocsHandler {
	return &DocsHandler{docs: docs, authService: authService, cookies: cookies}
}

type docsIndexView struct {
	Query   string
	Pages   []model.Page
	Catalog []model.DocumentLink
}

type docPageView struct {
	Page *model.Page
	HTML template.HTML
}

// Index lists the project documents and content pages, filtered by ?q=.
func (h *DocsHandler) Index(c echo.Context) error {
	query := c.QueryParam("q")
	return c.Render(http.StatusOK, "docs_index", web.View{
		Title: "Documents",
		User:  sessionFor(c, h.authService, h.cookies),
		Data: docsIndexView{
			Query:   query,
			Pages:   h.docs.Pages(query),
			Catalog: h.docs.Catalog(),
		},
	})
}

// Page renders one content page.
func (h *DocsHandler) Page(c echo.Context) error {
	user := sessionFor(c, h.authService, h.cookies)

	page, html, err := h.docs.Render(c.Request().Context(), c.Param("*"))
	if err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			return renderError(c, user, http.StatusNotFound, "This document does not exist.")
		}
		return httpError(err)
	}

	return c.Render(http.StatusOK, "doc_page", web.View{
		Title: page.Title,
		User:  user,
		// html was sanitized by the content renderer.
		Data: docPageView{Page: page, HTML: template.HTML(html)},
	})
}

// ListPages godoc
// @Summary List content pages
// @Tags docs
// @Produce json
// @Param q query string false "Title or category filter"
// @Success 200 {array} model.Page
// @Failure 401 {object} errors.ErrorResponse
// @Router /docs/pages [get]
func (h *DocsHandler) ListPages(c echo.Context) error {
	if sessionFor(c, h.authService, h.cookies) == nil {
		return unauthorized("Unauthorized")
	}
	return c.JSON(http.StatusOK, h.docs.Pages(c.QueryParam("q")))
}

// ListCatalog godoc
// @Summary List project documents
// @Tags docs
// @Produce json
// @Success 200 {array} model.DocumentLink
// @Failure 401 {object} errors.ErrorResponse
// @Router /docs/catalog [get]
func (h *DocsHandler) ListCatalog(c echo.Context) error {
	if sessionFor(c, h.authService, h.cookies) == nil {
		return unauthorized("Unauthorized")
	}
	return c.JSON(http.StatusOK, h.docs.Catalog())
}
