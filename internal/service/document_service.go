package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"docportal/internal/cache"
	"docportal/internal/content"
	apperrors "docportal/internal/errors"
	"docportal/internal/model"
)

const (
	baseGitHub = "https://github.com/resper1965/jumpserver/blob/main"
	basePages  = "https://resper1965.github.io/jumpserver"
)

var documentCatalog = []model.DocumentLink{
	{
		ID:          "proposal",
		Title:       "Project Proposal",
		Description: "Formal project proposal describing scope, architecture, and risk posture.",
		Audience:    "LVHN IT Leadership, Ionic Management",
		MarkdownURL: baseGitHub + "/docs/proposal/LVHN-eKVM-Remote-Update-Proposal.md",
		PDFURL:      basePages + "/pdfs/LVHN-eKVM-Remote-Update-Proposal.pdf",
	},
	{
		ID:          "questionnaire",
		Title:       "Jumper Server Readiness Questionnaire",
		Description: "Required form capturing only the information needed for jumper server enablement.",
		Audience:    "LVHN IT Operations",
		MarkdownURL: baseGitHub + "/docs/proposal/LVHN-Infrastructure-Questionnaire.md",
		PDFURL:      basePages + "/pdfs/LVHN-Infrastructure-Questionnaire.pdf",
	},
	{
		ID:          "implementation-plan",
		Title:       "Implementation Plan",
		Description: "Phased roadmap with time estimates and responsibilities for the combined team.",
		Audience:    "Project Leadership",
		MarkdownURL: baseGitHub + "/docs/planning/Implementation-Plan.md",
		PDFURL:      basePages + "/pdfs/Implementation-Plan.pdf",
	},
	{
		ID:          "functional-design",
		Title:       "Functional Solution Design",
		Description: "Functional architecture, data flows, and stakeholder responsibilities.",
		Audience:    "Architects, Engineering Leads",
		MarkdownURL: baseGitHub + "/docs/solution/Functional-Solution-Design.md",
		PDFURL:      basePages + "/pdfs/Functional-Solution-Design.pdf",
	},
	{
		ID:          "mop",
		Title:       "Method of Procedure (MOP)",
		Description: "Step-by-step execution guide for eKVM maintenance windows.",
		Audience:    "Ionic Operators, LVHN IT Operations",
		MarkdownURL: baseGitHub + "/docs/procedures/MOP-eKVM-Update.md",
		PDFURL:      basePages + "/pdfs/MOP-eKVM-Update.pdf",
	},
	{
		ID:          "user-manual",
		Title:       "Operator User Manual",
		Description: "Concise operator guide with diagrams for connectivity, validation, and closure.",
		Audience:    "Ionic Operators",
		MarkdownURL: baseGitHub + "/docs/procedures/User-Manual.md",
		PDFURL:      basePages + "/pdfs/User-Manual.pdf",
	},
	{
		ID:          "security-controls",
		Title:       "Security Controls Matrix",
		Description: "NIST SP 800-53, HIPAA, and CIS mapping for the jumper server solution.",
		Audience:    "Security & Compliance",
		MarkdownURL: baseGitHub + "/docs/security/Security-Controls-Matrix.md",
		PDFURL:      basePages + "/pdfs/Security-Controls-Matrix.pdf",
	},
	{
		ID:          "audit-checklist",
		Title:       "Audit Readiness Checklist",
		Description: "Evidence validation checklist for auditor preparation.",
		Audience:    "Compliance, Audit",
		MarkdownURL: baseGitHub + "/docs/compliance/Audit-Readiness-Checklist.md",
		PDFURL:      basePages + "/pdfs/Audit-Readiness-Checklist.pdf",
	},
	{
		ID:          "rdp-runbook",
		Title:       "RDP Hardening Guide",
		Description: "Runbook covering secure RDP configuration on the LVHN jumper server.",
		Audience:    "LVHN IT Operations",
		MarkdownURL: baseGitHub + "/runbooks/RDP-Hardening-Guide.md",
		PDFURL:      basePages + "/pdfs/RDP-Hardening-Guide.pdf",
	},
	{
		ID:          "winrm-runbook",
		Title:       "WinRM Setup & File Transfer",
		Description: "Runbook for WinRM configuration and secure file transfer workflows.",
		Audience:    "LVHN IT Operations",
		MarkdownURL: baseGitHub + "/runbooks/WinRM-Setup-and-File-Transfer.md",
		PDFURL:      basePages + "/pdfs/WinRM-Setup-and-File-Transfer.pdf",
	},
	{
		ID:          "technology-stack",
		Title:       "Technology Stack Specification",
		Description: "Comprehensive specification of the Microsoft-based stack supporting the project.",
		Audience:    "Architects, Compliance",
		MarkdownURL: baseGitHub + "/specs/Technology-Stack-Specification.md",
		PDFURL:      basePages + "/pdfs/Technology-Stack-Specification.pdf",
	},
}

// DocumentService serves the document catalog and the rendered content pages.
type DocumentService interface {
	Catalog() []model.DocumentLink
	Pages(query string) []model.Page
	Render(ctx context.Context, slug string) (*model.Page, string, error)
}

type documentService struct {
	pages    []model.Page
	renderer *content.Renderer
	cache    *cache.Client
	ttl      time.Duration
	logger   *zap.Logger
}

// NewDocumentService creates a document service over the loaded pages.
// Unpublished pages are dropped. cache may be nil.
func NewDocumentService(pages []model.Page, renderer *content.Renderer, c *cache.Client, ttl time.Duration, logger *zap.Logger) DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentService{
		pages:    lo.Filter(pages, func(p model.Page, _ int) bool { return p.Published }),
		renderer: renderer,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
	}
}

// Catalog returns the externally hosted project documents.
func (s *documentService) Catalog() []model.DocumentLink {
	return documentCatalog
}

// Pages returns published pages whose title or category contains query,
// ignoring case. An empty query matches everything.
func (s *documentService) Pages(query string) []model.Page {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.pages
	}
	return lo.Filter(s.pages, func(p model.Page, _ int) bool {
		return strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Category), query)
	})
}

// Render returns the page for slug and its sanitized HTML body.
func (s *documentService) Render(ctx context.Context, slug string) (*model.Page, string, error) {
	slug = strings.Trim(slug, "/")
	page, ok := lo.Find(s.pages, func(p model.Page) bool { return p.Slug == slug })
	if !ok {
		return nil, "", apperrors.ErrDocumentNotFound
	}

	key := renderKey(page)
	if cached := s.cache.Get(ctx, key); cached != nil {
		return &page, string(cached), nil
	}

	html := s.renderer.Render(page.Body)
	s.cache.Set(ctx, key, []byte(html), s.ttl)
	s.logger.Debug("rendered page", zap.String("slug", slug), zap.Int("bytes", len(html)))
	return &page, html, nil
}

// renderKey changes whenever the page body does, so edits never serve stale HTML.
func renderKey(page model.Page) string {
	sum := sha256.Sum256([]byte(page.Body))
	return "docs:" + page.Slug + ":" + hex.EncodeToString(sum[:8])
}
