package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"docportal/internal/model"
)

var (
	// ErrMissingTitle is returned for pages whose frontmatter has no title.
	ErrMissingTitle = errors.New("frontmatter: title is required")
	// ErrBadDate is returned when the frontmatter date cannot be parsed.
	ErrBadDate = errors.New("frontmatter: invalid date")
)

var delimiter = []byte("---")

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

type frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Published   *bool  `yaml:"published"`
	Category    string `yaml:"category"`
}

// LoadPages reads every .md and .mdx file under root. A missing root yields
// no pages.
func LoadPages(root string) ([]model.Page, error) {
	var pages []model.Page

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".mdx" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}

		slug := filepath.ToSlash(strings.TrimSuffix(rel, ext))
		page, err := ParsePage(slug, raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", rel, err)
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}

	slices.SortFunc(pages, func(a, b model.Page) int { return strings.Compare(a.Slug, b.Slug) })
	return pages, nil
}

// ParsePage splits raw into YAML frontmatter and markdown body.
func ParsePage(slug string, raw []byte) (model.Page, error) {
	meta, body := splitFrontmatter(raw)

	var fm frontmatter
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return model.Page{}, fmt.Errorf("frontmatter: %w", err)
		}
	}
	if strings.TrimSpace(fm.Title) == "" {
		return model.Page{}, ErrMissingTitle
	}

	page := model.Page{
		Slug:        slug,
		URL:         "/docs/" + slug,
		Title:       fm.Title,
		Description: fm.Description,
		Category:    fm.Category,
		Published:   fm.Published == nil || *fm.Published,
		Body:        string(body),
	}

	if fm.Date != "" {
		date, err := parseDate(fm.Date)
		if err != nil {
			return model.Page{}, err
		}
		page.Date = &date
	}
	return page, nil
}

func splitFrontmatter(raw []byte) (meta, body []byte) {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	if !bytes.HasPrefix(raw, delimiter) {
		return nil, raw
	}

	rest := raw[len(delimiter):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, raw
	}
	rest = rest[nl+1:]

	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		next := len(rest)
		if end >= 0 {
			line = rest[offset : offset+end]
			next = offset + end + 1
		}
		if bytes.Equal(bytes.TrimRight(line, " \r"), delimiter) {
			return rest[:offset], bytes.TrimLeft(rest[next:], "\r\n")
		}
		offset = next
	}

	// Unterminated block: treat everything as body.
	return nil, raw
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}
