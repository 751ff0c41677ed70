package model

import "time"

// DocumentLink is an entry of the static document catalog.
type DocumentLink struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Audience    string `json:"audience"`
	MarkdownURL string `json:"markdownUrl"`
	PDFURL      string `json:"pdfUrl"`
}

// Page is a markdown document loaded from the content directory.
type Page struct {
	Slug        string     `json:"slug"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Published   bool       `json:"published"`
	Body        string     `json:"-"`
}
