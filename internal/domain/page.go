package domain

import (
	"fmt"
	"time"
)

// PageType distinguishes blog posts from standalone pages.
type PageType string

const (
	PageTypePost PageType = "post"
	PageTypePage PageType = "page"
)

// PageStatus enumerates the publication lifecycle of a page.
type PageStatus string

const (
	PageDraft     PageStatus = "draft"
	PagePublished PageStatus = "published"
	PageScheduled PageStatus = "scheduled"
)

// Valid reports whether the status is one of the known lifecycle values.
func (s PageStatus) Valid() bool {
	switch s {
	case PageDraft, PagePublished, PageScheduled:
		return true
	}
	return false
}

// Page is a content record mutated by editor saves and by the fix orchestrator.
type Page struct {
	ID          string     `json:"id"`
	Type        PageType   `json:"type"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Tags        []string   `json:"tags,omitempty"`
	Status      PageStatus `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// URL returns the public path a page is reachable under.
func (p *Page) URL() string {
	if p.Type == PageTypePage {
		return "/" + p.Slug
	}
	return "/posts/" + p.Slug
}

// Validate checks page invariants before any persistence call.
// ScheduledAt is required and must be strictly future iff status is scheduled.
func (p *Page) Validate(now time.Time) error {
	if p.Title == "" {
		return NewValidationError("page title is required")
	}
	if p.Slug == "" {
		return NewValidationError("page slug is required")
	}
	if !slugSafe(p.Slug) {
		return NewValidationError("page slug %q is not URL-safe", p.Slug)
	}
	if !p.Status.Valid() {
		return NewValidationError("unknown page status %q", p.Status)
	}
	if p.Status == PageScheduled {
		if p.ScheduledAt == nil {
			return NewValidationError("scheduled page requires scheduledAt")
		}
		if !p.ScheduledAt.After(now) {
			return NewValidationError("scheduledAt %s is not in the future", p.ScheduledAt.Format(time.RFC3339))
		}
	} else if p.ScheduledAt != nil {
		return NewValidationError("scheduledAt is only allowed for scheduled pages, status is %q", p.Status)
	}
	return nil
}

func slugSafe(slug string) bool {
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// DueForPublish reports whether a scheduled page should go live at now.
func (p *Page) DueForPublish(now time.Time) bool {
	return p.Status == PageScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(now)
}

func (t PageType) String() string { return string(t) }

// ParsePageType normalizes free-form type strings, defaulting to post.
func ParsePageType(s string) (PageType, error) {
	switch PageType(s) {
	case PageTypePost, PageTypePage:
		return PageType(s), nil
	case "":
		return PageTypePost, nil
	}
	return "", fmt.Errorf("unknown page type %q", s)
}
