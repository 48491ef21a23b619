package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListPagesParams filters ListPages
type ListPagesParams struct {
	CourseID   int64
	SearchTerm string
	Published  *bool
}

// ListPages lists all pages in a course
func (c *Client) ListPages(ctx context.Context, p ListPagesParams) (any, error) {
	query := url.Values{}
	if p.SearchTerm != "" {
		query.Set("search_term", p.SearchTerm)
	}
	if p.Published != nil {
		query.Set("published", strconv.FormatBool(*p.Published))
	}
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/pages", p.CourseID), query, nil)
}

// GetPage fetches a single page by URL slug or ID
func (c *Client) GetPage(ctx context.Context, courseID int64, urlOrID string) (any, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/pages/%s", courseID, url.PathEscape(urlOrID)), nil, nil)
}

// CreatePageParams describes a new wiki page
type CreatePageParams struct {
	CourseID       int64
	Title          string
	Body           string // HTML
	EditingRoles   string // teachers, students, members, public
	NotifyOfUpdate bool
	Published      bool
	FrontPage      bool
}

// CreatePage creates a new page in a course
func (c *Client) CreatePage(ctx context.Context, p CreatePageParams) (any, error) {
	editingRoles := p.EditingRoles
	if editingRoles == "" {
		editingRoles = "teachers"
	}

	body := map[string]any{
		"wiki_page": map[string]any{
			"title":            p.Title,
			"body":             p.Body,
			"editing_roles":    editingRoles,
			"notify_of_update": p.NotifyOfUpdate,
			"published":        p.Published,
			"front_page":       p.FrontPage,
		},
	}

	return c.request(ctx, http.MethodPost, fmt.Sprintf("courses/%d/pages", p.CourseID), nil, body)
}

// UpdatePageParams describes a page update
type UpdatePageParams struct {
	CourseID  int64
	URLOrID   string
	Title     string
	Body      string
	Published *bool
}

// UpdatePage updates a page
func (c *Client) UpdatePage(ctx context.Context, p UpdatePageParams) (any, error) {
	page := map[string]any{}
	if p.Title != "" {
		page["title"] = p.Title
	}
	if p.Body != "" {
		page["body"] = p.Body
	}
	if p.Published != nil {
		page["published"] = *p.Published
	}

	body := map[string]any{"wiki_page": page}
	return c.request(ctx, http.MethodPut, fmt.Sprintf("courses/%d/pages/%s", p.CourseID, url.PathEscape(p.URLOrID)), nil, body)
}

// DeletePage deletes a page
func (c *Client) DeletePage(ctx context.Context, courseID int64, urlOrID string) (any, error) {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/pages/%s", courseID, url.PathEscape(urlOrID)), nil, nil)
}
