package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListDiscussionsParams filters ListDiscussions
type ListDiscussionsParams struct {
	CourseID   int64
	SearchTerm string
	OrderBy    string // position, recent_activity, title
}

// ListDiscussions lists all discussion topics in a course
func (c *Client) ListDiscussions(ctx context.Context, p ListDiscussionsParams) (any, error) {
	orderBy := p.OrderBy
	if orderBy == "" {
		orderBy = "position"
	}

	query := url.Values{}
	query.Set("order_by", orderBy)
	if p.SearchTerm != "" {
		query.Set("search_term", p.SearchTerm)
	}

	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/discussion_topics", p.CourseID), query, nil)
}

// GetDiscussion fetches a single discussion topic
func (c *Client) GetDiscussion(ctx context.Context, courseID, topicID int64) (any, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/discussion_topics/%d", courseID, topicID), nil, nil)
}

// CreateDiscussionParams describes a new discussion topic
type CreateDiscussionParams struct {
	CourseID           int64
	Title              string
	Message            string // HTML
	DiscussionType     string // side_comment, threaded
	Published          bool
	IsAnnouncement     bool
	Pinned             bool
	RequireInitialPost bool
}

// CreateDiscussion creates a new discussion topic
func (c *Client) CreateDiscussion(ctx context.Context, p CreateDiscussionParams) (any, error) {
	discussionType := p.DiscussionType
	if discussionType == "" {
		discussionType = "side_comment"
	}

	body := map[string]any{
		"title":                p.Title,
		"message":              p.Message,
		"discussion_type":      discussionType,
		"published":            p.Published,
		"is_announcement":      p.IsAnnouncement,
		"pinned":               p.Pinned,
		"require_initial_post": p.RequireInitialPost,
	}

	return c.request(ctx, http.MethodPost, fmt.Sprintf("courses/%d/discussion_topics", p.CourseID), nil, body)
}

// UpdateDiscussionParams describes a discussion update
type UpdateDiscussionParams struct {
	CourseID  int64
	TopicID   int64
	Title     string
	Message   string
	Published *bool
	Pinned    *bool
}

// UpdateDiscussion updates a discussion topic
func (c *Client) UpdateDiscussion(ctx context.Context, p UpdateDiscussionParams) (any, error) {
	body := map[string]any{}
	if p.Title != "" {
		body["title"] = p.Title
	}
	if p.Message != "" {
		body["message"] = p.Message
	}
	if p.Published != nil {
		body["published"] = *p.Published
	}
	if p.Pinned != nil {
		body["pinned"] = *p.Pinned
	}

	return c.request(ctx, http.MethodPut, fmt.Sprintf("courses/%d/discussion_topics/%d", p.CourseID, p.TopicID), nil, body)
}

// DeleteDiscussion deletes a discussion topic
func (c *Client) DeleteDiscussion(ctx context.Context, courseID, topicID int64) (any, error) {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/discussion_topics/%d", courseID, topicID), nil, nil)
}

// PostDiscussionEntry posts an entry to a discussion topic
func (c *Client) PostDiscussionEntry(ctx context.Context, courseID, topicID int64, message string) (any, error) {
	body := map[string]any{"message": message}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("courses/%d/discussion_topics/%d/entries", courseID, topicID), nil, body)
}

// CreateAnnouncement creates an announcement, which is a published discussion
// topic flagged as an announcement
func (c *Client) CreateAnnouncement(ctx context.Context, courseID int64, title, message string, published bool) (any, error) {
	return c.CreateDiscussion(ctx, CreateDiscussionParams{
		CourseID:       courseID,
		Title:          title,
		Message:        message,
		Published:      published,
		IsAnnouncement: true,
	})
}
