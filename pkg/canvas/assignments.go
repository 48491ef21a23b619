package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListAssignmentsParams filters ListAssignments
type ListAssignmentsParams struct {
	CourseID   int64
	SearchTerm string
	Bucket     string // past, overdue, undated, ungraded, upcoming, future
	OrderBy    string // position, name, due_at
}

// ListAssignments lists all assignments in a course
func (c *Client) ListAssignments(ctx context.Context, p ListAssignmentsParams) (any, error) {
	orderBy := p.OrderBy
	if orderBy == "" {
		orderBy = "position"
	}

	query := url.Values{}
	query.Set("order_by", orderBy)
	if p.SearchTerm != "" {
		query.Set("search_term", p.SearchTerm)
	}
	if p.Bucket != "" {
		query.Set("bucket", p.Bucket)
	}

	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/assignments", p.CourseID), query, nil)
}

// GetAssignment fetches a single assignment
func (c *Client) GetAssignment(ctx context.Context, courseID, assignmentID int64, include []string) (any, error) {
	query := url.Values{}
	for _, inc := range include {
		query.Add("include[]", inc)
	}
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/assignments/%d", courseID, assignmentID), query, nil)
}

// CreateAssignmentParams describes a new assignment
type CreateAssignmentParams struct {
	CourseID        int64
	Name            string
	SubmissionTypes []string
	PointsPossible  *float64
	DueAt           string // ISO 8601
	Description     string // HTML
	Published       bool
	GradingType     string // points, pass_fail, percent, letter_grade, gpa_scale
}

// CreateAssignment creates a new assignment in a course
func (c *Client) CreateAssignment(ctx context.Context, p CreateAssignmentParams) (any, error) {
	gradingType := p.GradingType
	if gradingType == "" {
		gradingType = "points"
	}

	assignment := map[string]any{
		"name":         p.Name,
		"published":    p.Published,
		"grading_type": gradingType,
	}
	if len(p.SubmissionTypes) > 0 {
		assignment["submission_types"] = p.SubmissionTypes
	}
	if p.PointsPossible != nil {
		assignment["points_possible"] = *p.PointsPossible
	}
	if p.DueAt != "" {
		assignment["due_at"] = p.DueAt
	}
	if p.Description != "" {
		assignment["description"] = p.Description
	}

	body := map[string]any{"assignment": assignment}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("courses/%d/assignments", p.CourseID), nil, body)
}

// UpdateAssignmentParams describes an assignment update
type UpdateAssignmentParams struct {
	CourseID       int64
	AssignmentID   int64
	Name           string
	Description    string // HTML
	DueAt          string
	PointsPossible *float64
	Published      *bool
}

// UpdateAssignment updates an assignment
func (c *Client) UpdateAssignment(ctx context.Context, p UpdateAssignmentParams) (any, error) {
	assignment := map[string]any{}
	if p.Name != "" {
		assignment["name"] = p.Name
	}
	if p.Description != "" {
		assignment["description"] = p.Description
	}
	if p.DueAt != "" {
		assignment["due_at"] = p.DueAt
	}
	if p.PointsPossible != nil {
		assignment["points_possible"] = *p.PointsPossible
	}
	if p.Published != nil {
		assignment["published"] = *p.Published
	}

	body := map[string]any{"assignment": assignment}
	return c.request(ctx, http.MethodPut, fmt.Sprintf("courses/%d/assignments/%d", p.CourseID, p.AssignmentID), nil, body)
}

// DeleteAssignment deletes an assignment
func (c *Client) DeleteAssignment(ctx context.Context, courseID, assignmentID int64) (any, error) {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/assignments/%d", courseID, assignmentID), nil, nil)
}
