package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListCoursesParams filters ListCourses
type ListCoursesParams struct {
	EnrollmentType  string
	EnrollmentState string
	Include         []string
}

// ListCourses lists all courses for the current user
func (c *Client) ListCourses(ctx context.Context, p ListCoursesParams) (any, error) {
	query := url.Values{}
	if p.EnrollmentType != "" {
		query.Set("enrollment_type", p.EnrollmentType)
	}
	if p.EnrollmentState != "" {
		query.Set("enrollment_state", p.EnrollmentState)
	}
	for _, inc := range p.Include {
		query.Add("include[]", inc)
	}

	return c.request(ctx, http.MethodGet, "courses", query, nil)
}

// GetCourse fetches a single course by ID
func (c *Client) GetCourse(ctx context.Context, courseID int64, include []string) (any, error) {
	query := url.Values{}
	for _, inc := range include {
		query.Add("include[]", inc)
	}
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d", courseID), query, nil)
}

// CreateCourseParams describes a new course
type CreateCourseParams struct {
	AccountID  int64
	Name       string
	CourseCode string
	StartAt    string // ISO 8601
	EndAt      string // ISO 8601
	License    string
	IsPublic   bool
}

// CreateCourse creates a new course under an account
func (c *Client) CreateCourse(ctx context.Context, p CreateCourseParams) (any, error) {
	course := map[string]any{
		"name":        p.Name,
		"course_code": p.CourseCode,
		"is_public":   p.IsPublic,
	}
	if p.StartAt != "" {
		course["start_at"] = p.StartAt
	}
	if p.EndAt != "" {
		course["end_at"] = p.EndAt
	}
	if p.License != "" {
		course["license"] = p.License
	}

	body := map[string]any{"course": course}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("accounts/%d/courses", p.AccountID), nil, body)
}

// CourseEvents is the allowed set for UpdateCourse events
var CourseEvents = []string{"offer", "claim", "conclude", "delete", "undelete"}

// UpdateCourseParams describes a course update
type UpdateCourseParams struct {
	CourseID   int64
	Name       string
	CourseCode string
	Event      string // offer, claim, conclude, delete, undelete
}

// UpdateCourse updates course details or fires a course event
func (c *Client) UpdateCourse(ctx context.Context, p UpdateCourseParams) (any, error) {
	if p.Event != "" && !validCourseEvent(p.Event) {
		return nil, fmt.Errorf("invalid course event %q (valid: %v)", p.Event, CourseEvents)
	}

	course := map[string]any{}
	if p.Name != "" {
		course["name"] = p.Name
	}
	if p.CourseCode != "" {
		course["course_code"] = p.CourseCode
	}

	body := map[string]any{"course": course}
	if p.Event != "" {
		body["event"] = p.Event
	}

	return c.request(ctx, http.MethodPut, fmt.Sprintf("courses/%d", p.CourseID), nil, body)
}

// DeleteCourse deletes or concludes a course; event is "delete" or "conclude"
func (c *Client) DeleteCourse(ctx context.Context, courseID int64, event string) (any, error) {
	if event == "" {
		event = "delete"
	}
	query := url.Values{}
	query.Set("event", event)
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("courses/%d", courseID), query, nil)
}

func validCourseEvent(event string) bool {
	for _, e := range CourseEvents {
		if e == event {
			return true
		}
	}
	return false
}
