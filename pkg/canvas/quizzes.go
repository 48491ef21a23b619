package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListQuizzes lists all quizzes in a course, optionally filtered by title
func (c *Client) ListQuizzes(ctx context.Context, courseID int64, searchTerm string) (any, error) {
	query := url.Values{}
	if searchTerm != "" {
		query.Set("search_term", searchTerm)
	}
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/quizzes", courseID), query, nil)
}

// GetQuiz fetches a single quiz
func (c *Client) GetQuiz(ctx context.Context, courseID, quizID int64) (any, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/quizzes/%d", courseID, quizID), nil, nil)
}

// CreateQuizParams describes a new quiz
type CreateQuizParams struct {
	CourseID        int64
	Title           string
	QuizType        string // practice_quiz, assignment, graded_survey, survey
	Description     string // HTML
	TimeLimit       *int64 // minutes
	ShuffleAnswers  bool
	AllowedAttempts int64  // -1 for unlimited
	ScoringPolicy   string // keep_highest, keep_latest, keep_average
	Published       bool
	DueAt           string // ISO 8601
}

// CreateQuiz creates a new quiz in a course
func (c *Client) CreateQuiz(ctx context.Context, p CreateQuizParams) (any, error) {
	quizType := p.QuizType
	if quizType == "" {
		quizType = "assignment"
	}
	scoringPolicy := p.ScoringPolicy
	if scoringPolicy == "" {
		scoringPolicy = "keep_highest"
	}
	allowedAttempts := p.AllowedAttempts
	if allowedAttempts == 0 {
		allowedAttempts = 1
	}

	quiz := map[string]any{
		"title":            p.Title,
		"quiz_type":        quizType,
		"shuffle_answers":  p.ShuffleAnswers,
		"allowed_attempts": allowedAttempts,
		"scoring_policy":   scoringPolicy,
		"published":        p.Published,
	}
	if p.Description != "" {
		quiz["description"] = p.Description
	}
	if p.TimeLimit != nil {
		quiz["time_limit"] = *p.TimeLimit
	}
	if p.DueAt != "" {
		quiz["due_at"] = p.DueAt
	}

	body := map[string]any{"quiz": quiz}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("courses/%d/quizzes", p.CourseID), nil, body)
}

// UpdateQuizParams describes a quiz update
type UpdateQuizParams struct {
	CourseID    int64
	QuizID      int64
	Title       string
	Description string // HTML
	TimeLimit   *int64 // minutes
	DueAt       string
	Published   *bool
}

// UpdateQuiz updates a quiz
func (c *Client) UpdateQuiz(ctx context.Context, p UpdateQuizParams) (any, error) {
	quiz := map[string]any{}
	if p.Title != "" {
		quiz["title"] = p.Title
	}
	if p.Description != "" {
		quiz["description"] = p.Description
	}
	if p.TimeLimit != nil {
		quiz["time_limit"] = *p.TimeLimit
	}
	if p.DueAt != "" {
		quiz["due_at"] = p.DueAt
	}
	if p.Published != nil {
		quiz["published"] = *p.Published
	}

	body := map[string]any{"quiz": quiz}
	return c.request(ctx, http.MethodPut, fmt.Sprintf("courses/%d/quizzes/%d", p.CourseID, p.QuizID), nil, body)
}

// DeleteQuiz deletes a quiz
func (c *Client) DeleteQuiz(ctx context.Context, courseID, quizID int64) (any, error) {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/quizzes/%d", courseID, quizID), nil, nil)
}
