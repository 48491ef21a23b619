package canvastools

import (
	"context"

	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
)

func quizDefinitions(client *canvas.Client) []catalog.Definition {
	return []catalog.Definition{
		{
			Name:        "list_quizzes",
			Description: "List all quizzes in a course. Use this when user asks about quizzes or tests.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "search_term", Kind: catalog.KindString, Description: "Search quizzes by title"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				searchTerm, _ := argString(args, "search_term")
				return client.ListQuizzes(ctx, courseID, searchTerm)
			},
		},
		{
			Name:        "get_quiz",
			Description: "Get details about a specific quiz. Use this when user asks about a specific quiz.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "quiz_id", Kind: catalog.KindInteger, Description: "The quiz ID", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				quizID, _ := argInt64(args, "quiz_id")
				return client.GetQuiz(ctx, courseID, quizID)
			},
		},
		{
			Name:        "create_quiz",
			Description: "Create a new quiz. Use this when user wants to create, add, or make a new quiz or test.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "title", Kind: catalog.KindString, Description: "The quiz title", Required: true, Aliases: []string{"name", "subject"}},
				{Name: "description", Kind: catalog.KindString, Description: "The quiz description (HTML allowed)", Aliases: []string{"body", "content"}},
				{Name: "quiz_type", Kind: catalog.KindEnum, Description: "The type of quiz", Default: "assignment", Enum: []string{"practice_quiz", "assignment", "graded_survey", "survey"}},
				{Name: "time_limit", Kind: catalog.KindInteger, Description: "Time limit in minutes"},
				{Name: "shuffle_answers", Kind: catalog.KindBoolean, Description: "Whether to shuffle answer order", Default: false},
				{Name: "allowed_attempts", Kind: catalog.KindInteger, Description: "Number of attempts allowed (-1 for unlimited)", Default: int64(1)},
				{Name: "scoring_policy", Kind: catalog.KindEnum, Description: "How to score multiple attempts", Default: "keep_highest", Enum: []string{"keep_highest", "keep_latest", "keep_average"}},
				{Name: "due_at", Kind: catalog.KindString, Description: "Due date in ISO 8601 format"},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Whether to publish immediately", Default: false, Aliases: []string{"is_published"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				title, _ := argString(args, "title")
				description, _ := argString(args, "description")
				quizType, _ := argString(args, "quiz_type")
				shuffle, _ := argBool(args, "shuffle_answers")
				allowedAttempts, _ := argInt64(args, "allowed_attempts")
				scoringPolicy, _ := argString(args, "scoring_policy")
				dueAt, _ := argString(args, "due_at")
				published, _ := argBool(args, "published")
				return client.CreateQuiz(ctx, canvas.CreateQuizParams{
					CourseID:        courseID,
					Title:           title,
					Description:     description,
					QuizType:        quizType,
					TimeLimit:       optInt64(args, "time_limit"),
					ShuffleAnswers:  shuffle,
					AllowedAttempts: allowedAttempts,
					ScoringPolicy:   scoringPolicy,
					DueAt:           dueAt,
					Published:       published,
				})
			},
		},
		{
			Name:        "update_quiz",
			Description: "Update an existing quiz. Use this when user wants to modify, edit, or change a quiz.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "quiz_id", Kind: catalog.KindInteger, Description: "The quiz ID", Required: true},
				{Name: "title", Kind: catalog.KindString, Description: "New quiz title", Aliases: []string{"name"}},
				{Name: "description", Kind: catalog.KindString, Description: "New quiz description (HTML allowed)", Aliases: []string{"body", "content"}},
				{Name: "time_limit", Kind: catalog.KindInteger, Description: "New time limit in minutes"},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Whether the quiz should be published", Aliases: []string{"is_published"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				quizID, _ := argInt64(args, "quiz_id")
				title, _ := argString(args, "title")
				description, _ := argString(args, "description")
				return client.UpdateQuiz(ctx, canvas.UpdateQuizParams{
					CourseID:    courseID,
					QuizID:      quizID,
					Title:       title,
					Description: description,
					TimeLimit:   optInt64(args, "time_limit"),
					Published:   optBool(args, "published"),
				})
			},
		},
		{
			Name:        "delete_quiz",
			Description: "Delete a quiz. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete or remove a quiz.",
			Destructive: true,
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "quiz_id", Kind: catalog.KindInteger, Description: "The quiz ID to delete", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				quizID, _ := argInt64(args, "quiz_id")
				return client.DeleteQuiz(ctx, courseID, quizID)
			},
		},
	}
}
