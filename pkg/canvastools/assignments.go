package canvastools

import (
	"context"

	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
)

func assignmentDefinitions(client *canvas.Client) []catalog.Definition {
	return []catalog.Definition{
		{
			Name:        "list_assignments",
			Description: "List all assignments in a course. Use this when user asks about assignments.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "search_term", Kind: catalog.KindString, Description: "Search assignments by name"},
				{Name: "bucket", Kind: catalog.KindEnum, Description: "Filter assignments by bucket", Enum: []string{"past", "overdue", "undated", "ungraded", "upcoming", "future"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				searchTerm, _ := argString(args, "search_term")
				bucket, _ := argString(args, "bucket")
				return client.ListAssignments(ctx, canvas.ListAssignmentsParams{
					CourseID:   courseID,
					SearchTerm: searchTerm,
					Bucket:     bucket,
				})
			},
		},
		{
			Name:        "get_assignment",
			Description: "Get details about a specific assignment. Use this when user asks about a specific assignment.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "assignment_id", Kind: catalog.KindInteger, Description: "The assignment ID", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				assignmentID, _ := argInt64(args, "assignment_id")
				return client.GetAssignment(ctx, courseID, assignmentID, nil)
			},
		},
		{
			Name:        "create_assignment",
			Description: "Create a new assignment. Use this when user wants to create, add, or make a new assignment.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "name", Kind: catalog.KindString, Description: "The assignment name", Required: true, Aliases: []string{"title", "subject"}},
				{Name: "description", Kind: catalog.KindString, Description: "The assignment description (HTML allowed)", Aliases: []string{"body", "content"}},
				{Name: "points_possible", Kind: catalog.KindNumber, Description: "Maximum points for the assignment"},
				{Name: "due_at", Kind: catalog.KindString, Description: "Due date in ISO 8601 format (e.g., '2024-03-15T23:59:00Z')"},
				{Name: "submission_types", Kind: catalog.KindArray, Description: "Allowed submission types: online_text_entry, online_url, online_upload, media_recording, on_paper, external_tool, none"},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Whether to publish immediately", Default: false, Aliases: []string{"is_published"}},
				{Name: "grading_type", Kind: catalog.KindEnum, Description: "How the assignment is graded", Default: "points", Enum: []string{"points", "pass_fail", "percent", "letter_grade", "gpa_scale", "not_graded"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				name, _ := argString(args, "name")
				description, _ := argString(args, "description")
				dueAt, _ := argString(args, "due_at")
				published, _ := argBool(args, "published")
				gradingType, _ := argString(args, "grading_type")
				return client.CreateAssignment(ctx, canvas.CreateAssignmentParams{
					CourseID:        courseID,
					Name:            name,
					Description:     description,
					DueAt:           dueAt,
					PointsPossible:  optFloat(args, "points_possible"),
					SubmissionTypes: argStrings(args, "submission_types"),
					Published:       published,
					GradingType:     gradingType,
				})
			},
		},
		{
			Name:        "update_assignment",
			Description: "Update an existing assignment. Use this when user wants to modify, edit, or change an assignment.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "assignment_id", Kind: catalog.KindInteger, Description: "The assignment ID", Required: true},
				{Name: "name", Kind: catalog.KindString, Description: "New assignment name", Aliases: []string{"title"}},
				{Name: "description", Kind: catalog.KindString, Description: "New assignment description (HTML allowed)", Aliases: []string{"body", "content"}},
				{Name: "points_possible", Kind: catalog.KindNumber, Description: "New maximum points"},
				{Name: "due_at", Kind: catalog.KindString, Description: "New due date in ISO 8601 format"},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Whether the assignment should be published", Aliases: []string{"is_published"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				assignmentID, _ := argInt64(args, "assignment_id")
				name, _ := argString(args, "name")
				description, _ := argString(args, "description")
				dueAt, _ := argString(args, "due_at")
				return client.UpdateAssignment(ctx, canvas.UpdateAssignmentParams{
					CourseID:       courseID,
					AssignmentID:   assignmentID,
					Name:           name,
					Description:    description,
					DueAt:          dueAt,
					PointsPossible: optFloat(args, "points_possible"),
					Published:      optBool(args, "published"),
				})
			},
		},
		{
			Name:        "delete_assignment",
			Description: "Delete an assignment. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete or remove an assignment.",
			Destructive: true,
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "assignment_id", Kind: catalog.KindInteger, Description: "The assignment ID to delete", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				assignmentID, _ := argInt64(args, "assignment_id")
				return client.DeleteAssignment(ctx, courseID, assignmentID)
			},
		},
	}
}
