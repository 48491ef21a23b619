package canvastools

import (
	"context"

	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
)

func courseDefinitions(client *canvas.Client, opts Options) []catalog.Definition {
	return []catalog.Definition{
		{
			Name:        "list_courses",
			Description: "List all courses for the current user. Use this when user asks about their courses, what courses they have, or wants to see their course list.",
			Parameters: []catalog.Parameter{
				{Name: "enrollment_type", Kind: catalog.KindEnum, Description: "Filter by enrollment type", Enum: []string{"teacher", "student", "ta", "observer", "designer"}},
				{Name: "enrollment_state", Kind: catalog.KindEnum, Description: "Filter by enrollment state", Enum: []string{"active", "invited_or_pending", "completed"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				enrollmentType, _ := argString(args, "enrollment_type")
				enrollmentState, _ := argString(args, "enrollment_state")
				return client.ListCourses(ctx, canvas.ListCoursesParams{
					EnrollmentType:  enrollmentType,
					EnrollmentState: enrollmentState,
				})
			},
		},
		{
			Name:        "get_course",
			Description: "Get details about a specific course. Use this when user asks about a specific course's information.",
			Parameters:  []catalog.Parameter{courseIDParam()},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				return client.GetCourse(ctx, courseID, nil)
			},
		},
		{
			Name:        "create_course",
			Description: "Create a new course. Use this when user wants to create or add a new course.",
			Parameters: []catalog.Parameter{
				{Name: "account_id", Kind: catalog.KindInteger, Description: "The account ID to create the course in; omit to use the configured default account"},
				{Name: "name", Kind: catalog.KindString, Description: "The course name", Required: true},
				{Name: "course_code", Kind: catalog.KindString, Description: "The course code (e.g., 'CS101', 'MATH201')", Required: true},
				{Name: "start_at", Kind: catalog.KindString, Description: "Course start date in ISO 8601 format (e.g., '2024-01-15T00:00:00Z')"},
				{Name: "end_at", Kind: catalog.KindString, Description: "Course end date in ISO 8601 format"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				accountID, ok := argInt64(args, "account_id")
				if !ok {
					accountID = opts.DefaultAccountID
				}
				name, _ := argString(args, "name")
				courseCode, _ := argString(args, "course_code")
				startAt, _ := argString(args, "start_at")
				endAt, _ := argString(args, "end_at")
				return client.CreateCourse(ctx, canvas.CreateCourseParams{
					AccountID:  accountID,
					Name:       name,
					CourseCode: courseCode,
					StartAt:    startAt,
					EndAt:      endAt,
				})
			},
		},
		{
			Name:        "update_course",
			Description: "Update course information or publish/unpublish a course. Use this when user wants to change course details or publish/unpublish it.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "name", Kind: catalog.KindString, Description: "New course name"},
				{Name: "course_code", Kind: catalog.KindString, Description: "New course code"},
				{Name: "event", Kind: catalog.KindEnum, Description: "Course event: 'offer' to publish, 'claim' to unpublish, 'conclude' to end, 'delete' to delete, 'undelete' to restore", Enum: canvas.CourseEvents},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				name, _ := argString(args, "name")
				courseCode, _ := argString(args, "course_code")
				event, _ := argString(args, "event")
				return client.UpdateCourse(ctx, canvas.UpdateCourseParams{
					CourseID:   courseID,
					Name:       name,
					CourseCode: courseCode,
					Event:      event,
				})
			},
		},
		{
			Name:        "delete_course",
			Description: "Delete or conclude a course. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete or conclude a course.",
			Destructive: true,
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "event", Kind: catalog.KindEnum, Description: "'delete' to permanently delete, 'conclude' to end the course", Required: true, Enum: []string{"delete", "conclude"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				event, _ := argString(args, "event")
				return client.DeleteCourse(ctx, courseID, event)
			},
		},
	}
}
