package canvastools

import (
	"context"

	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
)

func pageDefinitions(client *canvas.Client) []catalog.Definition {
	return []catalog.Definition{
		{
			Name:        "list_pages",
			Description: "List all pages in a course. Use this when user asks about pages.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "search_term", Kind: catalog.KindString, Description: "Search pages by title"},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Filter by published status", Aliases: []string{"is_published"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				searchTerm, _ := argString(args, "search_term")
				return client.ListPages(ctx, canvas.ListPagesParams{
					CourseID:   courseID,
					SearchTerm: searchTerm,
					Published:  optBool(args, "published"),
				})
			},
		},
		{
			Name:        "get_page",
			Description: "Get details about a specific page including its content. Use this when user asks about a specific page.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "page_url", Kind: catalog.KindString, Description: "The page URL (slug)", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				pageURL, _ := argString(args, "page_url")
				return client.GetPage(ctx, courseID, pageURL)
			},
		},
		{
			Name:        "create_page",
			Description: "Create a new page in a course. Use this when user wants to add or create a page.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "title", Kind: catalog.KindString, Description: "The page title", Required: true, Aliases: []string{"subject"}},
				{Name: "body", Kind: catalog.KindString, Description: "The page content (HTML allowed)", Required: true, Aliases: []string{"content"}},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Whether the page should be published immediately", Default: false, Aliases: []string{"is_published"}},
				{Name: "front_page", Kind: catalog.KindBoolean, Description: "Set as course front page"},
				{Name: "editing_roles", Kind: catalog.KindEnum, Description: "Who can edit the page", Enum: []string{"teachers", "students", "members", "public"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				title, _ := argString(args, "title")
				body, _ := argString(args, "body")
				published, _ := argBool(args, "published")
				frontPage, _ := argBool(args, "front_page")
				editingRoles, _ := argString(args, "editing_roles")
				return client.CreatePage(ctx, canvas.CreatePageParams{
					CourseID:     courseID,
					Title:        title,
					Body:         body,
					Published:    published,
					FrontPage:    frontPage,
					EditingRoles: editingRoles,
				})
			},
		},
		{
			Name:        "update_page",
			Description: "Update page content or settings. Use this when user wants to modify or change a page.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "page_url", Kind: catalog.KindString, Description: "The page URL (slug)", Required: true},
				{Name: "title", Kind: catalog.KindString, Description: "New page title", Aliases: []string{"subject"}},
				{Name: "body", Kind: catalog.KindString, Description: "New page content (HTML allowed)", Aliases: []string{"content"}},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Whether the page should be published", Aliases: []string{"is_published"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				pageURL, _ := argString(args, "page_url")
				title, _ := argString(args, "title")
				body, _ := argString(args, "body")
				return client.UpdatePage(ctx, canvas.UpdatePageParams{
					CourseID:  courseID,
					URLOrID:   pageURL,
					Title:     title,
					Body:      body,
					Published: optBool(args, "published"),
				})
			},
		},
		{
			Name:        "delete_page",
			Description: "Delete a page. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete a page.",
			Destructive: true,
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "page_url", Kind: catalog.KindString, Description: "The page URL (slug) to delete", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				pageURL, _ := argString(args, "page_url")
				return client.DeletePage(ctx, courseID, pageURL)
			},
		},
	}
}
