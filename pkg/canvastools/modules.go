package canvastools

import (
	"context"
	"fmt"

	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
)

var moduleItemTypes = []string{"Page", "Assignment", "Quiz", "Discussion", "File", "SubHeader", "ExternalUrl", "ExternalTool"}

func moduleDefinitions(client *canvas.Client) []catalog.Definition {
	return []catalog.Definition{
		{
			Name:        "list_modules",
			Description: "List all modules in a course. Use this when user asks about modules in a course.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "include", Kind: catalog.KindArray, Description: "Extra data to include, e.g. 'items' for module items"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				return client.ListModules(ctx, canvas.ListModulesParams{
					CourseID: courseID,
					Include:  argStrings(args, "include"),
				})
			},
		},
		{
			Name:        "get_module",
			Description: "Get details about a specific module. Use this when user asks about a specific module.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "module_id", Kind: catalog.KindInteger, Description: "The module ID", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				moduleID, _ := argInt64(args, "module_id")
				return client.GetModule(ctx, courseID, moduleID, nil)
			},
		},
		{
			Name:        "create_module",
			Description: "Create a new module in a course. Use this when user wants to add or create a module.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "name", Kind: catalog.KindString, Description: "The module name", Required: true},
				{Name: "position", Kind: catalog.KindInteger, Description: "The position of the module in the course (1-based)"},
				{Name: "require_sequential_progress", Kind: catalog.KindBoolean, Description: "Whether students must complete items in order"},
				{Name: "unlock_at", Kind: catalog.KindString, Description: "Date when module unlocks (ISO 8601 format)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				name, _ := argString(args, "name")
				sequential, _ := argBool(args, "require_sequential_progress")
				unlockAt, _ := argString(args, "unlock_at")
				return client.CreateModule(ctx, canvas.CreateModuleParams{
					CourseID:                  courseID,
					Name:                      name,
					Position:                  optInt64(args, "position"),
					RequireSequentialProgress: sequential,
					UnlockAt:                  unlockAt,
				})
			},
		},
		{
			Name:        "update_module",
			Description: "Update module information. Use this when user wants to modify or change a module.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "module_id", Kind: catalog.KindInteger, Description: "The module ID", Required: true},
				{Name: "name", Kind: catalog.KindString, Description: "New module name"},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Whether the module should be published", Aliases: []string{"is_published"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				moduleID, _ := argInt64(args, "module_id")
				name, _ := argString(args, "name")
				return client.UpdateModule(ctx, canvas.UpdateModuleParams{
					CourseID:  courseID,
					ModuleID:  moduleID,
					Name:      name,
					Published: optBool(args, "published"),
				})
			},
		},
		{
			Name:        "delete_module",
			Description: "Delete a module. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete a module.",
			Destructive: true,
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "module_id", Kind: catalog.KindInteger, Description: "The module ID to delete", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				moduleID, _ := argInt64(args, "module_id")
				return client.DeleteModule(ctx, courseID, moduleID)
			},
		},
		{
			Name:        "create_module_item",
			Description: "Add an item to a module (page, assignment, quiz, discussion, file, etc.). Use this when user wants to add content to a module.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "module_id", Kind: catalog.KindInteger, Description: "The module ID", Required: true},
				{Name: "title", Kind: catalog.KindString, Description: "The item title", Required: true, Aliases: []string{"subject"}},
				{Name: "type", Kind: catalog.KindEnum, Description: "The type of item", Required: true, Enum: moduleItemTypes},
				{Name: "content_id", Kind: catalog.KindInteger, Description: "The ID of the content object (assignment ID, page ID, etc.)"},
				{Name: "page_url", Kind: catalog.KindString, Description: "The URL of the page (for Page type items)"},
				{Name: "external_url", Kind: catalog.KindString, Description: "The external URL (for ExternalUrl type items)"},
				{Name: "position", Kind: catalog.KindInteger, Description: "The position in the module"},
				{Name: "indent", Kind: catalog.KindInteger, Description: "Indentation level (0-3)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				moduleID, _ := argInt64(args, "module_id")
				title, _ := argString(args, "title")
				itemType, _ := argString(args, "type")
				pageURL, _ := argString(args, "page_url")
				externalURL, _ := argString(args, "external_url")
				indent, _ := argInt64(args, "indent")
				return client.CreateModuleItem(ctx, canvas.CreateModuleItemParams{
					CourseID:    courseID,
					ModuleID:    moduleID,
					Title:       title,
					ItemType:    itemType,
					ContentID:   optInt64(args, "content_id"),
					Position:    optInt64(args, "position"),
					Indent:      indent,
					PageURL:     pageURL,
					ExternalURL: externalURL,
				})
			},
		},
		{
			Name:        "create_module_with_items",
			Description: "Create a module and populate it with a list of items in order (subheaders, pages, assignments, quizzes, discussions, external links). Use this when the user provides a whole module outline in one request.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "name", Kind: catalog.KindString, Description: "The module name", Required: true},
				{Name: "position", Kind: catalog.KindInteger, Description: "Position of the module in the course (1-based)"},
				{Name: "unlock_at", Kind: catalog.KindString, Description: "Date when module unlocks (ISO 8601 format)"},
				{Name: "require_sequential_progress", Kind: catalog.KindBoolean, Description: "Whether students must complete items in order"},
				{Name: "items", Kind: catalog.KindArray, Items: catalog.KindObject, Description: "Ordered list of items to add; each needs 'type' and 'title', plus content fields like 'body', 'message', 'description', 'due_at', 'points_possible', or 'external_url'", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return createModuleWithItems(ctx, client, args)
			},
		},
	}
}

// createModuleWithItems creates the module, then creates each content
// resource and links it in order, stopping at the first failure. The error
// names the failing item so the user can see how far the outline got.
func createModuleWithItems(ctx context.Context, client *canvas.Client, args map[string]any) (any, error) {
	courseID, _ := argInt64(args, "course_id")
	name, _ := argString(args, "name")
	sequential, _ := argBool(args, "require_sequential_progress")
	unlockAt, _ := argString(args, "unlock_at")

	module, err := client.CreateModule(ctx, canvas.CreateModuleParams{
		CourseID:                  courseID,
		Name:                      name,
		Position:                  optInt64(args, "position"),
		RequireSequentialProgress: sequential,
		UnlockAt:                  unlockAt,
	})
	if err != nil {
		return nil, err
	}

	moduleID, ok := resourceID(module)
	if !ok {
		return nil, fmt.Errorf("module created but response carried no id")
	}

	rawItems, _ := args["items"].([]any)
	created := make([]any, 0, len(rawItems))

	for i, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d is not an object", i+1)
		}
		linked, err := createAndLinkItem(ctx, client, courseID, moduleID, item)
		if err != nil {
			return nil, fmt.Errorf("item %d (%v): %w", i+1, item["title"], err)
		}
		created = append(created, linked)
	}

	return map[string]any{
		"module": module,
		"items":  created,
	}, nil
}

func createAndLinkItem(ctx context.Context, client *canvas.Client, courseID, moduleID int64, item map[string]any) (any, error) {
	itemType, _ := argString(item, "type")
	title, _ := argString(item, "title")
	published, _ := argBool(item, "published")

	link := canvas.CreateModuleItemParams{
		CourseID: courseID,
		ModuleID: moduleID,
		Title:    title,
		ItemType: itemType,
		Position: optInt64(item, "position"),
	}

	switch itemType {
	case "SubHeader":
		// No backing resource

	case "ExternalUrl":
		externalURL, ok := argString(item, "external_url")
		if !ok {
			return nil, fmt.Errorf("ExternalUrl item needs external_url")
		}
		link.ExternalURL = externalURL

	case "Page":
		body, _ := argString(item, "body")
		page, err := client.CreatePage(ctx, canvas.CreatePageParams{
			CourseID:  courseID,
			Title:     title,
			Body:      body,
			Published: published,
		})
		if err != nil {
			return nil, err
		}
		pageURL, ok := resourceString(page, "url")
		if !ok {
			return nil, fmt.Errorf("page created but response carried no url")
		}
		link.PageURL = pageURL

	case "Assignment":
		description, _ := argString(item, "description")
		dueAt, _ := argString(item, "due_at")
		assignment, err := client.CreateAssignment(ctx, canvas.CreateAssignmentParams{
			CourseID:        courseID,
			Name:            title,
			Description:     description,
			DueAt:           dueAt,
			PointsPossible:  optFloat(item, "points_possible"),
			SubmissionTypes: argStrings(item, "submission_types"),
			Published:       published,
		})
		if err != nil {
			return nil, err
		}
		id, ok := resourceID(assignment)
		if !ok {
			return nil, fmt.Errorf("assignment created but response carried no id")
		}
		link.ContentID = &id

	case "Quiz":
		description, _ := argString(item, "description")
		dueAt, _ := argString(item, "due_at")
		quiz, err := client.CreateQuiz(ctx, canvas.CreateQuizParams{
			CourseID:    courseID,
			Title:       title,
			Description: description,
			DueAt:       dueAt,
			Published:   published,
		})
		if err != nil {
			return nil, err
		}
		id, ok := resourceID(quiz)
		if !ok {
			return nil, fmt.Errorf("quiz created but response carried no id")
		}
		link.ContentID = &id

	case "Discussion":
		message, _ := argString(item, "message")
		if message == "" {
			message, _ = argString(item, "body")
		}
		discussionType, _ := argString(item, "discussion_type")
		discussion, err := client.CreateDiscussion(ctx, canvas.CreateDiscussionParams{
			CourseID:       courseID,
			Title:          title,
			Message:        message,
			DiscussionType: discussionType,
			Published:      published,
		})
		if err != nil {
			return nil, err
		}
		id, ok := resourceID(discussion)
		if !ok {
			return nil, fmt.Errorf("discussion created but response carried no id")
		}
		link.ContentID = &id

	default:
		return nil, fmt.Errorf("unsupported item type %q", itemType)
	}

	return client.CreateModuleItem(ctx, link)
}

// resourceID pulls the numeric id out of a decoded API response.
func resourceID(resource any) (int64, bool) {
	m, ok := resource.(map[string]any)
	if !ok {
		return 0, false
	}
	id, ok := m["id"].(float64)
	if !ok {
		return 0, false
	}
	return int64(id), true
}

func resourceString(resource any, key string) (string, bool) {
	m, ok := resource.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok
}
