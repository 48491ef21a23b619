package canvastools

import (
	"context"

	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
)

func discussionDefinitions(client *canvas.Client) []catalog.Definition {
	return []catalog.Definition{
		{
			Name:        "list_discussions",
			Description: "List all discussion topics in a course. Use this when user asks about discussions.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "search_term", Kind: catalog.KindString, Description: "Search discussions by title"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				searchTerm, _ := argString(args, "search_term")
				return client.ListDiscussions(ctx, canvas.ListDiscussionsParams{
					CourseID:   courseID,
					SearchTerm: searchTerm,
				})
			},
		},
		{
			Name:        "get_discussion",
			Description: "Get details about a specific discussion. Use this when user asks about a specific discussion.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "topic_id", Kind: catalog.KindInteger, Description: "The discussion topic ID", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				topicID, _ := argInt64(args, "topic_id")
				return client.GetDiscussion(ctx, courseID, topicID)
			},
		},
		{
			Name:        "create_discussion",
			Description: "Create a new discussion topic. Use this when user wants to start a discussion.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "title", Kind: catalog.KindString, Description: "The discussion title", Required: true, Aliases: []string{"subject"}},
				{Name: "message", Kind: catalog.KindString, Description: "The discussion message (HTML allowed)", Required: true, Aliases: []string{"body", "content"}},
				{Name: "discussion_type", Kind: catalog.KindEnum, Description: "Type of discussion threading", Enum: []string{"side_comment", "threaded"}},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Publish immediately", Aliases: []string{"is_published"}},
				{Name: "pinned", Kind: catalog.KindBoolean, Description: "Pin at the top of the discussions list"},
				{Name: "require_initial_post", Kind: catalog.KindBoolean, Description: "Require a post before viewing replies"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				title, _ := argString(args, "title")
				message, _ := argString(args, "message")
				discussionType, _ := argString(args, "discussion_type")
				published, _ := argBool(args, "published")
				pinned, _ := argBool(args, "pinned")
				requireInitialPost, _ := argBool(args, "require_initial_post")
				return client.CreateDiscussion(ctx, canvas.CreateDiscussionParams{
					CourseID:           courseID,
					Title:              title,
					Message:            message,
					DiscussionType:     discussionType,
					Published:          published,
					Pinned:             pinned,
					RequireInitialPost: requireInitialPost,
				})
			},
		},
		{
			Name:        "create_announcement",
			Description: "Create an announcement. Use this when user wants to post an announcement.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "title", Kind: catalog.KindString, Description: "The announcement title", Required: true, Aliases: []string{"subject"}},
				{Name: "message", Kind: catalog.KindString, Description: "The announcement message (HTML allowed)", Required: true, Aliases: []string{"body", "content"}},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Publish immediately", Default: true, Aliases: []string{"is_published"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				title, _ := argString(args, "title")
				message, _ := argString(args, "message")
				published, _ := argBool(args, "published")
				return client.CreateAnnouncement(ctx, courseID, title, message, published)
			},
		},
		{
			Name:        "update_discussion",
			Description: "Update an existing discussion. Use this when user wants to modify a discussion.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "topic_id", Kind: catalog.KindInteger, Description: "The discussion topic ID", Required: true},
				{Name: "title", Kind: catalog.KindString, Description: "New discussion title", Aliases: []string{"subject"}},
				{Name: "message", Kind: catalog.KindString, Description: "New message (HTML allowed)", Aliases: []string{"body", "content"}},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Published status", Aliases: []string{"is_published"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				topicID, _ := argInt64(args, "topic_id")
				title, _ := argString(args, "title")
				message, _ := argString(args, "message")
				return client.UpdateDiscussion(ctx, canvas.UpdateDiscussionParams{
					CourseID:  courseID,
					TopicID:   topicID,
					Title:     title,
					Message:   message,
					Published: optBool(args, "published"),
				})
			},
		},
		{
			Name:        "delete_discussion",
			Description: "Delete a discussion. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete a discussion.",
			Destructive: true,
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "topic_id", Kind: catalog.KindInteger, Description: "The discussion topic ID to delete", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				topicID, _ := argInt64(args, "topic_id")
				return client.DeleteDiscussion(ctx, courseID, topicID)
			},
		},
		{
			Name:        "post_discussion_entry",
			Description: "Post a reply to a discussion. Use this when user wants to post or reply to a discussion.",
			Parameters: []catalog.Parameter{
				courseIDParam(),
				{Name: "topic_id", Kind: catalog.KindInteger, Description: "The discussion topic ID", Required: true},
				{Name: "message", Kind: catalog.KindString, Description: "The reply message (HTML allowed)", Required: true, Aliases: []string{"body", "content"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				courseID, _ := argInt64(args, "course_id")
				topicID, _ := argInt64(args, "topic_id")
				message, _ := argString(args, "message")
				return client.PostDiscussionEntry(ctx, courseID, topicID, message)
			},
		},
	}
}
