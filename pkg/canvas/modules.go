package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListModulesParams filters ListModules
type ListModulesParams struct {
	CourseID int64
	Include  []string
}

// ListModules lists all modules in a course
func (c *Client) ListModules(ctx context.Context, p ListModulesParams) (any, error) {
	query := url.Values{}
	for _, inc := range p.Include {
		query.Add("include[]", inc)
	}
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/modules", p.CourseID), query, nil)
}

// GetModule fetches a single module
func (c *Client) GetModule(ctx context.Context, courseID, moduleID int64, include []string) (any, error) {
	query := url.Values{}
	for _, inc := range include {
		query.Add("include[]", inc)
	}
	return c.request(ctx, http.MethodGet, fmt.Sprintf("courses/%d/modules/%d", courseID, moduleID), query, nil)
}

// CreateModuleParams describes a new module
type CreateModuleParams struct {
	CourseID                  int64
	Name                      string
	Position                  *int64
	UnlockAt                  string // ISO 8601
	RequireSequentialProgress bool
	PrerequisiteModuleIDs     []int64
	PublishFinalGrade         bool
}

// CreateModule creates a new module in a course
func (c *Client) CreateModule(ctx context.Context, p CreateModuleParams) (any, error) {
	module := map[string]any{
		"name":                        p.Name,
		"require_sequential_progress": p.RequireSequentialProgress,
		"publish_final_grade":         p.PublishFinalGrade,
	}
	if p.Position != nil {
		module["position"] = *p.Position
	}
	if p.UnlockAt != "" {
		module["unlock_at"] = p.UnlockAt
	}
	if len(p.PrerequisiteModuleIDs) > 0 {
		module["prerequisite_module_ids[]"] = p.PrerequisiteModuleIDs
	}

	body := map[string]any{"module": module}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("courses/%d/modules", p.CourseID), nil, body)
}

// UpdateModuleParams describes a module update
type UpdateModuleParams struct {
	CourseID  int64
	ModuleID  int64
	Name      string
	Published *bool
}

// UpdateModule updates a module
func (c *Client) UpdateModule(ctx context.Context, p UpdateModuleParams) (any, error) {
	module := map[string]any{}
	if p.Name != "" {
		module["name"] = p.Name
	}
	if p.Published != nil {
		module["published"] = *p.Published
	}

	body := map[string]any{"module": module}
	return c.request(ctx, http.MethodPut, fmt.Sprintf("courses/%d/modules/%d", p.CourseID, p.ModuleID), nil, body)
}

// DeleteModule deletes a module
func (c *Client) DeleteModule(ctx context.Context, courseID, moduleID int64) (any, error) {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/modules/%d", courseID, moduleID), nil, nil)
}

// CreateModuleItemParams describes a new module item
type CreateModuleItemParams struct {
	CourseID    int64
	ModuleID    int64
	Title       string
	ItemType    string // File, Page, Discussion, Assignment, Quiz, SubHeader, ExternalUrl, ExternalTool
	ContentID   *int64
	Position    *int64
	Indent      int64 // 0-3
	PageURL     string
	ExternalURL string
}

// CreateModuleItem adds an item to a module
func (c *Client) CreateModuleItem(ctx context.Context, p CreateModuleItemParams) (any, error) {
	item := map[string]any{
		"title":  p.Title,
		"type":   p.ItemType,
		"indent": p.Indent,
	}
	if p.ContentID != nil {
		item["content_id"] = *p.ContentID
	}
	if p.Position != nil {
		item["position"] = *p.Position
	}
	if p.PageURL != "" {
		item["page_url"] = p.PageURL
	}
	if p.ExternalURL != "" {
		item["external_url"] = p.ExternalURL
	}

	body := map[string]any{"module_item": item}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("courses/%d/modules/%d/items", p.CourseID, p.ModuleID), nil, body)
}
