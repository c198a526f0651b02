package caplena

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	body, err := c.sendRequest(ctx, http.MethodGet, "/projects", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	page, err := decodeList[Project](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	return page.Items, nil
}

// CreateProject creates a project with the conversation export schema.
func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	req := CreateProjectRequest{
		Name:     name,
		Language: "en",
		Columns:  ProjectSchema,
	}

	body, err := c.sendRequest(ctx, http.MethodPost, "/projects", nil, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	var project Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}

	log.Info().
		Str("project_id", project.ID).
		Str("name", name).
		Int("columns", len(req.Columns)).
		Msg("Created project")

	return &project, nil
}

// EnsureProject returns the project with the given name, creating it when it
// does not exist yet.
func (c *Client) EnsureProject(ctx context.Context, name string) (*Project, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		if p.Name == name {
			return &p, nil
		}
	}

	return c.CreateProject(ctx, name)
}
