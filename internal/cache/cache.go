// Package cache keeps the Jira projects and statuses the adapter needs on
// every call, keyed by interchange project ID.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	jira "github.com/andygrunwald/go-jira"
	"golang.org/x/sync/singleflight"

	"github.com/danielolaszy/specif-jira/internal/guid"
	"github.com/danielolaszy/specif-jira/internal/logging"
)

// ErrProjectNotFound is returned when a project ID is unknown even after a refresh.
var ErrProjectNotFound = errors.New("project not found")

// Source is the part of the Jira client the cache reads from.
type Source interface {
	SearchProjects(ctx context.Context) ([]jira.Project, error)
	GetProject(ctx context.Context, key string) (*jira.Project, error)
	ListStatuses(ctx context.Context) ([]jira.Status, error)
}

// ProjectCache holds full project details and the status list. Contents are
// replaced as a whole on a successful refresh and kept on a failed one.
type ProjectCache struct {
	source Source

	mu       sync.RWMutex
	projects map[string]*jira.Project
	order    []string
	statuses []jira.Status
	loaded   bool

	group singleflight.Group
}

// New returns an empty cache reading from source.
func New(source Source) *ProjectCache {
	return &ProjectCache{
		source:   source,
		projects: make(map[string]*jira.Project),
	}
}

// Ensure populates the cache unless a population has already succeeded.
// Concurrent callers share one population.
func (c *ProjectCache) Ensure(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh reloads every project and the status list. Projects are fetched
// one at a time after the search.
func (c *ProjectCache) Refresh(ctx context.Context) error {
	_, err, shared := c.group.Do("refresh", func() (interface{}, error) {
		return nil, c.refresh(ctx)
	})
	if shared {
		logging.Debug("joined in-flight cache refresh")
	}
	return err
}

func (c *ProjectCache) refresh(ctx context.Context) error {
	logging.Debug("refreshing project cache")

	summaries, err := c.source.SearchProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to search projects: %w", err)
	}

	projects := make(map[string]*jira.Project, len(summaries))
	order := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		project, err := c.source.GetProject(ctx, summary.Key)
		if err != nil {
			return fmt.Errorf("failed to get project %s: %w", summary.Key, err)
		}
		id := guid.ToInterchangeID(project.Self, project.ID)
		if _, dup := projects[id]; !dup {
			order = append(order, id)
		}
		projects[id] = project
	}

	statuses, err := c.source.ListStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list statuses: %w", err)
	}

	c.mu.Lock()
	c.projects = projects
	c.order = order
	c.statuses = statuses
	c.loaded = true
	c.mu.Unlock()

	logging.Info("project cache refreshed", "projects", len(projects), "statuses", len(statuses))
	return nil
}

// Project returns the project with the given interchange ID. A miss triggers
// one refresh before giving up with ErrProjectNotFound.
func (c *ProjectCache) Project(ctx context.Context, id string) (*jira.Project, error) {
	if project, ok := c.lookup(id); ok {
		return project, nil
	}

	logging.Debug("project cache miss", "project_id", id)
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	if project, ok := c.lookup(id); ok {
		return project, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
}

func (c *ProjectCache) lookup(id string) (*jira.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	project, ok := c.projects[id]
	return project, ok
}

// Projects returns the cached projects in search order.
func (c *ProjectCache) Projects() []*jira.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()

	projects := make([]*jira.Project, 0, len(c.order))
	for _, id := range c.order {
		projects = append(projects, c.projects[id])
	}
	return projects
}

// Statuses returns the cached status list.
func (c *ProjectCache) Statuses() []jira.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]jira.Status(nil), c.statuses...)
}
