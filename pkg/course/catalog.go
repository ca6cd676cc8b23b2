package course

import (
	"context"
	"fmt"
	"strings"
)

// CatalogOptions locate the task catalog.
type CatalogOptions struct {
	// CatalogURL, when set, is navigated to directly
	CatalogURL string

	// HomeURL, when set and CatalogURL is empty, is loaded before clicking
	// through the personal center to the task tab
	HomeURL string
}

// Catalog lists the operator's tasks.
type Catalog struct {
	session   *Session
	selectors SelectorTable
	cfg       CatalogOptions
	opts      options
}

// NewCatalog creates a catalog bound to session.
func NewCatalog(session *Session, selectors SelectorTable, cfg CatalogOptions, opts ...Option) *Catalog {
	return &Catalog{
		session:   session,
		selectors: selectors,
		cfg:       cfg,
		opts:      buildOptions(opts),
	}
}

// Open brings the task list on screen.
func (c *Catalog) Open(ctx context.Context) error {
	backend := c.session.Backend
	if c.cfg.CatalogURL != "" {
		if err := backend.Navigate(ctx, c.cfg.CatalogURL); err != nil {
			return fmt.Errorf("open task catalog: %w", err)
		}
		c.settle()
		return nil
	}

	if c.cfg.HomeURL != "" {
		if err := backend.Navigate(ctx, c.cfg.HomeURL); err != nil {
			return fmt.Errorf("open home page: %w", err)
		}
		c.settle()
	}
	if err := clickRole(ctx, c.session, c.opts.clock, c.selectors.Get(RolePersonalCenter)); err != nil {
		return fmt.Errorf("open personal center: %w", err)
	}
	c.opts.log.Infof("Opened personal center")
	if err := clickRole(ctx, c.session, c.opts.clock, c.selectors.Get(RoleMyTasksTab)); err != nil {
		return fmt.Errorf("open task tab: %w", err)
	}
	c.opts.log.Infof("Opened task list")
	return nil
}

func (c *Catalog) settle() {
	if d := c.session.Pacing.NavigationSettle; d > 0 {
		c.opts.clock.Sleep(d)
	}
}

// List returns the tasks currently on screen, in display order. Cards whose
// name cannot be read are skipped; a repeated name keeps its first card.
func (c *Catalog) List(ctx context.Context) ([]Task, error) {
	backend := c.session.Backend
	cards, err := backend.FindAll(ctx, nil, c.selectors.Get(RoleTaskCard))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	seen := make(map[string]bool, len(cards))
	tasks := make([]Task, 0, len(cards))
	for i, card := range cards {
		name, err := readOptionalText(ctx, backend, card, c.selectors.Get(RoleTaskName))
		name = strings.TrimSpace(name)
		if err != nil || name == "" {
			c.opts.log.Warnf("Task card #%d has no readable name, ignoring it", i+1)
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		tasks = append(tasks, Task{Name: name, Handle: card})
	}

	if len(tasks) == 0 {
		c.opts.log.Infof("No tasks listed")
	}
	return tasks, nil
}

// Resolve re-opens the catalog and returns a fresh handle for the task
// called name.
func (c *Catalog) Resolve(ctx context.Context, name string) (Task, bool, error) {
	if err := c.Open(ctx); err != nil {
		return Task{}, false, err
	}
	tasks, err := c.List(ctx)
	if err != nil {
		return Task{}, false, err
	}
	for _, task := range tasks {
		if task.Name == name {
			return task, true, nil
		}
	}
	return Task{}, false, nil
}

// Names returns the task names in order.
func Names(tasks []Task) []string {
	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Name
	}
	return names
}

// SelectTasks resolves requested names against available by exact match,
// keeping the operator's order. Unknown names are returned in unresolved and
// logged as warnings; they never fail the selection.
func SelectTasks(available []Task, requested []string, log Logger) (selected []Task, unresolved []string) {
	if log == nil {
		log = NopLogger()
	}
	byName := make(map[string]Task, len(available))
	for _, task := range available {
		if _, exists := byName[task.Name]; !exists {
			byName[task.Name] = task
		}
	}

	picked := make(map[string]bool, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" || picked[name] {
			continue
		}
		picked[name] = true
		task, ok := byName[name]
		if !ok {
			log.Warnf("Task %q not found, skipping it", name)
			unresolved = append(unresolved, name)
			continue
		}
		selected = append(selected, task)
	}
	return selected, unresolved
}
