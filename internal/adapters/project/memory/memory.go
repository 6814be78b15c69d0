// Package memory provides an in-memory project model for tests.
package memory

import (
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/zerr"
)

// Operation names accepted by Project.FailOn.
const (
	OpFindItem           = "FindItem"
	OpAddItemFromFile    = "AddItemFromFile"
	OpDeleteItem         = "DeleteItem"
	OpSetItemBuildAction = "SetItemBuildAction"
	OpFindItemInSolution = "FindItemInSolution"
)

// Counts tallies the mutations applied to a Project.
type Counts struct {
	Added   int
	Deleted int
	Updated int
}

// Total returns the number of mutations.
func (c Counts) Total() int {
	return c.Added + c.Deleted + c.Updated
}

// Solution is a set of in-memory projects.
type Solution struct {
	mu       sync.Mutex
	projects []*Project
}

// NewSolution creates an empty solution.
func NewSolution() *Solution {
	return &Solution{}
}

// NewProject adds an empty project named name rooted at root.
func (s *Solution) NewProject(name, root string) *Project {
	p := &Project{
		name:     name,
		root:     filepath.Clean(root),
		solution: s,
		failures: make(map[string]error),
	}
	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.mu.Unlock()
	return p
}

var _ ports.ProjectModel = (*Project)(nil)

// Project is an in-memory ports.ProjectModel.
type Project struct {
	mu       sync.Mutex
	name     string
	root     string
	items    []domain.ProjectItem
	counts   Counts
	failures map[string]error
	solution *Solution
}

// Seed registers path with action without counting it as a mutation.
func (p *Project) Seed(path string, action domain.BuildAction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, domain.ProjectItem{
		Path:        filepath.Clean(path),
		BuildAction: action,
		Project:     p.name,
	})
}

// FailOn makes every later call of op return err. A nil err clears the failure.
func (p *Project) FailOn(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.failures, op)
		return
	}
	p.failures[op] = err
}

// Counts returns the mutations applied so far.
func (p *Project) Counts() Counts {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts
}

// Name returns the project name.
func (p *Project) Name() string {
	return p.name
}

// Root returns the project root.
func (p *Project) Root() string {
	return p.root
}

// Items returns a copy of the project items.
func (p *Project) Items() ([]domain.ProjectItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items), nil
}

// FindItem returns the item at path, or nil.
func (p *Project) FindItem(path string) (*domain.ProjectItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failures[OpFindItem]; err != nil {
		return nil, err
	}
	return p.findLocked(path), nil
}

// AddItemFromFile registers path with build action None.
func (p *Project) AddItemFromFile(path string) (*domain.ProjectItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failures[OpAddItemFromFile]; err != nil {
		return nil, err
	}
	if item := p.findLocked(path); item != nil {
		return item, nil
	}
	item := domain.ProjectItem{Path: filepath.Clean(path), BuildAction: domain.BuildActionNone, Project: p.name}
	p.items = append(p.items, item)
	p.counts.Added++
	return &item, nil
}

// DeleteItem removes item.
func (p *Project) DeleteItem(item *domain.ProjectItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failures[OpDeleteItem]; err != nil {
		return err
	}
	i := p.indexLocked(item.Path)
	if i < 0 {
		return zerr.With(domain.ErrItemNotFound, "path", item.Path)
	}
	p.items = slices.Delete(p.items, i, i+1)
	p.counts.Deleted++
	return nil
}

// SetItemBuildAction records action on item.
func (p *Project) SetItemBuildAction(item *domain.ProjectItem, action domain.BuildAction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failures[OpSetItemBuildAction]; err != nil {
		return err
	}
	i := p.indexLocked(item.Path)
	if i < 0 {
		return zerr.With(domain.ErrItemNotFound, "path", item.Path)
	}
	p.items[i].BuildAction = action
	item.BuildAction = action
	p.counts.Updated++
	return nil
}

// FindItemInSolution searches this project, then every other project of the solution.
func (p *Project) FindItemInSolution(path string) (*domain.ProjectItem, error) {
	p.mu.Lock()
	if err := p.failures[OpFindItemInSolution]; err != nil {
		p.mu.Unlock()
		return nil, err
	}
	item := p.findLocked(path)
	p.mu.Unlock()
	if item != nil || p.solution == nil {
		return item, nil
	}

	p.solution.mu.Lock()
	others := slices.Clone(p.solution.projects)
	p.solution.mu.Unlock()

	for _, other := range others {
		if other == p {
			continue
		}
		other.mu.Lock()
		found := other.findLocked(path)
		other.mu.Unlock()
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}

func (p *Project) indexLocked(path string) int {
	path = filepath.Clean(path)
	return slices.IndexFunc(p.items, func(item domain.ProjectItem) bool {
		return item.Path == path
	})
}

func (p *Project) findLocked(path string) *domain.ProjectItem {
	i := p.indexLocked(path)
	if i < 0 {
		return nil
	}
	item := p.items[i]
	return &item
}
