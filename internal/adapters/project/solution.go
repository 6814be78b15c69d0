package project

import (
	"path/filepath"
	"sync"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/zerr"
)

// Solution groups the projects of one workspace so lookups can cross project boundaries.
type Solution struct {
	mu       sync.Mutex
	order    []string
	projects map[string]*Project
}

// NewSolution creates a solution holding one file-backed project per workspace project.
func NewSolution(ws *domain.Workspace) *Solution {
	s := &Solution{projects: make(map[string]*Project, len(ws.Projects))}
	for _, cfg := range ws.Projects {
		s.order = append(s.order, cfg.Name)
		s.projects[cfg.Name] = newProject(cfg.Name, cfg.Root, s)
	}
	return s
}

// Project returns the project named name, or nil.
func (s *Solution) Project(name string) *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects[name]
}

func (s *Solution) findItemExcept(path, except string) (*domain.ProjectItem, error) {
	s.mu.Lock()
	names := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if name != except {
			names = append(names, name)
		}
	}
	s.mu.Unlock()

	for _, name := range names {
		item, err := s.Project(name).FindItem(path)
		if err != nil {
			return nil, err
		}
		if item != nil {
			return item, nil
		}
	}
	return nil, nil
}

var _ ports.ProjectOpener = (*Opener)(nil)

// Opener hands out file-backed projects, sharing one Solution per workspace root.
type Opener struct {
	mu        sync.Mutex
	solutions map[string]*Solution
}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{solutions: make(map[string]*Solution)}
}

// Open returns the project model for cfg within ws.
func (o *Opener) Open(ws *domain.Workspace, cfg *domain.ProjectConfig) (ports.ProjectModel, error) {
	key := filepath.Clean(ws.Root)

	o.mu.Lock()
	sol, ok := o.solutions[key]
	if !ok {
		sol = NewSolution(ws)
		o.solutions[key] = sol
	}
	o.mu.Unlock()

	p := sol.Project(cfg.Name)
	if p == nil {
		return nil, zerr.With(domain.ErrProjectNotFound, "project", cfg.Name)
	}
	return p, nil
}
