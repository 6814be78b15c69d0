package project

import (
	"sync"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
)

var _ ports.ProjectModel = (*Serialized)(nil)

// Serialized guards a project model that is not safe for concurrent use.
type Serialized struct {
	mu    sync.Mutex
	inner ports.ProjectModel
}

// NewSerialized wraps inner so that at most one call runs at a time.
func NewSerialized(inner ports.ProjectModel) *Serialized {
	if s, ok := inner.(*Serialized); ok {
		return s
	}
	return &Serialized{inner: inner}
}

// Name returns the wrapped project's name.
func (s *Serialized) Name() string {
	return s.inner.Name()
}

// Root returns the wrapped project's root.
func (s *Serialized) Root() string {
	return s.inner.Root()
}

// Items lists the wrapped project's items.
func (s *Serialized) Items() ([]domain.ProjectItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Items()
}

// FindItem looks up path in the wrapped project.
func (s *Serialized) FindItem(path string) (*domain.ProjectItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.FindItem(path)
}

// AddItemFromFile adds path to the wrapped project.
func (s *Serialized) AddItemFromFile(path string) (*domain.ProjectItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.AddItemFromFile(path)
}

// DeleteItem deletes item from the wrapped project.
func (s *Serialized) DeleteItem(item *domain.ProjectItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteItem(item)
}

// SetItemBuildAction updates item in the wrapped project.
func (s *Serialized) SetItemBuildAction(item *domain.ProjectItem, action domain.BuildAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.SetItemBuildAction(item, action)
}

// FindItemInSolution looks up path across the wrapped project's solution.
func (s *Serialized) FindItemInSolution(path string) (*domain.ProjectItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.FindItemInSolution(path)
}
