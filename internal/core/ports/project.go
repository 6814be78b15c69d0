package ports

import "go.trai.ch/trier/internal/core/domain"

// ProjectModel is the narrow capability surface of the host project the engine mutates.
// Calls are not transactional; each one succeeds or fails on its own.
//
//go:generate go run go.uber.org/mock/mockgen -source=project.go -destination=mocks/mock_project.go -package=mocks
type ProjectModel interface {
	// Name returns the project name recorded on its items.
	Name() string

	// Root returns the absolute project root directory.
	Root() string

	// FindItem returns the item of this project whose full path equals path, or nil.
	FindItem(path string) (*domain.ProjectItem, error)

	// AddItemFromFile registers the existing file at path as a new project item.
	AddItemFromFile(path string) (*domain.ProjectItem, error)

	// DeleteItem removes item from the project.
	DeleteItem(item *domain.ProjectItem) error

	// SetItemBuildAction changes the build action metadata of item.
	SetItemBuildAction(item *domain.ProjectItem, action domain.BuildAction) error

	// FindItemInSolution searches every project of the solution for path, or returns nil.
	FindItemInSolution(path string) (*domain.ProjectItem, error)

	// Items lists the items of this project in registration order.
	Items() ([]domain.ProjectItem, error)
}

// ProjectOpener resolves the project model that owns a configured project.
type ProjectOpener interface {
	// Open returns the project model for cfg within workspace ws.
	Open(ws *domain.Workspace, cfg *domain.ProjectConfig) (ProjectModel, error)
}
