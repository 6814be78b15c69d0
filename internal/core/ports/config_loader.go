package ports

import "go.trai.ch/trier/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers trier.work.yaml or trier.yaml starting at cwd and walking up,
	// and returns every project of the resulting workspace.
	Load(cwd string) (*domain.Workspace, error)
}
