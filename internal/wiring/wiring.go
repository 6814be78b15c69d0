// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/trier/internal/adapters/config"
	_ "go.trai.ch/trier/internal/adapters/fs"
	_ "go.trai.ch/trier/internal/adapters/logger"
	_ "go.trai.ch/trier/internal/adapters/manifest"
	_ "go.trai.ch/trier/internal/adapters/project"
	_ "go.trai.ch/trier/internal/adapters/reporter"
	_ "go.trai.ch/trier/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/trier/internal/adapters/watcher"
	_ "go.trai.ch/trier/internal/adapters/yaegi"
	// Register app and engine nodes.
	_ "go.trai.ch/trier/internal/app"
	_ "go.trai.ch/trier/internal/engine/generator"
)
