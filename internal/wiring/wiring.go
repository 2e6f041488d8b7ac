// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/venvcache/internal/adapters/cas"
	_ "go.trai.ch/venvcache/internal/adapters/config"
	_ "go.trai.ch/venvcache/internal/adapters/fs"
	_ "go.trai.ch/venvcache/internal/adapters/lock"
	_ "go.trai.ch/venvcache/internal/adapters/logger"
	// Register app and engine nodes.
	_ "go.trai.ch/venvcache/internal/app"
	_ "go.trai.ch/venvcache/internal/engine/cache"
)
