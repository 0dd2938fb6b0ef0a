// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ndkdeps/internal/adapters/archive"
	_ "go.trai.ch/ndkdeps/internal/adapters/autotools"
	_ "go.trai.ch/ndkdeps/internal/adapters/config"
	_ "go.trai.ch/ndkdeps/internal/adapters/fetch"
	_ "go.trai.ch/ndkdeps/internal/adapters/ledger"
	_ "go.trai.ch/ndkdeps/internal/adapters/logger"
	_ "go.trai.ch/ndkdeps/internal/adapters/meson"
	_ "go.trai.ch/ndkdeps/internal/adapters/publish"
	_ "go.trai.ch/ndkdeps/internal/adapters/shell"
	_ "go.trai.ch/ndkdeps/internal/adapters/source"
	_ "go.trai.ch/ndkdeps/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/ndkdeps/internal/adapters/toolchain"
	// Register app and engine nodes.
	_ "go.trai.ch/ndkdeps/internal/app"
	_ "go.trai.ch/ndkdeps/internal/engine/orchestrator"
)
