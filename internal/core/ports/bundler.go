package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

//go:generate mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks

// Bundler turns a target's entry module into a bundle.
// A Bundler is used for a single build.
type Bundler interface {
	// Build compiles the target and reports the modules it visited.
	Build(ctx context.Context) (*domain.BuildResult, error)
	// Write persists the last successful build to the target's output path.
	Write(ctx context.Context) error
	// Files returns the absolute source paths the last build depended on.
	Files() []string
	// Linter returns the lint findings of the last build, or nil.
	Linter() Linter
}

// Linter exposes lint findings collected during a build.
type Linter interface {
	HasErrors() bool
	HasWarnings() bool
	Report() string
}

// BundlerFactory creates a fresh Bundler for a target.
type BundlerFactory interface {
	New(target domain.Target) (Bundler, error)
}
