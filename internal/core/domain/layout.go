package domain

import (
	"os"
	"time"
)

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "kiln.yaml"

	// PackageFileName is the name of the package manifest used for entry resolution.
	PackageFileName = "package.json"

	// EnvVar is set to "production" when building with --production.
	EnvVar = "KILN_ENV"

	// DirPerm is the permission used for created output directories.
	DirPerm os.FileMode = 0o750

	// FilePerm is the permission used for written bundles.
	FilePerm os.FileMode = 0o644
)

const (
	// DefaultPathDebounce is the settle window for raw file events on the same path.
	DefaultPathDebounce = 200 * time.Millisecond

	// DefaultTargetDebounce is the settle window for rebuild requests on the same target.
	DefaultTargetDebounce = 100 * time.Millisecond
)
