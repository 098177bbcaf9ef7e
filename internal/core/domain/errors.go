package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no kiln.yaml can be found walking up from the working directory.
	ErrConfigNotFound = zerr.New("no kiln.yaml found in the current directory or any parent")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidDuration is returned when a debounce window cannot be parsed.
	ErrInvalidDuration = zerr.New("invalid duration")

	// ErrInvalidIgnoreRule is returned when an ignore entry is neither a glob nor a valid regex.
	ErrInvalidIgnoreRule = zerr.New("invalid ignore rule")

	// ErrInvalidTargetName is returned when a target name is empty or contains invalid characters.
	ErrInvalidTargetName = zerr.New("target name can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrDuplicateTarget is returned when two targets share a name.
	ErrDuplicateTarget = zerr.New("duplicate target")

	// ErrMissingInput is returned when a target declares no input file.
	ErrMissingInput = zerr.New("target has no input")

	// ErrMissingOutput is returned when a target declares no output file.
	ErrMissingOutput = zerr.New("target has no output")

	// ErrPackageReadFailed is returned when a package.json cannot be read or decoded.
	ErrPackageReadFailed = zerr.New("failed to read package.json")

	// ErrPackageNoMain is returned when a package.json has a source entry but no main field.
	ErrPackageNoMain = zerr.New("package.json declares a source entry without a main field")

	// ErrEnvFileLoadFailed is returned when the configured .env file cannot be loaded.
	ErrEnvFileLoadFailed = zerr.New("failed to load env file")

	// ErrTargetNotFound is returned when a requested target is not declared.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrNoTargets is returned when the configuration declares no targets.
	ErrNoTargets = zerr.New("no targets declared")

	// ErrBuildFailed is returned when the initial build of a target fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrRebuildFailed wraps the failure of a rebuild triggered by a file change.
	ErrRebuildFailed = zerr.New("rebuild failed")

	// ErrRebuildPanicked is reported when a rebuild function panics.
	ErrRebuildPanicked = zerr.New("rebuild panicked")

	// ErrWriteFailed is returned when a bundle cannot be written to its output path.
	ErrWriteFailed = zerr.New("failed to write bundle")

	// ErrModuleReadFailed is returned when a module source cannot be read.
	ErrModuleReadFailed = zerr.New("failed to read module")

	// ErrNotBuilt is returned when Write or Files is used before a successful Build.
	ErrNotBuilt = zerr.New("bundle has not been built")

	// ErrWatcherStartFailed is returned when the file system watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrWatcherClosed is returned when Start is called on a closed watcher.
	ErrWatcherClosed = zerr.New("watcher is closed")

	// ErrChangeHandlerFailed wraps errors returned by a change callback.
	ErrChangeHandlerFailed = zerr.New("change handler failed")

	// ErrMetricsServerFailed is returned when the metrics endpoint cannot be served.
	ErrMetricsServerFailed = zerr.New("metrics server failed")
)
