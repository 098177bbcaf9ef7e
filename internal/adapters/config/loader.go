// Package config provides the configuration loader for kiln.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validTargetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Load finds kiln.yaml in cwd or the nearest parent and returns the project
// it declares.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "cwd", cwd)
	}

	configPath, err := findConfiguration(abs)
	if err != nil {
		return nil, err
	}

	var kilnfile Kilnfile
	if err := readAndUnmarshalYAML(configPath, &kilnfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return l.buildProject(configPath, &kilnfile)
}

func (l *Loader) buildProject(configPath string, kf *Kilnfile) (*domain.Project, error) {
	if kf.Version != "" && kf.Version != "1" {
		l.Logger.Warn(fmt.Sprintf("unknown config version %q in %s, reading it as version 1", kf.Version, domain.ConfigFileName))
	}

	project := &domain.Project{
		Root:       resolveRoot(configPath, kf.Root),
		ConfigPath: configPath,
	}

	if kf.Env != "" {
		envPath := resolvePath(project.Root, kf.Env)
		if err := godotenv.Load(envPath); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileLoadFailed.Error()), "path", envPath)
		}
	}

	watch, err := parseWatch(kf.Watch)
	if err != nil {
		return nil, err
	}
	project.Watch = watch

	names := make([]string, 0, len(kf.Targets))
	for name := range kf.Targets {
		names = append(names, name)
	}
	slices.Sort(names)

	seen := make(map[string]bool)
	add := func(t domain.Target) error {
		if seen[t.Name] {
			return zerr.With(domain.ErrDuplicateTarget, "target", t.Name)
		}
		seen[t.Name] = true
		project.Targets = append(project.Targets, t)
		return nil
	}

	for _, name := range names {
		target, err := buildTarget(project.Root, name, kf.Targets[name])
		if err != nil {
			return nil, err
		}
		if err := add(target); err != nil {
			return nil, err
		}
	}

	for _, pattern := range kf.Packages {
		targets, err := l.packageTargets(project.Root, pattern)
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			if err := add(t); err != nil {
				return nil, err
			}
		}
	}

	return project, nil
}

func buildTarget(root, name string, dto *TargetDTO) (domain.Target, error) {
	if err := validateTargetName(name); err != nil {
		return domain.Target{}, err
	}
	if dto == nil || dto.Input == "" {
		return domain.Target{}, zerr.With(domain.ErrMissingInput, "target", name)
	}
	if dto.Output == "" {
		return domain.Target{}, zerr.With(domain.ErrMissingOutput, "target", name)
	}

	input := resolvePath(root, dto.Input)
	kind := domain.KindForPath(input)
	switch domain.TargetKind(dto.Kind) {
	case "":
	case domain.KindScript, domain.KindStyle:
		kind = domain.TargetKind(dto.Kind)
	default:
		return domain.Target{}, zerr.With(zerr.With(zerr.New("unknown target kind"), "target", name), "kind", dto.Kind)
	}

	return domain.Target{
		Name:   name,
		Kind:   kind,
		Input:  input,
		Output: resolvePath(root, dto.Output),
	}, nil
}

func parseWatch(dto WatchDTO) (domain.WatchSettings, error) {
	settings := domain.WatchSettings{
		PathDebounce:   domain.DefaultPathDebounce,
		TargetDebounce: domain.DefaultTargetDebounce,
	}

	var err error
	if settings.PathDebounce, err = parseDuration("watch.debounce", dto.Debounce, settings.PathDebounce); err != nil {
		return settings, err
	}
	if settings.TargetDebounce, err = parseDuration("watch.targetDebounce", dto.TargetDebounce, settings.TargetDebounce); err != nil {
		return settings, err
	}

	for _, entry := range dto.Ignore {
		rule, err := ignoreRule(entry)
		if err != nil {
			return settings, err
		}
		settings.Ignore = append(settings.Ignore, rule)
	}
	return settings, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		if err == nil {
			err = zerr.New("duration must be positive")
		}
		return 0, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrInvalidDuration.Error()), "field", field), "value", value)
	}
	return d, nil
}

func ignoreRule(entry IgnoreDTO) (domain.IgnoreRule, error) {
	if entry.Regex != "" {
		re, err := regexp.Compile(entry.Regex)
		if err != nil {
			return domain.IgnoreRule{}, zerr.With(zerr.Wrap(err, domain.ErrInvalidIgnoreRule.Error()), "regex", entry.Regex)
		}
		return domain.Regex(re), nil
	}
	if !domain.ValidatePattern(entry.Pattern) {
		return domain.IgnoreRule{}, zerr.With(domain.ErrInvalidIgnoreRule, "pattern", entry.Pattern)
	}
	return domain.Pattern(entry.Pattern), nil
}

func validateTargetName(name string) error {
	if !validTargetNameRegex.MatchString(name) {
		return zerr.With(domain.ErrInvalidTargetName, "target", name)
	}
	return nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		currentDir = parentDir
	}
}

func resolveRoot(configPath, configuredRoot string) string {
	return resolvePath(filepath.Dir(configPath), configuredRoot)
}

func resolvePath(base, p string) string {
	if p == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from cwd
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
