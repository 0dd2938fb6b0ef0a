// Package config provides the project manifest loader.
package config

import (
	_ "embed"
	"errors"
	"os"

	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultManifest []byte

// Loader implements ports.ManifestLoader using YAML files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the manifest at path. An empty path loads the built-in manifest.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	if path == "" {
		return Parse(defaultManifest)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	l.logger.Info("using manifest " + path)

	m, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return m, nil
}

// Default returns the built-in manifest.
func Default() *domain.Manifest {
	m, err := Parse(defaultManifest)
	if err != nil {
		panic(err) // the embedded manifest is covered by tests
	}
	return m
}

// Parse decodes and validates manifest YAML.
// A manifest without targets builds for every default Android ABI.
func Parse(data []byte) (*domain.Manifest, error) {
	var file ManifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}

	targets := file.Targets
	if len(targets) == 0 {
		targets = domain.DefaultTargets()
	}
	abis, err := validateTargets(targets)
	if err != nil {
		return nil, err
	}

	if len(file.Projects) == 0 {
		return nil, zerr.Wrap(domain.ErrInvalidManifest, "manifest declares no projects")
	}

	projects := make([]domain.Project, 0, len(file.Projects))
	seen := make(map[string]bool, len(file.Projects))
	for i, dto := range file.Projects {
		p, err := toProject(dto, abis)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		if seen[p.Name] {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidManifest, "duplicate project"), "project", p.Name)
		}
		seen[p.Name] = true
		projects = append(projects, p)
	}

	return &domain.Manifest{Targets: targets, Projects: projects}, nil
}

func validateTargets(targets []domain.Target) (map[string]bool, error) {
	abis := make(map[string]bool, len(targets))
	for _, t := range targets {
		if t.ABI == "" || t.Triple == "" || t.CPU == "" || t.CPUFamily == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidManifest, "incomplete target"), "abi", t.ABI)
		}
		if abis[t.ABI] {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidManifest, "duplicate target"), "abi", t.ABI)
		}
		abis[t.ABI] = true
	}
	return abis, nil
}

func toProject(dto ProjectDTO, abis map[string]bool) (domain.Project, error) {
	if dto.Name == "" {
		return domain.Project{}, zerr.Wrap(domain.ErrInvalidManifest, "project name is required")
	}

	invalid := func(msg string) error {
		return zerr.With(zerr.Wrap(domain.ErrInvalidManifest, msg), "project", dto.Name)
	}

	var src domain.Source
	switch {
	case dto.Archive != "" && dto.Repository != nil:
		return domain.Project{}, invalid("archive and repository are mutually exclusive")
	case dto.Archive != "":
		src = domain.ArchiveSource{URL: dto.Archive}
	case dto.Repository != nil:
		if dto.Repository.URL == "" || dto.Repository.Tag == "" {
			return domain.Project{}, invalid("repository needs url and tag")
		}
		src = domain.RepositorySource{
			URL:       dto.Repository.URL,
			Tag:       dto.Repository.Tag,
			Recursive: dto.Repository.Recursive,
		}
	default:
		return domain.Project{}, invalid("project has no source")
	}

	if _, err := src.DirName(); err != nil {
		return domain.Project{}, zerr.With(err, "project", dto.Name)
	}

	bs, ok := domain.ParseBuildSystem(dto.BuildSystem)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrUnknownBuildSystem, "unsupported build system"), "build_system", dto.BuildSystem)
		return domain.Project{}, zerr.With(errors.Join(domain.ErrInvalidManifest, err), "project", dto.Name)
	}

	for abi := range dto.ABIFlags {
		if !abis[abi] {
			return domain.Project{}, zerr.With(invalid("abi_flags names an unknown abi"), "abi", abi)
		}
	}

	return domain.Project{
		Name:        dto.Name,
		Source:      src,
		BuildSystem: bs,
		Flags:       dto.Flags,
		ABIFlags:    dto.ABIFlags,
	}, nil
}
