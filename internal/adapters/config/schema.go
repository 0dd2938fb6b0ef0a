package config

import "go.trai.ch/ndkdeps/internal/core/domain"

// ManifestFile represents the structure of a project manifest YAML file.
type ManifestFile struct {
	Version  string          `yaml:"version"`
	Targets  []domain.Target `yaml:"targets"`
	Projects []ProjectDTO    `yaml:"projects"`
}

// ProjectDTO represents one project declaration in the manifest.
// Exactly one of Archive or Repository must be set.
type ProjectDTO struct {
	Name        string              `yaml:"name"`
	Archive     string              `yaml:"archive"`
	Repository  *RepositoryDTO      `yaml:"repository"`
	BuildSystem string              `yaml:"build_system"`
	Flags       []string            `yaml:"flags"`
	ABIFlags    map[string][]string `yaml:"abi_flags"`
}

// RepositoryDTO represents a git source pinned to a tag.
type RepositoryDTO struct {
	URL       string `yaml:"url"`
	Tag       string `yaml:"tag"`
	Recursive bool   `yaml:"recursive"`
}
