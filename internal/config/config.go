// Package config resolves the directories, platforms and release settings
// used by a single packaging run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/yapb/amxx-release/internal/validator"
)

const (
	// FileName is the optional configuration file looked up in the working directory.
	FileName = ".amxx-release.yml"

	ArtifactPrefix           = "yapb-amxx-module"
	DefaultRepository        = "yapb/amxx"
	DefaultAPIURL            = "https://api.github.com/"
	DefaultUploadURL         = "https://uploads.github.com/"
	DefaultReleaseNamePrefix = "YaPB AMXX Module "
	DefaultWorkDir           = "dist"
	DefaultDistDir           = "out"
)

// ModulePath is the location of the module directory inside the staging tree.
var ModulePath = filepath.Join("addons", "amxmodx", "modules")

// File mirrors the contents of .amxx-release.yml. Every field is optional.
type File struct {
	Repository        string `yaml:"repository"`
	APIURL            string `yaml:"apiUrl"`
	UploadURL         string `yaml:"uploadUrl"`
	ReleaseNamePrefix string `yaml:"releaseNamePrefix"`
	WorkDir           string `yaml:"workDir"`
	DistDir           string `yaml:"distDir"`
}

// Config holds everything a run needs. It is built once at startup and passed
// to the packaging driver and the release publisher.
type Config struct {
	Version           string
	RootDir           string
	WorkDir           string // staging tree root
	DistDir           string // deliverables
	ModDir            string // module directory inside the staging tree
	Platforms         []Platform
	Owner             string
	Repo              string
	APIURL            string
	UploadURL         string
	ReleaseNamePrefix string
}

// New builds the Config for the given working directory and version.
// If configPath is empty, FileName inside rootDir is used when present.
func New(rootDir, version, configPath string, compiler validator.Compiler) (*Config, error) {
	if err := validateVersion(version); err != nil {
		return nil, err
	}

	f, err := loadFile(rootDir, configPath, compiler)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Version:           version,
		RootDir:           rootDir,
		WorkDir:           resolveDir(rootDir, f.WorkDir, DefaultWorkDir),
		DistDir:           resolveDir(rootDir, f.DistDir, DefaultDistDir),
		Platforms:         DefaultPlatforms(),
		APIURL:            withDefault(f.APIURL, DefaultAPIURL),
		UploadURL:         withDefault(f.UploadURL, DefaultUploadURL),
		ReleaseNamePrefix: withDefault(f.ReleaseNamePrefix, DefaultReleaseNamePrefix),
	}
	cfg.ModDir = filepath.Join(cfg.WorkDir, ModulePath)

	cfg.Owner, cfg.Repo, err = splitRepository(withDefault(f.Repository, DefaultRepository))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureDirs creates the deliverable directory and the staging module directory.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.DistDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.MkdirAll(c.ModDir, 0o755); err != nil {
		return fmt.Errorf("failed to create module directory: %w", err)
	}
	return nil
}

// ArtifactName returns the deliverable filename for the platform.
func (c *Config) ArtifactName(p Platform) string {
	return fmt.Sprintf("%s-%s-%s", ArtifactPrefix, c.Version, p.ArtifactSuffix)
}

// ArtifactPath returns the absolute path of the platform's deliverable.
func (c *Config) ArtifactPath(p Platform) string {
	return filepath.Join(c.DistDir, c.ArtifactName(p))
}

// SourcePath returns the absolute path of the platform's prebuilt binary.
func (c *Config) SourcePath(p Platform) string {
	return filepath.Join(c.RootDir, p.SourcePath)
}

// Platform looks up a platform by name.
func (c *Config) Platform(name string) (Platform, bool) {
	for _, p := range c.Platforms {
		if p.Name == name {
			return p, true
		}
	}
	return Platform{}, false
}

// BinaryNames returns the staged filename of every platform binary.
func (c *Config) BinaryNames() []string {
	names := make([]string, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		names = append(names, p.BinaryName)
	}
	return names
}

// ReleaseArtifacts returns the deliverables a release is made of, in upload order.
func (c *Config) ReleaseArtifacts() []string {
	order := []string{"linux", "windows", "macos"}
	paths := make([]string, 0, len(order))
	for _, name := range order {
		if p, ok := c.Platform(name); ok {
			paths = append(paths, c.ArtifactPath(p))
		}
	}
	return paths
}

// ReleaseName returns the title of the release for the configured version.
func (c *Config) ReleaseName() string {
	return c.ReleaseNamePrefix + c.Version
}

func validateVersion(version string) error {
	if version == "" {
		return &MissingVersionError{}
	}
	if strings.ContainsAny(version, `/\`) || strings.IndexFunc(version, unicode.IsSpace) >= 0 {
		return &InvalidVersionError{Version: version}
	}
	return nil
}

func loadFile(rootDir, configPath string, compiler validator.Compiler) (*File, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(rootDir, FileName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &File{}, nil
		}
		if os.IsNotExist(err) {
			return nil, &MissingConfigError{Path: configPath}
		}
		return nil, err
	}

	doc, err := yamlToJSONDocument(data)
	if err != nil {
		return nil, &InvalidYAMLError{Path: configPath, Wrapped: err}
	}

	v, err := compileFileSchema(compiler)
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	if vErr := v.Validate(doc); vErr != nil {
		return nil, &InvalidConfigError{Path: configPath, Wrapped: vErr}
	}

	var f File
	if err = yaml.Unmarshal(data, &f); err != nil {
		return nil, &InvalidYAMLError{Path: configPath, Wrapped: err}
	}
	return &f, nil
}

func splitRepository(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", &InvalidRepositoryError{Value: s}
	}
	return owner, repo, nil
}

func resolveDir(rootDir, value, def string) string {
	value = withDefault(value, def)
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(rootDir, value)
}

func withDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
