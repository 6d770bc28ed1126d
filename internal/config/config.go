package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/rostoc-updates/internal/domain/release"
)

// Config holds everything needed to assemble a publish payload.
type Config struct {
	// Version is the release version, used verbatim in names and paths.
	Version string `yaml:"version"`
	// Channel selects the storage prefix.
	Channel string `yaml:"channel"`
	// BuildSHA identifies the build that produced the artifacts.
	BuildSHA string `yaml:"build_sha"`
	// CDNBase is the public base URL of the storage bucket; empty disables CDN URLs.
	CDNBase string `yaml:"cdn_base"`
	// ManifestPath points to the updater manifest passed through to the backend.
	ManifestPath string `yaml:"manifest"`
	// ReleasesPath points to the releases manifest holding installer metadata.
	ReleasesPath string `yaml:"releases"`
	// MacRoot is the macOS build output directory.
	MacRoot string `yaml:"mac_root"`
	// WindowsRoot is the Windows build output directory.
	WindowsRoot string `yaml:"windows_root"`
	// LinuxRoot is the Linux build output directory.
	LinuxRoot string `yaml:"linux_root"`
	// OutputPath is where the payload document is written.
	OutputPath string `yaml:"output"`
	// LogLevel is the minimum level of log entries.
	LogLevel string `yaml:"log_level"`
}

const (
	// CDNBaseEnv is the environment variable consulted when no CDN base is configured.
	CDNBaseEnv = "SPACES_CDN_BASE"

	// DefaultChannel is used when no channel is configured.
	DefaultChannel = string(release.ChannelStable)

	// DefaultMacRoot is the default macOS artifact root.
	DefaultMacRoot = "macos-artifacts"

	// DefaultWindowsRoot is the default Windows artifact root.
	DefaultWindowsRoot = "windows-artifacts"

	// DefaultLinuxRoot is the default Linux artifact root.
	DefaultLinuxRoot = "linux-artifacts"

	// DefaultOutputPath is the default payload destination.
	DefaultOutputPath = "publish-payload.json"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrVersionRequired is returned when no release version is configured.
	ErrVersionRequired = errors.New("release version must be provided")
	// ErrBuildSHARequired is returned when no build identifier is configured.
	ErrBuildSHARequired = errors.New("build sha must be provided")
	// ErrManifestRequired is returned when no manifest payload path is configured.
	ErrManifestRequired = errors.New("manifest payload path must be provided")
	// ErrReleasesRequired is returned when no releases manifest path is configured.
	ErrReleasesRequired = errors.New("releases manifest path must be provided")
	// ErrInvalidCDNBase is returned when the CDN base cannot be joined into artifact URLs.
	ErrInvalidCDNBase = errors.New("invalid cdn base")
)

// Load reads configuration from a YAML file. It does not validate: callers
// merge command-line overrides first and validate the result.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return &cfg, nil
}

// Merge returns a copy of base with every non-empty field of override applied on top.
func Merge(base, override *Config) *Config {
	merged := new(Config)
	if base != nil {
		*merged = *base
	}

	if override == nil {
		return merged
	}

	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	pick(&merged.Version, override.Version)
	pick(&merged.Channel, override.Channel)
	pick(&merged.BuildSHA, override.BuildSHA)
	pick(&merged.CDNBase, override.CDNBase)
	pick(&merged.ManifestPath, override.ManifestPath)
	pick(&merged.ReleasesPath, override.ReleasesPath)
	pick(&merged.MacRoot, override.MacRoot)
	pick(&merged.WindowsRoot, override.WindowsRoot)
	pick(&merged.LinuxRoot, override.LinuxRoot)
	pick(&merged.OutputPath, override.OutputPath)
	pick(&merged.LogLevel, override.LogLevel)

	return merged
}

// CDNBaseFromEnv returns the CDN base configured in the environment.
func CDNBaseFromEnv() string {
	return strings.TrimSpace(os.Getenv(CDNBaseEnv))
}

// Validate checks required fields, fills defaults and verifies the CDN base URL.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	cfg.Version = strings.TrimSpace(cfg.Version)
	if cfg.Version == "" {
		return ErrVersionRequired
	}

	if strings.TrimSpace(cfg.BuildSHA) == "" {
		return ErrBuildSHARequired
	}

	if cfg.ManifestPath == "" {
		return ErrManifestRequired
	}

	if cfg.ReleasesPath == "" {
		return ErrReleasesRequired
	}

	setDefault(&cfg.Channel, DefaultChannel)
	setDefault(&cfg.CDNBase, CDNBaseFromEnv())
	setDefault(&cfg.MacRoot, DefaultMacRoot)
	setDefault(&cfg.WindowsRoot, DefaultWindowsRoot)
	setDefault(&cfg.LinuxRoot, DefaultLinuxRoot)
	setDefault(&cfg.OutputPath, DefaultOutputPath)

	if cfg.CDNBase == "" {
		return nil
	}

	return validateCDNBase(cfg.CDNBase)
}

// validateCDNBase accepts absolute URLs and scheme-less bases such as
// cdn.example.com; both are joined with storage paths verbatim.
func validateCDNBase(base string) error {
	if strings.ContainsAny(base, " \t\r\n") {
		return fmt.Errorf("%w %q: contains whitespace", ErrInvalidCDNBase, base)
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCDNBase, err)
	}

	if parsed.Host == "" && strings.Trim(parsed.Path, "/") == "" {
		return fmt.Errorf("%w %q: neither host nor path", ErrInvalidCDNBase, base)
	}

	return nil
}

// Roots returns the artifact root directory of every platform.
func (c *Config) Roots() map[release.Platform]string {
	return map[release.Platform]string{
		release.PlatformMacOS:   c.MacRoot,
		release.PlatformWindows: c.WindowsRoot,
		release.PlatformLinux:   c.LinuxRoot,
	}
}

// ReleaseChannel returns the configured channel as a domain value.
func (c *Config) ReleaseChannel() release.Channel {
	return release.Channel(c.Channel)
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
