package config

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/filex"
)

const (
	ProviderS3    = "s3"
	ProviderMinio = "minio"

	DefaultPath = "config.yaml"
)

// DriveConfig describes the S3-compatible bucket that plays the cloud drive.
type DriveConfig struct {
	Provider  string
	Endpoint  string
	Region    string
	Bucket    string
	UseSSL    bool
	PathStyle bool
}

// LogConfig selects the logging backend.
type LogConfig struct {
	Backend string
	Level   string
	Format  string
}

// Config holds runtime settings for passync.
//
// Username and Password are the drive credentials (access key id and
// secret). LocalDir is the directory of password exports on this machine and
// RemoteDir the directory (key prefix) holding their copies on the drive.
type Config struct {
	Username string
	Password string

	LocalDir  string
	RemoteDir string

	Drive DriveConfig

	Retries     int
	RetryDelay  time.Duration
	JournalPath string
	Pattern     string

	Log LogConfig

	// Warnings collects non-fatal problems found while loading.
	Warnings []string
}

// Overrides carries values set on the command line. Empty fields are ignored.
type Overrides struct {
	LocalDir  string
	RemoteDir string
	LogLevel  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Drive = DriveConfig{
		Provider:  ProviderS3,
		Region:    "us-east-1",
		PathStyle: true,
	}
	c.Retries = 3
	c.RetryDelay = 500 * time.Millisecond
	c.JournalPath = "~/.passync/journal.db"
	c.Pattern = "*"
	c.Log = LogConfig{Backend: "slog", Level: "info", Format: "text"}
}

// Load builds a Config from defaults, the YAML file at path and the command
// line overrides, then expands and validates it.
func Load(path string, ov Overrides) (*Config, error) {
	cfg, err := read(path, ov)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadJournal is Load for commands that only read the journal. Drive and
// directory settings are not validated.
func LoadJournal(path string, ov Overrides) (*Config, error) {
	cfg, err := read(path, ov)
	if err != nil {
		return nil, err
	}
	if cfg.JournalPath == "" {
		return nil, fmt.Errorf("%w: sync.journal required", common.ErrInvalidConfig)
	}
	return cfg, nil
}

func read(path string, ov Overrides) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		path = DefaultPath
	}
	if err := parseYAML(cfg, path); err != nil {
		return nil, err
	}

	cfg.apply(ov)

	if err := cfg.expand(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(ov Overrides) {
	if ov.LocalDir != "" {
		c.LocalDir = ov.LocalDir
	}
	if ov.RemoteDir != "" {
		c.RemoteDir = ov.RemoteDir
	}
	if ov.LogLevel != "" {
		c.Log.Level = ov.LogLevel
	}
}

func (c *Config) expand() error {
	var err error
	if c.LocalDir, err = filex.ExpandHome(c.LocalDir); err != nil {
		return err
	}
	if c.JournalPath, err = filex.ExpandHome(c.JournalPath); err != nil {
		return err
	}
	return nil
}

// Validate checks required settings. A missing local directory only adds a
// warning.
func (c *Config) Validate() error {
	if c.RemoteDir == "" {
		return common.ErrRemoteDirRequired
	}
	if c.LocalDir == "" {
		return fmt.Errorf("%w: local passwords directory path required", common.ErrInvalidConfig)
	}
	if c.Drive.Bucket == "" {
		return fmt.Errorf("%w: drive bucket required", common.ErrInvalidConfig)
	}

	switch c.Drive.Provider {
	case ProviderS3:
	case ProviderMinio:
		if c.Drive.Endpoint == "" {
			return fmt.Errorf("%w: minio provider needs an endpoint", common.ErrInvalidConfig)
		}
		if c.Username == "" {
			return fmt.Errorf("%w: minio provider needs login credentials", common.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown drive provider %q", common.ErrInvalidConfig, c.Drive.Provider)
	}

	if c.Retries < 0 {
		return fmt.Errorf("%w: sync.retries must not be negative", common.ErrInvalidConfig)
	}
	if _, err := path.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("%w: sync.pattern: %v", common.ErrInvalidConfig, err)
	}

	c.Warnings = c.Warnings[:0]
	if !filex.DirExists(c.LocalDir) {
		c.Warnings = append(c.Warnings, fmt.Sprintf("the directory '%s' does not exist", c.LocalDir))
	}

	return nil
}

// NeedsPassword reports whether credentials are configured without a secret.
func (c *Config) NeedsPassword() bool {
	return c.Username != "" && strings.TrimSpace(c.Password) == ""
}
