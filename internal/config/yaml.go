package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/passync/internal/common"
	"gopkg.in/yaml.v3"
)

// YamlConfig is a DTO used exclusively for YAML unmarshalling. Pointers mark
// booleans that must only override defaults when present.
type YamlConfig struct {
	Login struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"login"`

	Paths struct {
		LocalPasswordsDir  string `yaml:"local_passwords_dir"`
		PasswordsDir       string `yaml:"passwords_dir"`
		ICloudPasswordsDir string `yaml:"icloud_passwords_dir"`
	} `yaml:"paths"`

	Drive struct {
		Provider  string `yaml:"provider"`
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		UseSSL    *bool  `yaml:"use_ssl"`
		PathStyle *bool  `yaml:"path_style"`
	} `yaml:"drive"`

	Sync struct {
		Retries    *int          `yaml:"retries"`
		RetryDelay time.Duration `yaml:"retry_delay"`
		Journal    string        `yaml:"journal"`
		Pattern    string        `yaml:"pattern"`
	} `yaml:"sync"`

	Log struct {
		Backend string `yaml:"backend"`
		Level   string `yaml:"level"`
		Format  string `yaml:"format"`
	} `yaml:"log"`
}

// parseYAML overlays cfg with the values found in the YAML file at path.
// Keys absent from the file keep their current value.
func parseYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var yc YamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", common.ErrInvalidConfig, path, err)
	}

	cfg.Username = yc.Login.Username
	cfg.Password = yc.Login.Password

	cfg.LocalDir = firstNonEmpty(yc.Paths.LocalPasswordsDir, yc.Paths.PasswordsDir)
	cfg.RemoteDir = yc.Paths.ICloudPasswordsDir

	setString(&cfg.Drive.Provider, yc.Drive.Provider)
	setString(&cfg.Drive.Endpoint, yc.Drive.Endpoint)
	setString(&cfg.Drive.Region, yc.Drive.Region)
	setString(&cfg.Drive.Bucket, yc.Drive.Bucket)
	if yc.Drive.UseSSL != nil {
		cfg.Drive.UseSSL = *yc.Drive.UseSSL
	}
	if yc.Drive.PathStyle != nil {
		cfg.Drive.PathStyle = *yc.Drive.PathStyle
	}

	if yc.Sync.Retries != nil {
		cfg.Retries = *yc.Sync.Retries
	}
	if yc.Sync.RetryDelay > 0 {
		cfg.RetryDelay = yc.Sync.RetryDelay
	}
	setString(&cfg.JournalPath, yc.Sync.Journal)
	setString(&cfg.Pattern, yc.Sync.Pattern)

	setString(&cfg.Log.Backend, yc.Log.Backend)
	setString(&cfg.Log.Level, yc.Log.Level)
	setString(&cfg.Log.Format, yc.Log.Format)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
