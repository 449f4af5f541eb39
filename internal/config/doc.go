// Package config loads runtime configuration for passync.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. YAML file selected with -c/--config (default ./config.yaml).
//  3. Command-line overrides (see Overrides), which win over the file.
//
// # YAML schema
//
//	login:
//	  username: AKIAEXAMPLE
//	  password: secret
//	paths:
//	  local_passwords_dir: ~/passwords   # "passwords_dir" is read as a fallback
//	  icloud_passwords_dir: passwords
//	drive:
//	  provider: s3            # or minio
//	  endpoint: http://127.0.0.1:9000
//	  region: us-east-1
//	  bucket: passwords
//	  use_ssl: false
//	  path_style: true
//	sync:
//	  retries: 3
//	  retry_delay: 500ms
//	  journal: ~/.passync/journal.db
//	  pattern: "*.csv"
//	log:
//	  backend: slog           # or zap
//	  level: info
//	  format: text            # or json
//
// Paths starting with "~" are expanded against the home directory. A local
// directory that does not exist is not an error: it is reported through
// Config.Warnings and the run continues.
package config
