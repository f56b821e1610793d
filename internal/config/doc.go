// Package config loads runtime configuration for the bindgen CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or --config.
//  3. Command-line flags bound by BindFlags, which override earlier values.
//
// # JSON schema
//
// Keys are snake_case; every key is optional:
//
//	{
//	  "output_dir": ".",
//	  "backends": ["python", "ruby", "java"],
//	  "src_dir_var": "HYPERDEX_SRCDIR",
//	  "runner_path": "test/runner.py",
//	  "daemons": 1,
//	  "script_file": "",
//	  "fragment_file": "-",
//	  "manifest_file": "",
//	  "verify": false,
//	  "log_format": "auto",
//	  "log_level": "info"
//	}
//
// Primary API
//
//   - type Config                               — generator settings
//   - func LoadConfig(args) (*Config, error)    — defaults, then JSON
//   - func BindFlags(fs, cfg)                   — flags on a pflag.FlagSet
//
// Note: This package does not read environment variables directly.
package config
