package config

import "github.com/dmitrijs2005/kvbindgen/internal/flagx"

// Config holds runtime settings for the generator.
//
// Fields:
//   - OutputDir: root of the generated tree (test/<lang>/, test/sh/).
//   - Backends: languages to generate, in broadcast order.
//   - SrcDirVar, RunnerPath, Daemons: the runner call written into launchers.
//   - ScriptFile: optional YAML script replacing the built-in test-cases.
//   - FragmentFile: where the shellwrappers fragment goes; "-" is stdout.
//   - ManifestFile: optional digest manifest of everything written.
//   - Verify: parse every generated file after the run.
type Config struct {
	OutputDir    string
	Backends     []string
	SrcDirVar    string
	RunnerPath   string
	Daemons      int
	ScriptFile   string
	FragmentFile string
	ManifestFile string
	Verify       bool
	LogFormat    string
	LogLevel     string
}

// LoadDefaults populates c with defaults matching the upstream source tree.
func (c *Config) LoadDefaults() {
	c.OutputDir = "."
	c.Backends = []string{"python", "ruby", "java"}
	c.SrcDirVar = "HYPERDEX_SRCDIR"
	c.RunnerPath = "test/runner.py"
	c.Daemons = 1
	c.ScriptFile = ""
	c.FragmentFile = "-"
	c.ManifestFile = ""
	c.Verify = false
	c.LogFormat = "auto"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays the JSON
// file named by -c/--config in args, if any. Command-line flags are applied
// afterwards by binding them with BindFlags; later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, flagx.JsonConfigFlags(args)); err != nil {
		return nil, err
	}
	return cfg, nil
}
