package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from the zero value, so a file only overrides
// what it mentions.
type JsonConfig struct {
	OutputDir    *string  `json:"output_dir"`
	Backends     []string `json:"backends"`
	SrcDirVar    *string  `json:"src_dir_var"`
	RunnerPath   *string  `json:"runner_path"`
	Daemons      *int     `json:"daemons"`
	ScriptFile   *string  `json:"script_file"`
	FragmentFile *string  `json:"fragment_file"`
	ManifestFile *string  `json:"manifest_file"`
	Verify       *bool    `json:"verify"`
	LogFormat    *string  `json:"log_format"`
	LogLevel     *string  `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file at path. An empty
// path leaves cfg unchanged. Unknown keys are rejected.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	var jc JsonConfig
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&jc); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}

	setString(&cfg.OutputDir, jc.OutputDir)
	if jc.Backends != nil {
		cfg.Backends = jc.Backends
	}
	setString(&cfg.SrcDirVar, jc.SrcDirVar)
	setString(&cfg.RunnerPath, jc.RunnerPath)
	if jc.Daemons != nil {
		cfg.Daemons = *jc.Daemons
	}
	setString(&cfg.ScriptFile, jc.ScriptFile)
	setString(&cfg.FragmentFile, jc.FragmentFile)
	setString(&cfg.ManifestFile, jc.ManifestFile)
	if jc.Verify != nil {
		cfg.Verify = *jc.Verify
	}
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
