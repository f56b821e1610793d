package config

import "github.com/spf13/pflag"

// BindFlags registers flags on fs that write into cfg. The current field
// values become the flag defaults, so BindFlags must run after LoadConfig.
//
// Supported flags:
//
//	-c, --config string       JSON config file (read by LoadConfig)
//	-o, --output-dir string   root of the generated tree
//	-b, --backends strings    backends to generate, in order
//	    --src-dir-var string  environment variable naming the source tree
//	    --runner string       runner script relative to the source tree
//	    --daemons int         daemons the runner starts
//	-s, --script string       YAML script to run instead of the built-in suite
//	    --fragment string     shellwrappers fragment output ("-" for stdout, "" to skip)
//	    --manifest string     digest manifest output
//	    --verify              syntax-check every generated file
//	    --log-format string   auto, text, json or zap
//	    --log-level string    debug, info, warn or error
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP("config", "c", "", "JSON config file")
	fs.StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "root of the generated tree")
	fs.StringSliceVarP(&cfg.Backends, "backends", "b", cfg.Backends, "backends to generate, in order")
	fs.StringVar(&cfg.SrcDirVar, "src-dir-var", cfg.SrcDirVar, "environment variable naming the source tree in launchers")
	fs.StringVar(&cfg.RunnerPath, "runner", cfg.RunnerPath, "runner script, relative to the source tree")
	fs.IntVar(&cfg.Daemons, "daemons", cfg.Daemons, "number of daemons the runner starts")
	fs.StringVarP(&cfg.ScriptFile, "script", "s", cfg.ScriptFile, "YAML script to run instead of the built-in suite")
	fs.StringVar(&cfg.FragmentFile, "fragment", cfg.FragmentFile, `shellwrappers fragment output ("-" for stdout, "" to skip)`)
	fs.StringVar(&cfg.ManifestFile, "manifest", cfg.ManifestFile, "write a digest manifest of generated files")
	fs.BoolVar(&cfg.Verify, "verify", cfg.Verify, "syntax-check every generated file")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: auto, text, json or zap")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
}
