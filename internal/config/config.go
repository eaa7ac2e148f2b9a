// Package config handles tool configuration loading and management.
package config

// Config holds all extraction tool settings.
type Config struct {
	Export   ExportConfig   `yaml:"export"`
	Preview  PreviewConfig  `yaml:"preview"`
	Triggers TriggersConfig `yaml:"triggers"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ExportConfig holds output settings for the bulk extraction commands.
type ExportConfig struct {
	OutputDir   string `yaml:"output_dir"`
	ImageFormat string `yaml:"image_format"` // png, jpg or bmp
	PrettyJSON  bool   `yaml:"pretty_json"`
}

// PreviewConfig holds texture preview window settings.
type PreviewConfig struct {
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`
	Scale        int `yaml:"scale"`
}

// TriggersConfig points at the trigger-type name definitions.
type TriggersConfig struct {
	DefsPath string `yaml:"defs_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			OutputDir:   "./export",
			ImageFormat: "png",
			PrettyJSON:  true,
		},
		Preview: PreviewConfig{
			WindowWidth:  800,
			WindowHeight: 600,
			Scale:        1,
		},
		Triggers: TriggersConfig{
			DefsPath: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
