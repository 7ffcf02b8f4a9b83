package config

// Config is the top-level pdfscan configuration, corresponding to .pdfscan.yml.
type Config struct {
	Root     string       `yaml:"root" koanf:"root"`
	Keyword  string       `yaml:"keyword,omitempty" koanf:"keyword"`
	Literal  bool         `yaml:"literal" koanf:"literal"`
	Include  []string     `yaml:"include,omitempty" koanf:"include"`
	Exclude  []string     `yaml:"exclude,omitempty" koanf:"exclude"`
	Parallel bool         `yaml:"parallel" koanf:"parallel"`
	Workers  int          `yaml:"workers" koanf:"workers"` // 0 = one per CPU
	Backend  string       `yaml:"backend" koanf:"backend"`
	Repair   bool         `yaml:"repair" koanf:"repair"`
	Report   ReportConfig `yaml:"report" koanf:"report"`
	Log      LogConfig    `yaml:"log" koanf:"log"`
}

// ReportConfig controls the output artifact.
type ReportConfig struct {
	Output string `yaml:"output" koanf:"output"`
	Format string `yaml:"format" koanf:"format"`
	Sort   bool   `yaml:"sort" koanf:"sort"`
	Open   bool   `yaml:"open" koanf:"open"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
