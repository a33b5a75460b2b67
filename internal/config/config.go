package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"quickdraw-pipeline/internal/models"
)

type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Random    string          `yaml:"random"`
	OutputDir string          `yaml:"output_dir"`
	Partition PartitionConfig `yaml:"partition"`
	Select    SelectConfig    `yaml:"select"`
	Sample    SampleConfig    `yaml:"sample"`
	Parser    ParserConfig    `yaml:"parser"`
	Draw      DrawConfig      `yaml:"draw"`
}

type PartitionConfig struct {
	Source    string `yaml:"source"`
	Dest      string `yaml:"dest"`
	Run       bool   `yaml:"run"`
	ChunkSize int    `yaml:"chunk_size"`
	Marker    string `yaml:"marker"`
	Ext       string `yaml:"ext"`
}

type SelectConfig struct {
	Root       string   `yaml:"root"`
	Categories []string `yaml:"categories"`
	Seed       int      `yaml:"seed"`
}

type SampleConfig struct {
	Amount      int `yaml:"amount"`
	Start       int `yaml:"start"`
	Concurrency int `yaml:"concurrency"`
}

type ParserConfig struct {
	// TerminalTrim is "artifact" or "always".
	TerminalTrim string `yaml:"terminal_trim"`
}

type DrawConfig struct {
	Seed      int         `yaml:"seed"`
	Locations [][]float64 `yaml:"locations"`
	Grid      *GridConfig `yaml:"grid"`
}

type GridConfig struct {
	Columns int       `yaml:"columns"`
	Rows    int       `yaml:"rows"`
	Spacing float64   `yaml:"spacing"`
	Origin  []float64 `yaml:"origin"`
}

const (
	defaultLogLevel     = "info"
	defaultRandom       = "compat"
	defaultOutputDir    = "./output"
	defaultTerminalTrim = "artifact"
	defaultAmount       = 10
	defaultGridSpacing  = 1.5
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := preset()
	cfg.applyDefaults()
	return cfg
}

// preset holds the defaults for fields whose zero value is meaningful. They
// are set before decoding so only a missing key keeps them.
func preset() *Config {
	return &Config{Sample: SampleConfig{Amount: defaultAmount}}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := preset()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills the zero fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Random == "" {
		c.Random = defaultRandom
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.Partition.ChunkSize == 0 {
		c.Partition.ChunkSize = models.ChunkSize
	}
	if c.Partition.Marker == "" {
		c.Partition.Marker = models.AcceptMarker
	}
	if c.Partition.Ext == "" {
		c.Partition.Ext = models.PartitionExt
	}
	if c.Select.Root == "" {
		c.Select.Root = c.Partition.Dest
	}
	if c.Parser.TerminalTrim == "" {
		c.Parser.TerminalTrim = defaultTerminalTrim
	}
	if g := c.Draw.Grid; g != nil && g.Spacing == 0 {
		g.Spacing = defaultGridSpacing
	}
}

// Validate rejects values no stage can work with.
func (c *Config) Validate() error {
	switch c.Random {
	case "compat", "pcg":
	default:
		return fmt.Errorf("random must be compat or pcg, got %q", c.Random)
	}
	switch c.Parser.TerminalTrim {
	case "artifact", "always":
	default:
		return fmt.Errorf("parser.terminal_trim must be artifact or always, got %q", c.Parser.TerminalTrim)
	}
	if c.Partition.ChunkSize < 0 {
		return fmt.Errorf("partition.chunk_size must be positive, got %d", c.Partition.ChunkSize)
	}
	if c.Sample.Concurrency < 0 {
		return fmt.Errorf("sample.concurrency must not be negative, got %d", c.Sample.Concurrency)
	}
	for i, loc := range c.Draw.Locations {
		if len(loc) < 2 || len(loc) > 3 {
			return fmt.Errorf("draw.locations[%d] must have 2 or 3 coordinates, got %d", i, len(loc))
		}
	}
	if g := c.Draw.Grid; g != nil {
		if g.Columns <= 0 || g.Rows <= 0 {
			return fmt.Errorf("draw.grid needs positive columns and rows, got %dx%d", g.Columns, g.Rows)
		}
		if len(g.Origin) != 0 && len(g.Origin) != 2 && len(g.Origin) != 3 {
			return fmt.Errorf("draw.grid.origin must have 2 or 3 coordinates, got %d", len(g.Origin))
		}
	}
	return nil
}
