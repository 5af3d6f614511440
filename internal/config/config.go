package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    Server    `yaml:"server" json:"server"`
	Storage   Storage   `yaml:"storage" json:"storage"`
	Analytics Analytics `yaml:"analytics" json:"analytics"`
	UI        UI        `yaml:"ui" json:"ui"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Storage struct {
	// Backend is "file" or "sqlite".
	Backend    string `yaml:"backend" json:"backend"`
	DataDir    string `yaml:"data_dir" json:"data_dir"`
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

type Analytics struct {
	// TrendWeeks is the default trailing window for the weekly trend.
	TrendWeeks int `yaml:"trend_weeks" json:"trend_weeks"`
}

type UI struct {
	Title string `yaml:"title" json:"title"`
}

func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":8374"
	}
	if strings.TrimSpace(c.Storage.Backend) == "" {
		c.Storage.Backend = "file"
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		c.Storage.DataDir = "data"
	}
	if c.Analytics.TrendWeeks <= 0 {
		c.Analytics.TrendWeeks = 8
	}
	if strings.TrimSpace(c.UI.Title) == "" {
		c.UI.Title = "WeeklyTrack"
	}
}

// Load reads a yaml config file, applies defaults, then environment
// overrides. A missing file is not an error; defaults plus env apply.
func Load(path string) (*Config, error) {
	c := &Config{}
	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c.ApplyDefaults()
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WEEKLYTRACK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("WEEKLYTRACK_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("WEEKLYTRACK_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("WEEKLYTRACK_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := getEnvInt("WEEKLYTRACK_TREND_WEEKS"); v > 0 {
		c.Analytics.TrendWeeks = v
	}
}

func getEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
