package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Dataset struct {
		Floor    string `yaml:"floor"`    // earliest kept bar date, YYYY-MM-DD
		Horizons []int  `yaml:"horizons"` // rolling-mean windows in trading days
	} `yaml:"dataset"`
	Backtest struct {
		StartIndex int           `yaml:"start_index"` // <=0 means a fifth of usable rows
		StepSize   int           `yaml:"step_size"`
		Threshold  float64       `yaml:"threshold"`
		Workers    int           `yaml:"workers"`
		CacheTTL   time.Duration `yaml:"cache_ttl"`
	} `yaml:"backtest"`
	Classifier struct {
		Trees           int   `yaml:"trees"`
		MinSamplesSplit int   `yaml:"min_samples_split"`
		MaxDepth        int   `yaml:"max_depth"`
		Seed            int64 `yaml:"seed"`
	} `yaml:"classifier"`
	Yahoo struct {
		RetryAttempts int           `yaml:"retry_attempts"`
		RetryBackoff  time.Duration `yaml:"retry_backoff"`
		HistoryFrom   string        `yaml:"history_from"` // YYYY-MM-DD
	} `yaml:"yahoo"`
	News struct {
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"news"`
	Live struct {
		Interval time.Duration `yaml:"interval"` // quote push period for /api/live
	} `yaml:"live"`
	Cache struct {
		ChartTTL time.Duration `yaml:"chart_ttl"`
		QuoteTTL time.Duration `yaml:"quote_ttl"`
		Redis    struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		BarMaxAge    time.Duration `yaml:"bar_max_age"`
		MinBars      int           `yaml:"min_bars"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		LogTopic     string        `yaml:"log_topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		Linger       time.Duration `yaml:"linger"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backtest.Threshold < 0 || c.Backtest.Threshold > 1 {
		return fmt.Errorf("backtest.threshold must be in [0,1], got %v", c.Backtest.Threshold)
	}
	if c.Backtest.StepSize < 0 {
		return fmt.Errorf("backtest.step_size must not be negative, got %d", c.Backtest.StepSize)
	}
	for _, h := range c.Dataset.Horizons {
		if h < 1 {
			return fmt.Errorf("dataset horizons must be positive, got %d", h)
		}
	}
	if _, err := c.FloorDate(); err != nil {
		return err
	}
	if _, err := c.HistoryFromDate(); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host required when clickhouse is enabled")
	}
	return nil
}

// FloorDate parses the dataset floor, zero time when unset.
func (c *Config) FloorDate() (time.Time, error) {
	return parseDate(c.Dataset.Floor)
}

// HistoryFromDate parses the provider history start, zero time when unset.
func (c *Config) HistoryFromDate() (time.Time, error) {
	return parseDate(c.Yahoo.HistoryFrom)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
