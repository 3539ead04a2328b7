package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"tax-engine/internal/tax"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Cache  CacheConfig  `yaml:"cache"`
	Tax    TaxConfig    `yaml:"tax"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"` // trace debug info warn error critical off
}

// CacheConfig selects where breakdowns are cached. An empty RedisAddr keeps
// the cache in process.
type CacheConfig struct {
	Disabled  bool          `yaml:"disabled,omitempty"`
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	TTL       time.Duration `yaml:"ttl,omitempty"`
}

// TaxConfig overrides the built-in 2024-25 tables. Omitted tables keep the
// defaults.
type TaxConfig struct {
	ScheduleName string       `yaml:"schedule_name,omitempty"`
	SuperRate    *Amount      `yaml:"super_rate,omitempty"`
	Convention   string       `yaml:"convention,omitempty"`
	Brackets     []BracketRow `yaml:"brackets,omitempty"`
	Withholding  []BandRow    `yaml:"withholding,omitempty"`
}

// BracketRow is one annual bracket; omit upper for the top bracket.
type BracketRow struct {
	Lower   Amount  `yaml:"lower"`
	Upper   *Amount `yaml:"upper,omitempty"`
	BaseTax Amount  `yaml:"base_tax"`
	Rate    Amount  `yaml:"rate"`
}

// BandRow is one weekly withholding band; omit upper for the top band.
type BandRow struct {
	Lower Amount  `yaml:"lower"`
	Upper *Amount `yaml:"upper,omitempty"`
	A     Amount  `yaml:"a"`
	B     Amount  `yaml:"b"`
}

// Amount reads a YAML number as an exact decimal.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	a.Decimal = v
	return nil
}

func (a Amount) MarshalYAML() (interface{}, error) {
	return a.Decimal.String(), nil
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info"},
		Cache:  CacheConfig{TTL: 24 * time.Hour},
		Tax:    TaxConfig{Convention: string(tax.ConventionBase)},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config file load err: %w", err)
		}
		if err := yaml.UnmarshalStrict(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("config file parse err: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Cache.RedisAddr = addr
	}
}

var logLevels = map[string]logrus.Level{
	"trace":    logrus.TraceLevel,
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
	"off":      logrus.PanicLevel,
}

func (c LogConfig) LogrusLevel() (logrus.Level, error) {
	level, ok := logLevels[c.Level]
	if !ok {
		return 0, fmt.Errorf("log.level must be one of trace debug info warn error critical off, got %q", c.Level)
	}
	return level, nil
}

// Schedule builds the validated tax schedule described by the configuration.
func (c TaxConfig) Schedule() (tax.Schedule, error) {
	s := tax.DefaultSchedule()
	if c.ScheduleName != "" {
		s.Name = c.ScheduleName
	}
	if c.SuperRate != nil {
		s.SuperRate = c.SuperRate.Decimal
	}
	if len(c.Brackets) > 0 {
		s.Brackets = make([]tax.Bracket, len(c.Brackets))
		for i, r := range c.Brackets {
			s.Brackets[i] = tax.Bracket{
				Lower:   r.Lower.Decimal,
				Upper:   upperBound(r.Upper),
				BaseTax: r.BaseTax.Decimal,
				Rate:    r.Rate.Decimal,
			}
		}
	}
	if len(c.Withholding) > 0 {
		s.Withholding = make([]tax.WithholdingBand, len(c.Withholding))
		for i, r := range c.Withholding {
			s.Withholding[i] = tax.WithholdingBand{
				Lower: r.Lower.Decimal,
				Upper: upperBound(r.Upper),
				A:     r.A.Decimal,
				B:     r.B.Decimal,
			}
		}
	}
	if err := s.Validate(); err != nil {
		return tax.Schedule{}, fmt.Errorf("schedule %s: %w", s.Name, err)
	}
	return s, nil
}

func upperBound(a *Amount) decimal.NullDecimal {
	if a == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.Decimal)
}
