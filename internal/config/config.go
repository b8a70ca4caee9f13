// Package config decodes the relcheck configuration from viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Weights are the points awarded by each pipeline check
type Weights struct {
	InitialCount     float64 `mapstructure:"initial_count"`
	UserSelected     float64 `mapstructure:"user_selected"`
	OwnerRelation    float64 `mapstructure:"owner_relation"`
	CategoryRelation float64 `mapstructure:"category_relation"`
	FetchRelations   float64 `mapstructure:"fetch_relations"`
	ByUser           float64 `mapstructure:"by_user"`
	ByCategory       float64 `mapstructure:"by_category"`
	Update           float64 `mapstructure:"update"`
	CountIncreased   float64 `mapstructure:"count_increased"`
	Cleanup          float64 `mapstructure:"cleanup"`
}

// namedWeight is one weight with its configuration key
type namedWeight struct {
	key   string
	value float64
}

func (w Weights) named() []namedWeight {
	return []namedWeight{
		{"initial_count", w.InitialCount},
		{"user_selected", w.UserSelected},
		{"owner_relation", w.OwnerRelation},
		{"category_relation", w.CategoryRelation},
		{"fetch_relations", w.FetchRelations},
		{"by_user", w.ByUser},
		{"by_category", w.ByCategory},
		{"update", w.Update},
		{"count_increased", w.CountIncreased},
		{"cleanup", w.Cleanup},
	}
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	var sum float64
	for _, nw := range w.named() {
		sum += nw.value
	}
	return sum
}

// validate rejects negative weights. The ledger drops non-positive awards,
// so Sum is only an upper bound on the score when every weight is >= 0.
func (w Weights) validate() error {
	for _, nw := range w.named() {
		if nw.value < 0 {
			return fmt.Errorf("weights.%s must not be negative, got %v", nw.key, nw.value)
		}
	}
	return nil
}

// Rules are the response heuristics used to decide whether a relation is present
type Rules struct {
	OwnerFields    []string `mapstructure:"owner_fields"`
	CategoryFields []string `mapstructure:"category_fields"`
	UpdatedName    string   `mapstructure:"updated_name"`
}

// Setup controls how the pipeline obtains its user and category
type Setup struct {
	CategoryID     int64 `mapstructure:"category_id"`
	CreateFixtures bool  `mapstructure:"create_fixtures"`
	VerifyCategory bool  `mapstructure:"verify_category"` // confirm category_id is listed by the service
}

// Legacy holds the ids sent by the legacy categoryId check
type Legacy struct {
	UserID     int64 `mapstructure:"user_id"`
	CategoryID int64 `mapstructure:"category_id"`
}

// History configures the optional Redis run history
type History struct {
	RedisAddr string `mapstructure:"redis_addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Prefix    string `mapstructure:"prefix"`
	Keep      int    `mapstructure:"keep"`
}

// Config is the full relcheck configuration
type Config struct {
	Server   string        `mapstructure:"server"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Rate     float64       `mapstructure:"rate"`
	MaxScore float64       `mapstructure:"max_score"`
	Setup    Setup         `mapstructure:"setup"`
	Rules    Rules         `mapstructure:"rules"`
	Weights  Weights       `mapstructure:"weights"`
	Legacy   Legacy        `mapstructure:"legacy"`
	History  History       `mapstructure:"history"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server", "http://localhost:8080")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("rate", 0.0)
	v.SetDefault("max_score", 10.0)

	v.SetDefault("setup.category_id", 1)
	v.SetDefault("setup.create_fixtures", false)
	v.SetDefault("setup.verify_category", false)

	v.SetDefault("rules.owner_fields", []string{"ownerName", "owner", "user"})
	v.SetDefault("rules.category_fields", []string{"categoryName", "category"})
	v.SetDefault("rules.updated_name", "Laptop Test Relations - Updated")

	v.SetDefault("weights.initial_count", 0.5)
	v.SetDefault("weights.user_selected", 0.5)
	v.SetDefault("weights.owner_relation", 1.0)
	v.SetDefault("weights.category_relation", 1.0)
	v.SetDefault("weights.fetch_relations", 1.0)
	v.SetDefault("weights.by_user", 1.5)
	v.SetDefault("weights.by_category", 1.5)
	v.SetDefault("weights.update", 1.5)
	v.SetDefault("weights.count_increased", 1.0)
	v.SetDefault("weights.cleanup", 0.5)

	v.SetDefault("legacy.user_id", 1)
	v.SetDefault("legacy.category_id", 1)

	v.SetDefault("history.redis_addr", "")
	v.SetDefault("history.password", "")
	v.SetDefault("history.db", 0)
	v.SetDefault("history.prefix", "relcheck")
	v.SetDefault("history.keep", 50)
}

// EnvPrefix is the prefix of the environment variables read by BindEnv
const EnvPrefix = "RELCHECK"

// BindEnv makes every key readable from a RELCHECK_ environment variable,
// with dots replaced by underscores (setup.category_id is
// RELCHECK_SETUP_CATEGORY_ID).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Default returns the configuration with every default applied
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Server = strings.TrimRight(cfg.Server, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the runner cannot work with
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.Server, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server URL %q: scheme must be http or https", c.Server)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %v", c.Rate)
	}
	if c.MaxScore <= 0 {
		return fmt.Errorf("max_score must be positive, got %v", c.MaxScore)
	}
	if err := c.Weights.validate(); err != nil {
		return err
	}
	if sum := c.Weights.Sum(); sum > c.MaxScore {
		return fmt.Errorf("weights sum to %.2f which exceeds max_score %.2f", sum, c.MaxScore)
	}
	if len(c.Rules.OwnerFields) == 0 || len(c.Rules.CategoryFields) == 0 {
		return fmt.Errorf("rules.owner_fields and rules.category_fields must not be empty")
	}
	if c.Rules.UpdatedName == "" {
		return fmt.Errorf("rules.updated_name must not be empty")
	}
	return nil
}
