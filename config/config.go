// Package config loads server settings from a YAML file via viper.
// Every knob has a default, so a minimal config file is enough to run.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Game     GameConfig     `mapstructure:"game"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type GameConfig struct {
	TrainingBaseExp     int `mapstructure:"training_base_exp"`    // per difficulty step, won rounds only
	BattleVictoryExp    int `mapstructure:"battle_victory_exp"`
	BattleDefeatExp     int `mapstructure:"battle_defeat_exp"`
	BattleStatusPoints  int `mapstructure:"battle_status_points"` // status points per battle victory
	EncounterTTLDays    int `mapstructure:"encounter_ttl_days"`   // prune encounters unseen this long
	RankingRefreshMin   int `mapstructure:"ranking_refresh_min"`
	EncounterPruneHours int `mapstructure:"encounter_prune_hours"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTLH        time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

var defaults = map[string]interface{}{
	"server.port":                8080,
	"server.debug":               false,
	"database.mode":              "sqlite",
	"database.sqlite_path":       "./data/signalquest.db",
	"database.mysql_max_open":    50,
	"database.mysql_max_idle":    10,
	"database.mysql_max_life":    "1h",
	"cache.local_gc_interval":    "30s",
	"game.training_base_exp":     10,
	"game.battle_victory_exp":    25,
	"game.battle_defeat_exp":     5,
	"game.battle_status_points":  3,
	"game.encounter_ttl_days":    30,
	"game.ranking_refresh_min":   10,
	"game.encounter_prune_hours": 6,
	"security.jwt_ttl_h":         "72h",
	"security.rate_limit_rps":    100,
	"security.rate_limit_burst":  200,
}

// Load reads the YAML file at path on top of the defaults above.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
