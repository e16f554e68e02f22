// Copyright 2024 steamrec Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the recommender service.
type Config struct {
	Steam     SteamConfig     `mapstructure:"steam"`
	Roster    RosterConfig    `mapstructure:"roster"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	HTTP      HTTPConfig      `mapstructure:"http"`
}

// SteamConfig is the configuration for the Steam Web API client.
type SteamConfig struct {
	APIKey        string        `mapstructure:"api_key" validate:"required"`
	Endpoint      string        `mapstructure:"endpoint" validate:"url"`
	FetchInterval time.Duration `mapstructure:"fetch_interval" validate:"gt=0"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries    uint          `mapstructure:"max_retries" validate:"gt=0"`
}

// RosterConfig is the configuration for the roster store. Store is either a
// file path or a redis:// address.
type RosterConfig struct {
	Store string `mapstructure:"store" validate:"required"`
}

// CacheConfig is the configuration for the peer group snapshot cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// RecommendConfig is the configuration for the recommendation pipeline.
type RecommendConfig struct {
	DefaultN int `mapstructure:"default_n" validate:"gt=0"`
}

// HTTPConfig is the configuration for the REST server.
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=0,lte=65535"`
}

func setDefault() {
	viper.SetDefault("steam.api_key", "")
	viper.SetDefault("steam.endpoint", "https://api.steampowered.com")
	viper.SetDefault("steam.fetch_interval", 5*time.Second)
	viper.SetDefault("steam.timeout", 10*time.Second)
	viper.SetDefault("steam.max_retries", 3)
	viper.SetDefault("roster.store", "steamids.txt")
	viper.SetDefault("cache.ttl", 7*24*time.Hour)
	viper.SetDefault("recommend.default_n", 5)
	viper.SetDefault("http.host", "0.0.0.0")
	viper.SetDefault("http.port", 8087)
}

// GetDefaultConfig returns a default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Steam: SteamConfig{
			Endpoint:      "https://api.steampowered.com",
			FetchInterval: 5 * time.Second,
			Timeout:       10 * time.Second,
			MaxRetries:    3,
		},
		Roster: RosterConfig{
			Store: "steamids.txt",
		},
		Cache: CacheConfig{
			TTL: 7 * 24 * time.Hour,
		},
		Recommend: RecommendConfig{
			DefaultN: 5,
		},
		HTTP: HTTPConfig{
			Host: "0.0.0.0",
			Port: 8087,
		},
	}
}

// LoadConfig loads the configuration from a TOML file. Every key can be
// overridden by a STEAMREC_* environment variable.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("steamrec")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks the configuration against its constraints.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Trace(err)
	}
	return nil
}
