// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName   = "fleetmaster"
	envPrefix = "fleetmaster"

	// keyAnnotation marks a flag whose name differs from the config key it feeds.
	keyAnnotation = "fleetmaster/config-key"
)

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type AuthConfig struct {
	Mode        string   `mapstructure:"mode" yaml:"mode"`
	Token       string   `mapstructure:"token" yaml:"token"`
	Issuer      string   `mapstructure:"issuer" yaml:"issuer"`
	ClientID    string   `mapstructure:"client_id" yaml:"client_id"`
	AuthURL     string   `mapstructure:"auth_url" yaml:"auth_url"`
	TokenURL    string   `mapstructure:"token_url" yaml:"token_url"`
	RedirectURL string   `mapstructure:"redirect_url" yaml:"redirect_url"`
	Scopes      []string `mapstructure:"scopes" yaml:"scopes"`
	DevSecret   string   `mapstructure:"dev_secret" yaml:"dev_secret"`
	DevSubject  string   `mapstructure:"dev_subject" yaml:"dev_subject"`
}

type VehiclesConfig struct {
	PostMutationBehavior string `mapstructure:"post_mutation_behavior" yaml:"post_mutation_behavior"`
	GuardInflight        bool   `mapstructure:"guard_inflight" yaml:"guard_inflight"`
}

type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

type ServerConfig struct {
	Addr      string         `mapstructure:"addr" yaml:"addr"`
	JWTSecret string         `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	Database  DatabaseConfig `mapstructure:"database" yaml:"database"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Config is the full application configuration as stored in fleetmaster.yaml.
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Vehicles VehiclesConfig `mapstructure:"vehicles" yaml:"vehicles"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Language string         `mapstructure:"language" yaml:"language"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// Defaults returns the default value for every config key.
func Defaults() map[string]any {
	return map[string]any{
		"api.base_url":                    "http://localhost:3001",
		"api.timeout":                     30 * time.Second,
		"auth.mode":                       "dev",
		"auth.token":                      "",
		"auth.issuer":                     "",
		"auth.client_id":                  "",
		"auth.auth_url":                   "",
		"auth.token_url":                  "",
		"auth.redirect_url":               "http://127.0.0.1:8085/login/callback",
		"auth.scopes":                     []string{"openid", "profile"},
		"auth.dev_secret":                 "fleetmaster-dev-secret",
		"auth.dev_subject":                "operator",
		"vehicles.post_mutation_behavior": "always_refresh",
		"vehicles.guard_inflight":         false,
		"server.addr":                     ":3001",
		"server.jwt_secret":               "fleetmaster-dev-secret",
		"server.database.type":            "sqlite",
		"server.database.dsn":             "./fleetmaster.db",
		"language":                        "en",
		"log.level":                       "info",
		"log.file":                        "",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Fleetmaster")
		default:
			configDir = "/etc/" + appName
		}
	} else {
		dir, err := UserDir()
		if err != nil {
			return "", err
		}
		configDir = dir
	}

	return filepath.Join(configDir, appName+".yaml"), nil
}

// UserDir is the per-user directory holding the config file, the login
// session and the default log file.
func UserDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, appName), nil
}

// BindFlagKey routes a flag to a config key with a different name, e.g.
// `--addr` to `server.addr`.
func BindFlagKey(flags *pflag.FlagSet, flag, key string) {
	_ = flags.SetAnnotation(flag, keyAnnotation, []string{key})
}

// LoadConfig layers defaults, the config file, environment variables and
// command flags, in increasing precedence, and decodes the result into T.
// A missing or empty config file is reported as viper.ConfigFileNotFoundError
// alongside the decoded defaults.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")

	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = err
	} else if used := v.ConfigFileUsed(); used != "" {
		if st, err := os.Stat(used); err == nil && st.Size() == 0 {
			notFound = viper.ConfigFileNotFoundError{}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if keys, ok := f.Annotations[keyAnnotation]; ok && len(keys) > 0 && bindErr == nil {
				bindErr = v.BindPFlag(keys[0], f)
			}
		})
		if bindErr != nil {
			return c, bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// WriteConfigFile persists c as YAML to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigFileTo(c, path)
}

// WriteConfigFileTo persists c as YAML at path with owner-only permissions.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// The file may contain secrets.
	return os.WriteFile(path, data, 0o600)
}
