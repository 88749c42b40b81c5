package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"attrsync/internal/flags"
)

const (
	envPrefix      = "ATTRSYNC"
	configFileName = ".attrsync"
	configFileType = "yaml"
)

// ApplyDefaults layers configuration-file and environment defaults onto cfg.
//
// Precedence (highest first):
//  1. explicit CLI flags (any flag the user changed is left untouched)
//  2. ATTRSYNC_* environment variables
//  3. .attrsync.yaml in the current directory or the user's home directory
//  4. built-in defaults from New()
//
// configPath, when non-empty, names an explicit config file and makes a read
// failure fatal; otherwise a missing config file is fine.
func ApplyDefaults(flagSet *pflag.FlagSet, cfg *Config, configPath string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, key := range []string{
		flags.FlagUser, flags.FlagTemplate, flags.FlagMarker, flags.FlagMessage,
		flags.FlagWorkDir, flags.FlagPause, flags.FlagToken, flags.FlagTimeout,
	} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env for %q: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config file: %w", err)
			}
		}
	}

	flagChanged := func(name string) bool {
		return flagSet != nil && flagSet.Changed(name)
	}
	setString := func(key string, target *string) {
		if !flagChanged(key) && v.IsSet(key) {
			*target = v.GetString(key)
		}
	}
	setDuration := func(key string, target *time.Duration) error {
		if flagChanged(key) || !v.IsSet(key) {
			return nil
		}
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		*target = d
		return nil
	}

	setString(flags.FlagUser, &cfg.Targeting.User)
	setString(flags.FlagTemplate, &cfg.Template.Source)
	setString(flags.FlagMarker, &cfg.Template.Marker)
	setString(flags.FlagMessage, &cfg.Template.Message)
	setString(flags.FlagWorkDir, &cfg.Run.WorkDir)
	setString(flags.FlagToken, &cfg.Runtime.Token)
	if err := setDuration(flags.FlagPause, &cfg.Run.Pause); err != nil {
		return err
	}
	if err := setDuration(flags.FlagTimeout, &cfg.Runtime.Timeout); err != nil {
		return err
	}

	return nil
}
