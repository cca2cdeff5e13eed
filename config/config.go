package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug          = "debug"
	ConfigThreads        = "threads"
	ConfigTTMegabytes    = "tt-megabytes"
	ConfigTimeLimitMs    = "time-limit-ms"
	ConfigBookPath       = "book-path"
	ConfigEvalParamsPath = "eval-params-path"
	ConfigServerAddr     = "server-addr"
	ConfigPlayerCode     = "player-code"
	ConfigPonder         = "ponder"
	ConfigCPUProfile     = "cpu-profile"
	ConfigMemProfile     = "mem-profile"
	ConfigDataPath       = "data-path"
	ConfigFile           = "config-file"
)

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a configuration holding only the built-in defaults.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigThreads, 1)
	c.SetDefault(ConfigTTMegabytes, 256)
	c.SetDefault(ConfigTimeLimitMs, 750)
	c.SetDefault(ConfigBookPath, "")
	c.SetDefault(ConfigEvalParamsPath, "")
	// An empty address means the protocol runs over stdin and stdout.
	c.SetDefault(ConfigServerAddr, "")
	c.SetDefault(ConfigPlayerCode, "KZ")
	c.SetDefault(ConfigPonder, false)
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigMemProfile, "")
	c.SetDefault(ConfigDataPath, "./data")
}

// Load layers, from lowest to highest priority: defaults, an optional YAML
// config file, TRAX_* environment variables and command-line flags.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	c.setDefaults()

	fs := pflag.NewFlagSet("trax", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigThreads, 1, "number of search threads")
	fs.Int(ConfigTTMegabytes, 256, "transposition table size in megabytes")
	fs.Int(ConfigTimeLimitMs, 750, "time limit per search in milliseconds")
	fs.String(ConfigBookPath, "", "opening book file (yaml)")
	fs.String(ConfigEvalParamsPath, "", "evaluation weight file (yaml)")
	fs.String(ConfigServerAddr, "", "game server address; empty for stdin/stdout")
	fs.String(ConfigPlayerCode, "KZ", "code sent to the game server on -T")
	fs.Bool(ConfigPonder, false, "think on the opponent's time")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	fs.String(ConfigDataPath, "./data", "directory holding books and weight files")
	fs.String(ConfigFile, "", "yaml config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("trax")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(ConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				log.Warn().Str("file", f).Msg("config-file-not-found")
			} else {
				return fmt.Errorf("reading config file: %w", err)
			}
		}
	}
	return nil
}

// Args returns the command-line arguments left after the flags.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes relative data paths relative to basepath, the
// directory of the executable, so the binary can run from anywhere.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigDataPath, ConfigBookPath, ConfigEvalParamsPath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

// DataFile resolves name against the data path unless it is already a
// usable path.
func (c *Config) DataFile(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(c.GetString(ConfigDataPath), name)
}
