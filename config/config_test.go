package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigThreads), 1)
	is.Equal(cfg.GetInt(ConfigTimeLimitMs), 750)
	is.Equal(cfg.GetString(ConfigPlayerCode), "KZ")
	is.True(!cfg.GetBool(ConfigPonder))
}

func TestLoadFlagsAndEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("TRAX_TT_MEGABYTES", "64")
	cfg := &Config{}
	err := cfg.Load([]string{"--threads=4", "--ponder", "protocol"})
	is.NoErr(err)
	is.Equal(cfg.Args(), []string{"protocol"})
	is.Equal(cfg.GetInt(ConfigThreads), 4)
	is.True(cfg.GetBool(ConfigPonder))
	is.Equal(cfg.GetInt(ConfigTTMegabytes), 64)
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	f := filepath.Join(dir, "trax.yaml")
	is.NoErr(os.WriteFile(f, []byte("time-limit-ms: 2000\nplayer-code: AB\n"), 0644))

	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config-file=" + f, "--player-code=CD"}))
	is.Equal(cfg.GetInt(ConfigTimeLimitMs), 2000)
	// flags win over the file
	is.Equal(cfg.GetString(ConfigPlayerCode), "CD")
}

func TestBadFlag(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.True(cfg.Load([]string{"--no-such-flag"}) != nil)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigBookPath, "books/main.yaml")
	cfg.Set(ConfigEvalParamsPath, "/abs/weights.yaml")
	cfg.AdjustRelativePaths("/opt/trax")
	is.Equal(cfg.GetString(ConfigDataPath), "/opt/trax/data")
	is.Equal(cfg.GetString(ConfigBookPath), "/opt/trax/books/main.yaml")
	is.Equal(cfg.GetString(ConfigEvalParamsPath), "/abs/weights.yaml")
	is.Equal(cfg.DataFile("weights.yaml"), "/opt/trax/data/weights.yaml")
}
