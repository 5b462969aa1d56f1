// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ik5/audchan"
)

// EnvPrefix prefixes every environment override, e.g. AUDCHAN_SE_CHANNELS.
const EnvPrefix = "AUDCHAN"

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// Listen is the address of the /metrics endpoint. Empty disables it.
	Listen string `mapstructure:"listen"`
}

// Config is the merged result of defaults, config file, environment and
// flags, in increasing precedence.
type Config struct {
	Assets     string        `mapstructure:"assets"`
	SEChannels int           `mapstructure:"se_channels"`
	Fade       time.Duration `mapstructure:"fade"`
	LoopBGM    bool          `mapstructure:"loop_bgm"`
	SampleRate int           `mapstructure:"sample_rate"`
	Headless   bool          `mapstructure:"headless"`
	Watch      bool          `mapstructure:"watch"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	// Prefs selects the preference store: empty for memory, a .yaml file,
	// or sqlite:<dsn> / mysql:<dsn>.
	Prefs   string        `mapstructure:"prefs"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("assets", ".")
	v.SetDefault("se_channels", audchan.DefaultSEChannelCount)
	v.SetDefault("fade", audchan.DefaultFadeDuration)
	v.SetDefault("loop_bgm", true)
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("headless", false)
	v.SetDefault("watch", false)
	v.SetDefault("cache_ttl", time.Duration(0))
	v.SetDefault("prefs", "")
	v.SetDefault("metrics.listen", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// flagKeys maps config keys to their command line flag.
var flagKeys = map[string]string{
	"assets":         "assets",
	"se_channels":    "se-channels",
	"fade":           "fade",
	"loop_bgm":       "loop-bgm",
	"sample_rate":    "sample-rate",
	"headless":       "headless",
	"watch":          "watch",
	"cache_ttl":      "cache-ttl",
	"prefs":          "prefs",
	"metrics.listen": "metrics-listen",
	"log.level":      "log-level",
	"log.format":     "log-format",
}

func setupFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to the config file (default ./audchan.yaml or ~/.config/audchan/audchan.yaml)")
	flags.StringP("assets", "a", ".", "Directory holding the audio assets")
	flags.Int("se-channels", audchan.DefaultSEChannelCount, "Number of sound effect voices")
	flags.Duration("fade", audchan.DefaultFadeDuration, "BGM crossfade duration")
	flags.Bool("loop-bgm", true, "Loop music tracks")
	flags.Int("sample-rate", 44100, "Output sample rate")
	flags.Bool("headless", false, "Play through the silent null backend")
	flags.Bool("watch", false, "Reload assets when they change on disk")
	flags.Duration("cache-ttl", 0, "Evict decoded clips after this long (0 keeps them)")
	flags.String("prefs", "", "Preference store: file.yaml, sqlite:<dsn> or mysql:<dsn>")
	flags.String("metrics-listen", "", "Serve Prometheus metrics on this address")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text, json")
}

// LoadConfig resolves the configuration for flags.
func LoadConfig(v *viper.Viper, flags *pflag.FlagSet) (Config, error) {
	setDefaults(v)

	for key, name := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("error binding flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, flags); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	path := ""
	if f := flags.Lookup("config"); f != nil {
		path = f.Value.String()
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("audchan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "audchan"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Validate rejects values the manager cannot run with.
func (c Config) Validate() error {
	if c.SEChannels < 1 {
		return fmt.Errorf("se_channels must be at least 1, got %d", c.SEChannels)
	}
	if c.Fade < 0 {
		return fmt.Errorf("fade must not be negative, got %s", c.Fade)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Setting converts the config to manager settings.
func (c Config) Setting() audchan.Setting {
	s := audchan.DefaultSetting()
	s.SEChannelCount = c.SEChannels
	s.FadeDuration = c.Fade
	s.LoopBGM = c.LoopBGM
	return s
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// NewLogger builds the process logger described by c.
func NewLogger(c LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch c.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.Format)
}
