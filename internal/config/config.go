package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"roadrush/internal/game"
)

const (
	FileName  = "roadrush.cfg.json"
	EnvPrefix = "ROADRUSH"
)

type WindowConfig struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

type AudioConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	Muted   bool `json:"muted" mapstructure:"muted"`
}

// StorageConfig selects the high score store: "sqlite" or "memory".
type StorageConfig struct {
	Type string `json:"type" mapstructure:"type"`
	Path string `json:"path" mapstructure:"path"`
}

// HeadlessConfig runs races without a window, steered by the autopilot.
type HeadlessConfig struct {
	Enabled         bool          `json:"enabled" mapstructure:"enabled"`
	Races           int           `json:"races" mapstructure:"races"`
	AutopilotPeriod time.Duration `json:"autopilotPeriod" mapstructure:"autopilotPeriod"`
	Timeout         time.Duration `json:"timeout" mapstructure:"timeout"`
	Speedup         int           `json:"speedup" mapstructure:"speedup"`
}

type Config struct {
	LogLevel  string `json:"logLevel" mapstructure:"logLevel"`
	LogsDir   string `json:"logsDir" mapstructure:"logsDir"`
	LogToFile bool   `json:"logToFile" mapstructure:"logToFile"`

	Obstacles bool `json:"obstacles" mapstructure:"obstacles"`

	Window   WindowConfig   `json:"window" mapstructure:"window"`
	Audio    AudioConfig    `json:"audio" mapstructure:"audio"`
	Storage  StorageConfig  `json:"storage" mapstructure:"storage"`
	Headless HeadlessConfig `json:"headless" mapstructure:"headless"`
	Tuning   game.Tuning    `json:"tuning" mapstructure:"tuning"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./roadrushlogs")
	viper.SetDefault("logToFile", true)

	viper.SetDefault("obstacles", false)

	viper.SetDefault("window.width", game.WindowWidth)
	viper.SetDefault("window.height", game.WindowHeight)

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.muted", false)

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.path", "./roadrush.db")

	viper.SetDefault("headless.enabled", false)
	viper.SetDefault("headless.races", 1)
	viper.SetDefault("headless.autopilotPeriod", "1s")
	viper.SetDefault("headless.timeout", "5m")
	viper.SetDefault("headless.speedup", 1)

	t := game.DefaultTuning()
	viper.SetDefault("tuning.roadMoveSpeed", t.RoadMoveSpeed)
	viper.SetDefault("tuning.carDriftSpeed", t.CarDriftSpeed)
	viper.SetDefault("tuning.carTurnRate", t.CarTurnRate)
	viper.SetDefault("tuning.shrinkStep", t.ShrinkStep)
	viper.SetDefault("tuning.minScaleX", t.MinScaleX)
	viper.SetDefault("tuning.mainTurnTimeScale", t.MainTurnTimeScale)
	viper.SetDefault("tuning.wiggleTimeScale", t.WiggleTimeScale)
	viper.SetDefault("tuning.mainTurnDivisor", t.MainTurnDivisor)
	viper.SetDefault("tuning.wiggleDivisor", t.WiggleDivisor)
	viper.SetDefault("tuning.carryRoadOffset", t.CarryRoadOffset)
	viper.SetDefault("tuning.engineFrequency", t.EngineFrequency)
	viper.SetDefault("tuning.turningFrequency", t.TurningFrequency)
	viper.SetDefault("tuning.noiseSeed", t.NoiseSeed)
}

// Flags returns the command line flags that override configuration.
// Flag names are the configuration keys.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("roadrush", pflag.ContinueOnError)
	fs.String("config", ".", "directory containing "+FileName)
	fs.String("logLevel", "info", "log level (trace, debug, info, warn, error)")
	fs.Bool("obstacles", false, "place obstacles on the road")
	fs.Bool("audio.muted", false, "start with sound muted")
	fs.String("storage.type", "sqlite", "high score store: sqlite or memory")
	fs.String("storage.path", "./roadrush.db", "sqlite database file")
	fs.Bool("headless.enabled", false, "race without a window using the autopilot")
	fs.Int("headless.races", 1, "races to run in headless mode")
	fs.Int("headless.speedup", 1, "headless game time runs this many times faster than real time")
	fs.Int32("tuning.noiseSeed", 0, "road curve seed; 0 is the classic road")
	return fs
}

// Load sets defaults, reads configDir/roadrush.cfg.json if present and
// applies ROADRUSH_* environment variables. Flags explicitly set in fs
// take precedence over everything else; fs may be nil.
func Load(configDir string, fs *pflag.FlagSet) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if fs != nil {
		var bindErr error
		fs.Visit(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}
			if err := viper.BindPFlag(f.Name, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return bindErr
		}
	}
	return nil
}

// Get decodes the loaded configuration.
func Get() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return Config{}, fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Storage.Type {
	case "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	return c, nil
}

// ConfigDir returns the --config flag value, or "." if unset.
func ConfigDir(fs *pflag.FlagSet) string {
	dir, err := fs.GetString("config")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
