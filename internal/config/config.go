package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig     *AppConfig
	DriverConfig  *DriverConfig
	SessionConfig *SessionConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:""`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type DriverConfig struct {
	BinaryPath  string `envconfig:"APP_BINARY_PATH" default:""`
	Headless    bool   `envconfig:"DRIVER_HEADLESS" default:"false"`
	SlowMo      int    `envconfig:"DRIVER_SLOW_MO" default:"0"`
	Timeout     int    `envconfig:"DRIVER_TIMEOUT" default:"30000"`
	UserDataDir string `envconfig:"DRIVER_USER_DATA_DIR" default:""`
}

// SessionConfig carries the empirical tuning knobs of the snapshot and
// resolution pipeline. The defaults mirror observed behavior; none of them
// is load-bearing for correctness.
type SessionConfig struct {
	MaxSnapshotElements int     `envconfig:"SESSION_MAX_SNAPSHOT_ELEMENTS" default:"100"`
	PositionTolerance   float64 `envconfig:"SESSION_POSITION_TOLERANCE_PX" default:"10"`
	ResolveTextLimit    int     `envconfig:"SESSION_RESOLVE_TEXT_LIMIT" default:"30"`
	RenderLabelLimit    int     `envconfig:"SESSION_RENDER_LABEL_LIMIT" default:"50"`
	ExtractTextLimit    int     `envconfig:"SESSION_EXTRACT_TEXT_LIMIT" default:"100"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}
