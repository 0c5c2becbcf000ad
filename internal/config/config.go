// Package config loads the keyinfo command configuration with viper.
package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	keyinfo "github.com/riverfjs/keyinfo-go"
)

// Config holds the command configuration
type Config struct {
	Dir          string        `mapstructure:"dir"`
	Format       string        `mapstructure:"format"`
	Debug        bool          `mapstructure:"debug"`
	RootID       string        `mapstructure:"root_id"`
	LockDuration time.Duration `mapstructure:"lock_duration"`
	ColorTitle   string        `mapstructure:"color_title"`
	ColorCursor  string        `mapstructure:"color_cursor"`
	ColorDim     string        `mapstructure:"color_dim"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("dir", ".")
	viper.SetDefault("format", "text")
	viper.SetDefault("debug", false)
	viper.SetDefault("root_id", "root")
	viper.SetDefault("lock_duration", keyinfo.DefaultLockDuration)
	viper.SetDefault("color_title", "36")   // Cyan
	viper.SetDefault("color_cursor", "212") // Pink
	viper.SetDefault("color_dim", "241")    // Gray

	viper.SetConfigName("keyinfo")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "keyinfo"))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("KEYINFO")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults and env still apply
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// Engine returns the library configuration derived from c. Debug logs go to
// logOut; a nil logOut discards them.
func (c Config) Engine(logOut io.Writer) *keyinfo.Config {
	cfg := keyinfo.DefaultConfig()
	out := *cfg
	out.Debug = c.Debug
	if c.RootID != "" {
		out.RootID = c.RootID
	}
	if c.LockDuration > 0 {
		out.LockDuration = c.LockDuration
	}
	if c.Debug && logOut != nil {
		out.Logger = keyinfo.NewLogger(logOut, true)
	}
	return &out
}

// GetDir returns the document directory with tilde expansion
func GetDir() string {
	return expandTilde(viper.GetString("dir"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
