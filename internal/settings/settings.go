// Package settings loads and watches the user-facing engine configuration:
// analog deadzone, navigation repeat timing, and the inspector address.
package settings

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Viper keys. A config file is optional; defaults apply when absent.
const (
	KeyDeadzone      = "input.deadzone"
	KeyRepeatDelayMs = "input.repeat_delay_ms"
	KeyRepeatRateMs  = "input.repeat_rate_ms"
	KeyAddr          = "server.addr"
)

const (
	DefaultDeadzone      = 0.15
	DefaultRepeatDelayMs = 400
	DefaultRepeatRateMs  = 100
	DefaultAddr          = ":8080"

	maxDeadzone = 0.5
)

// Settings is the resolved configuration snapshot.
type Settings struct {
	Deadzone    float64
	RepeatDelay time.Duration
	RepeatRate  time.Duration
	Addr        string
}

// SetDefaults registers defaults on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDeadzone, DefaultDeadzone)
	v.SetDefault(KeyRepeatDelayMs, DefaultRepeatDelayMs)
	v.SetDefault(KeyRepeatRateMs, DefaultRepeatRateMs)
	v.SetDefault(KeyAddr, DefaultAddr)
}

// Load resolves the current settings, clamping values the engine cannot
// accept rather than failing.
func Load(v *viper.Viper) Settings {
	s := Settings{
		Deadzone:    v.GetFloat64(KeyDeadzone),
		RepeatDelay: time.Duration(v.GetInt(KeyRepeatDelayMs)) * time.Millisecond,
		RepeatRate:  time.Duration(v.GetInt(KeyRepeatRateMs)) * time.Millisecond,
		Addr:        v.GetString(KeyAddr),
	}
	if s.Deadzone < 0 {
		s.Deadzone = 0
	}
	if s.Deadzone > maxDeadzone {
		s.Deadzone = maxDeadzone
	}
	if s.RepeatDelay <= 0 {
		s.RepeatDelay = DefaultRepeatDelayMs * time.Millisecond
	}
	if s.RepeatRate <= 0 {
		s.RepeatRate = DefaultRepeatRateMs * time.Millisecond
	}
	if s.Addr == "" {
		s.Addr = DefaultAddr
	}
	return s
}

// Watch re-resolves settings whenever the config file changes and hands the
// result to onChange, so a changed deadzone reaches the running service
// without a restart. No-op when no config file is in use.
func Watch(v *viper.Viper, logger *zap.SugaredLogger, onChange func(Settings)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(fsnotify.Event) {
		s := Load(v)
		logger.Infof("Settings reloaded: deadzone=%.2f repeat=%s/%s",
			s.Deadzone, s.RepeatDelay, s.RepeatRate)
		onChange(s)
	})
	v.WatchConfig()
}
