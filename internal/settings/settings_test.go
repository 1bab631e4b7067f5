package settings_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.viam.com/test"

	"github.com/soar/padnav/internal/settings"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	settings.SetDefaults(v)

	s := settings.Load(v)
	test.That(t, s.Deadzone, test.ShouldEqual, 0.15)
	test.That(t, s.RepeatDelay, test.ShouldEqual, 400*time.Millisecond)
	test.That(t, s.RepeatRate, test.ShouldEqual, 100*time.Millisecond)
	test.That(t, s.Addr, test.ShouldEqual, ":8080")
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	settings.SetDefaults(v)
	v.Set(settings.KeyDeadzone, 0.25)
	v.Set(settings.KeyRepeatDelayMs, 250)
	v.Set(settings.KeyRepeatRateMs, 50)
	v.Set(settings.KeyAddr, ":9000")

	s := settings.Load(v)
	test.That(t, s.Deadzone, test.ShouldEqual, 0.25)
	test.That(t, s.RepeatDelay, test.ShouldEqual, 250*time.Millisecond)
	test.That(t, s.RepeatRate, test.ShouldEqual, 50*time.Millisecond)
	test.That(t, s.Addr, test.ShouldEqual, ":9000")
}

func TestLoadClampsInvalidValues(t *testing.T) {
	v := viper.New()
	settings.SetDefaults(v)
	v.Set(settings.KeyDeadzone, 0.9)
	v.Set(settings.KeyRepeatDelayMs, -10)
	v.Set(settings.KeyRepeatRateMs, 0)
	v.Set(settings.KeyAddr, "")

	s := settings.Load(v)
	test.That(t, s.Deadzone, test.ShouldEqual, 0.5)
	test.That(t, s.RepeatDelay, test.ShouldEqual, 400*time.Millisecond)
	test.That(t, s.RepeatRate, test.ShouldEqual, 100*time.Millisecond)
	test.That(t, s.Addr, test.ShouldEqual, ":8080")

	v.Set(settings.KeyDeadzone, -0.2)
	test.That(t, settings.Load(v).Deadzone, test.ShouldEqual, 0.0)
}
