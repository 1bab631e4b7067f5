// The inspector polls connected controllers over SDL3, runs the navigation
// coordinator against them, and serves a live state view over a local
// websocket page.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/soar/padnav/internal/console"
	"github.com/soar/padnav/internal/gamepad"
	"github.com/soar/padnav/internal/host/sdl"
	"github.com/soar/padnav/internal/hub"
	"github.com/soar/padnav/internal/nav"
	"github.com/soar/padnav/internal/server"
	"github.com/soar/padnav/internal/settings"
	"github.com/soar/padnav/internal/tray"
)

// os.Interrupt covers Ctrl+C on both Windows and Unix; SIGTERM matters for
// service managers.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	_ = pflag.String("addr", settings.DefaultAddr, "inspector listen address")
	configPath := pflag.String("config", "", "optional config file (toml/yaml/json)")
	verbose := pflag.BoolP("verbose", "v", false, "debug logging")
	pflag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	v := viper.New()
	settings.SetDefaults(v)
	v.BindPFlag(settings.KeyAddr, pflag.Lookup("addr"))
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			logger.Fatalf("Failed to read config %s: %v", *configPath, err)
		}
	}
	cfg := settings.Load(v)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	// Ctrl+C via the Windows console handler; SDL init replaces any handler
	// installed before it, so the returned function is re-run on the first
	// tick. See console.SetupHandler.
	ctrlCh := make(chan struct{})
	reregisterCtrl := console.SetupHandler(ctrlCh)

	provider := sdl.NewProvider(logger)
	svc := gamepad.NewService(provider, logger)
	svc.SetDeadzone(cfg.Deadzone)

	h := hub.NewHub(logger)
	go h.Run()

	broadcaster := hub.NewBroadcaster(h, logger)
	go broadcaster.Run()

	svc.Subscribe(broadcaster.PublishState)
	svc.OnConnection(broadcaster.PublishConnection)
	svc.OnConnection(func(c *gamepad.Controller, connected bool) {
		if connected {
			logger.Infof("Controller %d connected: %s (%s)", c.Index, c.DisplayName, c.Type)
		} else {
			logger.Infof("Controller %d disconnected: %s", c.Index, c.DisplayName)
		}
	})

	coord := nav.New(svc, nav.Config{
		Enabled:     true,
		Callbacks:   navCallbacks(broadcaster, logger),
		RepeatDelay: cfg.RepeatDelay,
		RepeatRate:  cfg.RepeatRate,
	})

	// Config reloads arrive on the fsnotify goroutine; hand them to the tick
	// thread instead of touching the engine from here.
	settingsCh := make(chan settings.Settings, 1)
	settings.Watch(v, logger, func(s settings.Settings) {
		select {
		case settingsCh <- s:
		default:
		}
	})

	srv := server.New(h, broadcaster, logger, cfg.Addr)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	url := "http://localhost" + normalizeAddr(cfg.Addr)
	logger.Infof("Inspector running at %s", url)

	trayShutdown := make(chan struct{})
	if runtime.GOOS == "windows" {
		go func() {
			t := tray.New(logger, url, func() {
				close(trayShutdown)
			})
			t.Run(tray.GetIcon())
		}()
	} else {
		logger.Info("Press Ctrl+C to exit")
	}

	var reregisterOnce sync.Once
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		err := provider.Run(ctx, func() {
			reregisterOnce.Do(reregisterCtrl)
			select {
			case s := <-settingsCh:
				svc.SetDeadzone(s.Deadzone)
				coord.SetRepeat(s.RepeatDelay, s.RepeatRate)
			default:
			}
			svc.Poll()
			coord.Tick()
		})
		if err != nil {
			logger.Errorf("Controller polling stopped: %v", err)
		}
	}()

	select {
	case <-sigCh:
		logger.Info("Shutting down...")
	case <-ctrlCh:
		logger.Info("Shutting down...")
	case <-trayShutdown:
		logger.Info("Shutdown requested from tray")
	case err := <-serverErrCh:
		logger.Errorf("HTTP server error: %v", err)
	case <-pollDone:
		logger.Error("Controller polling exited unexpectedly")
	}
	cancel()
	<-pollDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	}

	logger.Info("Inspector stopped")
}

func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return l.Sugar()
}

// navCallbacks forwards every coordinator event to the websocket feed and
// the log, so the inspector page doubles as a navigation debugger.
func navCallbacks(b *hub.Broadcaster, logger *zap.SugaredLogger) nav.Callbacks {
	event := func(name string) func() {
		return func() {
			logger.Debugf("Nav event: %s", name)
			b.PublishNav(name, "")
		}
	}
	return nav.Callbacks{
		OnNavigate: func(d gamepad.Direction) {
			logger.Debugf("Nav event: navigate %s", d)
			b.PublishNav("navigate", string(d))
		},
		OnConfirm:     event("confirm"),
		OnBack:        event("back"),
		OnOption1:     event("option1"),
		OnOption2:     event("option2"),
		OnLeftBumper:  event("leftBumper"),
		OnRightBumper: event("rightBumper"),
		OnSelect:      event("select"),
		OnStart:       event("start"),
	}
}

// normalizeAddr turns a listen address like ":8080" into a host:port suffix
// usable in a localhost URL.
func normalizeAddr(addr string) string {
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[i:]
	}
	return addr
}
