package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomo/internal/config"
	"github.com/sadopc/pomo/internal/logging"
	"github.com/sadopc/pomo/internal/notify"
	"github.com/sadopc/pomo/internal/platform"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
	"github.com/sadopc/pomo/internal/tracker"
	"github.com/sadopc/pomo/internal/tui"
)

const appName = "pomo"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defaultConfig, err := config.DefaultPath()
	if err != nil {
		return err
	}

	configPath := flag.String("config", defaultConfig, "path to config.yaml")
	dbFlag := flag.String("db", "", "path to the SQLite database (overrides config)")
	headless := flag.Bool("headless", false, "run the timer without the terminal UI")
	modeFlag := flag.String("mode", "focus", "mode to start in with -headless (focus, short_break, long_break)")
	initConfig := flag.Bool("init-config", false, "write the effective config to -config and exit")
	flag.Parse()

	startMode, err := timer.ParseMode(*modeFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *initConfig {
		return writeConfig(os.Stdout, *configPath, cfg)
	}

	logger, closeLog, err := openLogger(cfg.Log, *headless)
	if err != nil {
		return err
	}
	defer closeLog()

	dbPath := cfg.Database.Path
	if *dbFlag != "" {
		dbPath = *dbFlag
	}
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return err
		}
	}

	lock, err := platform.AcquireLock(dbPath)
	if err != nil {
		return err
	}
	defer lock.Release()
	logger.Debug("database lock acquired", "db", dbPath, "addr", lock.Addr())

	s, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	timerCfg, err := s.LoadTimerConfig()
	if err != nil {
		logger.Error("stored timer settings are invalid, using defaults", "error", err)
		timerCfg = timer.DefaultConfig()
	}

	policy, _ := cfg.ReconfigurePolicy()
	ctrl, err := timer.New(timerCfg,
		timer.WithLogger(logger),
		timer.WithNotifier(buildNotifier(cfg.Notifications, s, logger)),
		timer.WithReconfigurePolicy(policy),
	)
	if err != nil {
		return err
	}

	logger.Info("starting", "db", dbPath, "headless", *headless, "reconfigure", policy.String())

	if *headless {
		tracker.New(s, logger).Attach(ctrl)
		return runHeadless(ctrl, startMode, logger)
	}

	results, handler := tui.ResultChannel(16)
	tracker.New(s, logger, tracker.WithResultHandler(handler)).Attach(ctrl)

	p := tea.NewProgram(tui.NewApp(s, ctrl, results), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// openLogger writes JSON logs to the configured file. Headless runs without
// a log file log to stderr instead, since no UI owns the terminal.
func openLogger(c config.Log, headless bool) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}

	path := c.File
	if path == "" && headless {
		return logging.New(os.Stderr, level), func() {}, nil
	}
	if path == "" {
		if path, err = config.DefaultLogPath(); err != nil {
			return nil, nil, err
		}
	}

	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(f, level), func() { f.Close() }, nil
}

func buildNotifier(c config.Notifications, s *store.Store, logger *slog.Logger) timer.Notifier {
	var bell, desktop timer.Notifier
	if c.Bell {
		bell = notify.NewBell(os.Stderr)
	}
	if c.Desktop {
		desktop = notify.NewDesktop(appName)
	}
	return notify.FromSettings(s, bell, desktop, logger)
}

// writeConfig saves cfg to path so it can be edited by hand.
func writeConfig(w io.Writer, path string, cfg config.Config) error {
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", path)
	return nil
}

func runHeadless(ctrl *timer.Controller, mode timer.Mode, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl.OnSessionCompleted(func(ev timer.Event) {
		printEvent(os.Stdout, ev, ctrl.Config())
	})

	sched := timer.NewTickerScheduler(time.Second)
	unbind := timer.Bind(ctrl, sched)
	defer unbind()

	if mode != ctrl.Mode() {
		if err := ctrl.SwitchMode(mode); err != nil {
			return err
		}
	}
	ctrl.Start()
	st := ctrl.Snapshot()
	fmt.Fprintf(os.Stdout, "%s started: %d:%02d\n", st.Mode.Label(), st.RemainingSeconds/60, st.RemainingSeconds%60)

	<-ctx.Done()
	ctrl.Pause()
	logger.Info("stopped", "remaining", ctrl.Snapshot().RemainingSeconds)
	return nil
}

func printEvent(w io.Writer, ev timer.Event, cfg timer.Config) {
	secs := cfg.Seconds(ev.NextMode)
	fmt.Fprintf(w, "%s complete (#%d). Next: %s %d:%02d\n",
		ev.CompletedMode.Label(), ev.CompletedFocusSessions, ev.NextMode.Label(), secs/60, secs%60)
}
