package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"maglev-tracker/internal/calib"
	"maglev-tracker/internal/capture"
	"maglev-tracker/internal/config"
	"maglev-tracker/internal/link"
	"maglev-tracker/internal/tracker"
	"maglev-tracker/internal/vision"
	"maglev-tracker/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const appID = "io.github.maglev-tracker"

// loadConfig layers defaults, preferences, the env file, the environment and
// the command's flags.
func loadConfig(cmd *cobra.Command) (config.Config, *config.Prefs, error) {
	prefsPath, _ := cmd.Flags().GetString("prefs")
	envFile, _ := cmd.Flags().GetString("env-file")

	prefs, err := config.LoadPrefs(prefsPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(prefs, envFile)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return cfg, nil, err
	}
	return cfg, prefs, nil
}

// openTransmitter opens the serial link, or a dry run when no port is set.
func openTransmitter(cfg config.Config, logger hclog.Logger) (link.Transmitter, func() error, error) {
	if cfg.Port == "" {
		logger.Warn("no serial port configured, positions will only be logged")
		return link.DryRun{Logger: logger}, func() error { return nil }, nil
	}
	port, err := link.Open(cfg.Port, cfg.Baud)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("serial port open", "port", cfg.Port, "baud", cfg.Baud, "write_timeout", cfg.WriteTimeout)
	return link.New(port, cfg.WriteTimeout, logger), port.Close, nil
}

// newMachine creates the calibration machine, tracking the preset object
// colour straight away when one is configured.
func newMachine(cfg config.Config, logger hclog.Logger) (*calib.Machine, error) {
	machine := calib.NewMachine(cfg.SampleRadius)
	col, ok, err := cfg.ObjectColor()
	if err != nil {
		return nil, err
	}
	if ok {
		machine.SetObjectColor(calib.Pick{Color: col})
		logger.Info("using preset object color", "color", col)
	}
	return machine, nil
}

func runTracker(cmd *cobra.Command, args []string) error {
	cfg, prefs, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())

	strategy, err := vision.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	cam, err := capture.OpenCamera(cfg.Camera, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer cam.Close()

	tx, closeTx, err := openTransmitter(cfg, logger.Named("link"))
	if err != nil {
		return err
	}
	defer closeTx()

	seg, err := vision.NewSegmenter(strategy)
	if err != nil {
		return err
	}
	defer seg.Close()

	detector := vision.NewBlobDetector()
	defer detector.Close()

	queue := calib.NewQueue(cfg.QueueSize)
	tol := calib.NewTolerance(cfg.Tolerance)
	machine, err := newMachine(cfg, logger)
	if err != nil {
		return err
	}

	watcher := config.NewPrefsWatcher(prefs.Path(), config.DefaultWatchInterval, func(p *config.Prefs) {
		v := config.ToleranceFromPrefs(p, tol.Load())
		tol.Store(v)
		logger.Info("tolerances reloaded", "path", p.Path(), "tolerance", v)
	})
	watcher.OnError(func(err error) {
		logger.Warn("ignoring preferences change", "error", err)
	})
	watcher.Start()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := tracker.Options{
		Source:       cam,
		Transmitter:  tx,
		Segmenter:    seg,
		Detector:     detector,
		Queue:        queue,
		Machine:      machine,
		Tolerance:    tol,
		SnapshotPath: cfg.SnapshotPath,
		Logger:       logger.Named("tracker"),
	}
	logger.Info("tracking", "camera", cfg.Camera, "strategy", strategy, "headless", cfg.Headless)

	if cfg.Headless {
		err = runHeadless(ctx, opts)
	} else {
		err = runWindowed(ctx, cancel, opts, strategy == vision.StrategyHSV)
	}

	watcher.Stop()
	if p, ok := machine.ObjectColor(); ok {
		config.SaveObjectColor(prefs, p.Color)
	}
	if serr := config.SaveTolerance(prefs, cfg.Strategy, tol.Load()); serr != nil {
		logger.Warn("failed to save tolerances", "path", prefs.Path(), "error", serr)
	}
	if err != nil {
		return errors.Wrap(err, "tracking stopped")
	}
	logger.Info("stopped")
	return nil
}

func runHeadless(ctx context.Context, opts tracker.Options) error {
	loop := tracker.New(opts)
	defer loop.Close()
	return loop.Run(ctx)
}

// runWindowed runs the loop on a goroutine while the window owns the main
// thread. Closing the window cancels the loop; the loop ending closes the app.
func runWindowed(ctx context.Context, cancel context.CancelFunc, opts tracker.Options, hsv bool) error {
	a := fyneapp.NewWithID(appID)
	win := mainwindow.New(a, opts.Queue, opts.Tolerance, hsv, cancel)
	opts.Display = win.Video()

	loop := tracker.New(opts)
	defer loop.Close()

	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
		a.Quit()
	}()

	win.ShowAndRun()
	cancel()
	return <-done
}
