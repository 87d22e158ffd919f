// Package config assembles the tracker configuration from defaults, the
// preferences file, a .env file, MAGLEV_* environment variables and
// command-line flags, in that order of precedence (last wins).
package config

import (
	"os"
	"strconv"
	"time"

	"maglev-tracker/internal/calib"
	"maglev-tracker/internal/link"
	"maglev-tracker/internal/snapshot"
	"maglev-tracker/pkg/colorutil"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Preference keys.
const (
	keyCamera       = "camera"
	keyPort         = "serial.port"
	keyBaud         = "serial.baud"
	keyStrategy     = "strategy"
	keyTolRGB       = "tolerance.rgb"
	keyTolHue       = "tolerance.hue"
	keyTolSat       = "tolerance.saturation"
	keyTolVal       = "tolerance.value"
	keySampleRadius = "sample_radius"
	keySnapshot     = "snapshot_path"
	keyObject       = "object_color"
)

// Config is the complete runtime configuration.
type Config struct {
	Camera int // video device index
	Width  int // requested frame width, 0 for driver default
	Height int // requested frame height, 0 for driver default

	Port         string // serial device; empty means dry run
	Baud         int
	WriteTimeout time.Duration

	Strategy     string // segmentation colour space, "rgb" or "hsv"
	Object       string // preset object colour, empty until picked
	Tolerance    calib.ToleranceValue
	SampleRadius int
	QueueSize    int

	SnapshotPath string
	Headless     bool
	LogLevel     string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Camera:       0,
		Baud:         115200,
		WriteTimeout: link.DefaultWriteTimeout,
		Strategy:     "hsv",
		Tolerance: calib.ToleranceValue{
			Scalar: 20,
			HSV:    colorutil.HSV{H: 10, S: 60, V: 60},
		},
		QueueSize:    calib.DefaultQueueSize,
		SnapshotPath: snapshot.DefaultPath,
		LogLevel:     "info",
	}
}

// Load layers preferences, the optional .env file and the environment over
// the defaults. envFile may be empty or name a missing file.
func Load(prefs *Prefs, envFile string) (Config, error) {
	cfg := Default()
	if prefs != nil {
		cfg.applyPrefs(prefs)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return cfg, errors.Wrapf(err, "failed to load %s", envFile)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyPrefs(p *Prefs) {
	c.Camera = p.IntWithFallback(keyCamera, c.Camera)
	c.Port = p.StringWithFallback(keyPort, c.Port)
	c.Baud = p.IntWithFallback(keyBaud, c.Baud)
	c.Strategy = p.StringWithFallback(keyStrategy, c.Strategy)
	c.Tolerance = ToleranceFromPrefs(p, c.Tolerance)
	c.SampleRadius = p.IntWithFallback(keySampleRadius, c.SampleRadius)
	c.SnapshotPath = p.StringWithFallback(keySnapshot, c.SnapshotPath)
	c.Object = p.StringWithFallback(keyObject, c.Object)
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("MAGLEV_PORT"); ok {
		c.Port = v
	}
	if v, ok := os.LookupEnv("MAGLEV_STRATEGY"); ok {
		c.Strategy = v
	}
	if v, ok := os.LookupEnv("MAGLEV_OBJECT"); ok {
		c.Object = v
	}
	if v, ok := os.LookupEnv("MAGLEV_SNAPSHOT"); ok {
		c.SnapshotPath = v
	}
	if v, ok := os.LookupEnv("MAGLEV_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	for name, dst := range map[string]*int{
		"MAGLEV_CAMERA": &c.Camera,
		"MAGLEV_BAUD":   &c.Baud,
	} {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", name)
		}
		*dst = n
	}
	if v, ok := os.LookupEnv("MAGLEV_WRITE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "invalid MAGLEV_WRITE_TIMEOUT")
		}
		c.WriteTimeout = d
	}
	return nil
}

// Validate rejects settings the tracker cannot run with.
func (c Config) Validate() error {
	if c.Strategy != "rgb" && c.Strategy != "hsv" {
		return errors.Errorf("unknown segmentation strategy %q (want rgb or hsv)", c.Strategy)
	}
	if _, _, err := c.ObjectColor(); err != nil {
		return err
	}
	if c.Baud <= 0 {
		return errors.Errorf("baud rate must be positive, got %d", c.Baud)
	}
	if c.WriteTimeout <= 0 {
		return errors.Errorf("write timeout must be positive, got %s", c.WriteTimeout)
	}
	if c.Camera < 0 {
		return errors.Errorf("camera index must not be negative, got %d", c.Camera)
	}
	if c.SampleRadius < 0 {
		return errors.Errorf("sample radius must not be negative, got %d", c.SampleRadius)
	}
	return nil
}

// RegisterFlags defines the command-line flags on fs with the built-in defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Int("camera", d.Camera, "video device index")
	fs.Int("width", d.Width, "requested frame width (0 = driver default)")
	fs.Int("height", d.Height, "requested frame height (0 = driver default)")
	fs.String("port", d.Port, "serial port to send positions to (empty = dry run)")
	fs.Int("baud", d.Baud, "serial baud rate")
	fs.Duration("write-timeout", d.WriteTimeout, "serial write timeout")
	fs.String("strategy", d.Strategy, "segmentation colour space: rgb or hsv")
	fs.String("object", d.Object, "preset object colour as r,g,b or #rrggbb (default: pick in the window)")
	fs.Int("sample-radius", d.SampleRadius, "average a (2r+1)^2 patch around each pick")
	fs.Int("queue-size", d.QueueSize, "calibration event buffer size")
	fs.String("snapshot", d.SnapshotPath, "path frames are saved to")
	fs.Bool("headless", d.Headless, "run without a window")
	fs.String("log-level", d.LogLevel, "log level: trace, debug, info, warn, error")
}

// ApplyFlags overrides c with every flag the user set explicitly.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	ints := map[string]*int{
		"camera":        &c.Camera,
		"width":         &c.Width,
		"height":        &c.Height,
		"baud":          &c.Baud,
		"sample-radius": &c.SampleRadius,
		"queue-size":    &c.QueueSize,
	}
	for name, dst := range ints {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetInt(name)
		if err != nil {
			return errors.Wrapf(err, "flag --%s", name)
		}
		*dst = v
	}

	strs := map[string]*string{
		"port":      &c.Port,
		"strategy":  &c.Strategy,
		"object":    &c.Object,
		"snapshot":  &c.SnapshotPath,
		"log-level": &c.LogLevel,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return errors.Wrapf(err, "flag --%s", name)
		}
		*dst = v
	}

	if fs.Changed("write-timeout") {
		d, err := fs.GetDuration("write-timeout")
		if err != nil {
			return errors.Wrap(err, "flag --write-timeout")
		}
		c.WriteTimeout = d
	}
	if fs.Changed("headless") {
		h, err := fs.GetBool("headless")
		if err != nil {
			return errors.Wrap(err, "flag --headless")
		}
		c.Headless = h
	}
	return c.Validate()
}

// ObjectColor parses the preset object colour. ok is false when none is set.
func (c Config) ObjectColor() (col colorutil.Color, ok bool, err error) {
	if c.Object == "" {
		return colorutil.Color{}, false, nil
	}
	col, err = colorutil.ParseColor(c.Object)
	if err != nil {
		return col, false, errors.Wrap(err, "invalid object colour")
	}
	return col, true, nil
}

// SaveObjectColor records the picked object colour in prefs. Call Save to
// write it out.
func SaveObjectColor(p *Prefs, col colorutil.Color) {
	p.SetString(keyObject, col.String())
}

// ToleranceFromPrefs reads the tolerance keys from p, keeping fallback for
// any that are unset. Values are clamped to their channel range.
func ToleranceFromPrefs(p *Prefs, fallback calib.ToleranceValue) calib.ToleranceValue {
	return calib.ToleranceValue{
		Scalar: clampByte(p.IntWithFallback(keyTolRGB, int(fallback.Scalar)), 255),
		HSV: colorutil.HSV{
			H: clampByte(p.IntWithFallback(keyTolHue, int(fallback.HSV.H)), colorutil.HueMax),
			S: clampByte(p.IntWithFallback(keyTolSat, int(fallback.HSV.S)), 255),
			V: clampByte(p.IntWithFallback(keyTolVal, int(fallback.HSV.V)), 255),
		},
	}
}

// SaveTolerance records the current tolerances and strategy in prefs.
func SaveTolerance(p *Prefs, strategy string, tol calib.ToleranceValue) error {
	p.SetString(keyStrategy, strategy)
	p.SetInt(keyTolRGB, int(tol.Scalar))
	p.SetInt(keyTolHue, int(tol.HSV.H))
	p.SetInt(keyTolSat, int(tol.HSV.S))
	p.SetInt(keyTolVal, int(tol.HSV.V))
	return p.Save()
}

func clampByte(v, hi int) uint8 {
	if v < 0 {
		return 0
	}
	if v > hi {
		return uint8(hi)
	}
	return uint8(v)
}
