package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"maglev-tracker/pkg/colorutil"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	prefsPath := writeFile(t, dir, "preferences.json", `{
		"serial.port": "/dev/ttyACM0",
		"serial.baud": 9600,
		"strategy": "rgb",
		"tolerance.rgb": 35,
		"tolerance.hue": 250
	}`)
	envPath := writeFile(t, dir, ".env", "MAGLEV_BAUD=57600\nMAGLEV_CAMERA=2\n")
	t.Cleanup(func() {
		os.Unsetenv("MAGLEV_BAUD")
		os.Unsetenv("MAGLEV_CAMERA")
	})
	t.Setenv("MAGLEV_STRATEGY", "hsv")

	prefs, err := LoadPrefs(prefsPath)
	if err != nil {
		t.Fatalf("LoadPrefs: %v", err)
	}
	cfg, err := Load(prefs, envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "/dev/ttyACM0" {
		t.Errorf("Port = %q, want prefs value", cfg.Port)
	}
	if cfg.Baud != 57600 {
		t.Errorf("Baud = %d, want .env value 57600", cfg.Baud)
	}
	if cfg.Camera != 2 {
		t.Errorf("Camera = %d, want 2", cfg.Camera)
	}
	if cfg.Strategy != "hsv" {
		t.Errorf("Strategy = %q, want environment value hsv", cfg.Strategy)
	}
	if cfg.Tolerance.Scalar != 35 {
		t.Errorf("Tolerance.Scalar = %d, want 35", cfg.Tolerance.Scalar)
	}
	if cfg.Tolerance.HSV.H != colorutil.HueMax {
		t.Errorf("Tolerance.HSV.H = %d, want clamped to %d", cfg.Tolerance.HSV.H, colorutil.HueMax)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	prefs, err := LoadPrefs(filepath.Join(dir, "none.json"))
	if err != nil {
		t.Fatalf("LoadPrefs(missing): %v", err)
	}
	cfg, err := Load(prefs, filepath.Join(dir, "none.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load with nothing set = %+v, want defaults", cfg)
	}
}

func TestLoadPrefsMalformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "preferences.json", "{not json")
	if _, err := LoadPrefs(path); err == nil {
		t.Error("LoadPrefs on malformed file returned nil error")
	}
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--port=/dev/ttyUSB0", "--strategy=rgb", "--write-timeout=300ms", "--headless"}); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Baud = 9600
	if err := cfg.ApplyFlags(fs); err != nil {
		t.Fatalf("ApplyFlags: %v", err)
	}
	if cfg.Port != "/dev/ttyUSB0" || cfg.Strategy != "rgb" || !cfg.Headless {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.WriteTimeout != 300*time.Millisecond {
		t.Errorf("WriteTimeout = %s, want 300ms", cfg.WriteTimeout)
	}
	if cfg.Baud != 9600 {
		t.Errorf("unset --baud overrode Baud: %d", cfg.Baud)
	}

	bad := pflag.NewFlagSet("bad", pflag.ContinueOnError)
	RegisterFlags(bad)
	if err := bad.Parse([]string{"--strategy=lab"}); err != nil {
		t.Fatal(err)
	}
	cfg = Default()
	if err := cfg.ApplyFlags(bad); err == nil {
		t.Error("ApplyFlags accepted an unknown strategy")
	}
}

func TestSaveTolerance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "preferences.json")
	prefs, err := LoadPrefs(path)
	if err != nil {
		t.Fatal(err)
	}

	tol := Default().Tolerance
	tol.HSV.S = 99
	if err := SaveTolerance(prefs, "rgb", tol); err != nil {
		t.Fatalf("SaveTolerance: %v", err)
	}

	reloaded, err := LoadPrefs(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(reloaded, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strategy != "rgb" || cfg.Tolerance != tol {
		t.Errorf("reloaded %q %+v, want rgb %+v", cfg.Strategy, cfg.Tolerance, tol)
	}
}

func TestObjectColor(t *testing.T) {
	cfg := Default()
	if _, ok, err := cfg.ObjectColor(); ok || err != nil {
		t.Errorf("default ObjectColor ok=%v err=%v, want unset", ok, err)
	}

	cfg.Object = "#c83232"
	col, ok, err := cfg.ObjectColor()
	if err != nil || !ok || col != colorutil.NewColor(200, 50, 50) {
		t.Errorf("ObjectColor = %v, %v, %v", col, ok, err)
	}

	cfg.Object = "purple"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted an unparsable object colour")
	}

	path := filepath.Join(t.TempDir(), "preferences.json")
	prefs, err := LoadPrefs(path)
	if err != nil {
		t.Fatal(err)
	}
	SaveObjectColor(prefs, colorutil.NewColor(1, 2, 3))
	if err := prefs.Save(); err != nil {
		t.Fatal(err)
	}
	reloaded, err := LoadPrefs(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(reloaded, "")
	if err != nil {
		t.Fatal(err)
	}
	if col, ok, _ := cfg.ObjectColor(); !ok || col != colorutil.NewColor(1, 2, 3) {
		t.Errorf("reloaded object colour = %v, %v", col, ok)
	}
}
