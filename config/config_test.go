package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"device": "/dev/video2", "mode": "gray", "cpu_core": 0}`)

	conf, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if conf.Device != "/dev/video2" || conf.Mode != "gray" {
		t.Errorf("conf = %+v", conf)
	}
	if conf.CPUCore == nil || *conf.CPUCore != 0 {
		t.Errorf("CPUCore = %v, want 0", conf.CPUCore)
	}
	if conf.Width != 640 || conf.Height != 480 {
		t.Errorf("default size = %dx%d, want 640x480", conf.Width, conf.Height)
	}
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
device = "/dev/video1"
width = 320
height = 240
http_addr = ":8080"
log_level = "debug"
`)

	conf, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if conf.Device != "/dev/video1" || conf.Width != 320 || conf.Height != 240 {
		t.Errorf("conf = %+v", conf)
	}
	if conf.HTTPAddr != ":8080" || conf.LogLevel != "debug" {
		t.Errorf("conf = %+v", conf)
	}
	if conf.Mode != "edge" || *conf.CPUCore != -1 {
		t.Errorf("defaults not applied: mode %q core %d", conf.Mode, *conf.CPUCore)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file: want error")
	}
	if _, err := LoadFile(writeFile(t, "bad.json", "{")); err == nil {
		t.Error("broken json: want error")
	}
	if _, err := LoadFile(writeFile(t, "bad.toml", "device = ")); err == nil {
		t.Error("broken toml: want error")
	}
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	t.Setenv("VISIONEDGE_CONFIG", filepath.Join(t.TempDir(), "none.json"))

	conf := Load()
	if conf.Device != "/dev/video0" || conf.Socket != "/var/run/visionedge.sock" || conf.PidFile != "/var/run/visionedge.pid" {
		t.Errorf("conf = %+v", conf)
	}
}
