package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/abihf/visionedge/protocol"
)

// DefaultPath is read by Load when VISIONEDGE_CONFIG is not set.
const DefaultPath = "/etc/visionedge/config.json"

type Config struct {
	Device      string `json:"device" toml:"device"`
	Width       int    `json:"width" toml:"width"`
	Height      int    `json:"height" toml:"height"`
	Mode        string `json:"mode" toml:"mode"`
	Socket      string `json:"socket" toml:"socket"`
	PidFile     string `json:"pid_file" toml:"pid_file"`
	HTTPAddr    string `json:"http_addr" toml:"http_addr"`
	SnapshotDir string `json:"snapshot_dir" toml:"snapshot_dir"`
	// CPUCore pins the capture thread when >= 0.
	CPUCore  *int   `json:"cpu_core" toml:"cpu_core"`
	LogLevel string `json:"log_level" toml:"log_level"`
}

// Load reads the config file named by VISIONEDGE_CONFIG, or DefaultPath.
// A missing or broken file is logged and defaults are used instead.
func Load() *Config {
	path := os.Getenv("VISIONEDGE_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	conf, err := LoadFile(path)
	if err != nil {
		slog.Warn("Failed to load config file", "path", path, "error", err)
		conf = &Config{}
		conf.setDefaults()
	}
	return conf
}

// LoadFile decodes path as TOML when it has a .toml extension and as JSON
// otherwise, then fills in defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config load failed")
	}

	conf := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, conf)
	} else {
		err = json.Unmarshal(data, conf)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "config parse failed (%s)", path)
	}

	conf.setDefaults()
	return conf, nil
}

func (conf *Config) setDefaults() {
	if conf.Device == "" {
		conf.Device = "/dev/video0"
	}
	if conf.Width == 0 {
		conf.Width = 640
	}
	if conf.Height == 0 {
		conf.Height = 480
	}
	if conf.Mode == "" {
		conf.Mode = "edge"
	}
	if conf.Socket == "" {
		conf.Socket = protocol.GetSockAddress()
	}
	if conf.PidFile == "" {
		conf.PidFile = protocol.GetLockFile()
	}
	if conf.SnapshotDir == "" {
		conf.SnapshotDir = "."
	}
	if conf.CPUCore == nil {
		unpinned := -1
		conf.CPUCore = &unpinned
	}
	if conf.LogLevel == "" {
		conf.LogLevel = "info"
	}
}
