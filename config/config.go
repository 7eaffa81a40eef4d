// Package config loads and saves the hart simulator's TOML configuration:
// execution limits, memory sizing, and the optional monitor/inspector
// attachments. It keeps the teacher's config/config.go shape — a nested
// struct tagged for github.com/BurntSushi/toml, a DefaultConfig constructor,
// Load/Save around a platform-specific path — but the path resolution
// itself is factored into roamingRoot/posixRoot/appDir shared by both the
// config and log directories, rather than the teacher's two independent
// copies of the same Windows/darwin/linux switch.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the simulator's tunable behavior.
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles      uint64 `toml:"max_cycles"`
		LoopWindow     int    `toml:"loop_window"`
		LoopThreshold  int    `toml:"loop_threshold"`
		ResetPC        uint64 `toml:"reset_pc"`
		EnableTrace    bool   `toml:"enable_trace"`
		EnableMemTrace bool   `toml:"enable_mem_trace"`
		EnableStats    bool   `toml:"enable_stats"`
	} `toml:"execution"`

	// Memory settings
	Memory struct {
		SizeBytes     uint64 `toml:"size_bytes"`
		TohostAddr    uint64 `toml:"tohost_addr"`
		FromhostAddr  uint64 `toml:"fromhost_addr"`
	} `toml:"memory"`

	// Extensions: which optional ISA pieces this hart implements.
	Extensions struct {
		Supervisor bool `toml:"supervisor"`
		User       bool `toml:"user"`
		Compressed bool `toml:"compressed"`
		Multiply   bool `toml:"multiply"`
	} `toml:"extensions"`

	// Monitor settings: HTTP+WebSocket telemetry server.
	Monitor struct {
		Enabled     bool   `toml:"enabled"`
		ListenAddr  string `toml:"listen_addr"`
		BroadcastHz int    `toml:"broadcast_hz"`
	} `toml:"monitor"`

	// Inspector settings: tcell/tview text UI.
	Inspector struct {
		Enabled       bool `toml:"enabled"`
		BytesPerLine  int  `toml:"bytes_per_line"`
		MemoryContext int  `toml:"memory_context"`
	} `toml:"inspector"`

	// Trace settings
	Trace struct {
		OutputFile    string `toml:"output_file"`
		FilterRegs    string `toml:"filter_registers"` // comma-separated: "x1,x2,pc"
		IncludeCSRs   bool   `toml:"include_csrs"`
		MaxEntries    int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns a configuration with the simulator's built-in
// defaults: a 128MiB address space, the riscv-tests tohost/fromhost
// addresses, and RV64I plus the compressed (C) extension, with no
// Supervisor, User or Multiply support.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 10_000_000
	cfg.Execution.LoopWindow = 50
	cfg.Execution.LoopThreshold = 20
	cfg.Execution.ResetPC = 0x8000_0000
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableMemTrace = false
	cfg.Execution.EnableStats = false

	cfg.Memory.SizeBytes = 128 * 1024 * 1024
	cfg.Memory.TohostAddr = 0x8000_1000
	cfg.Memory.FromhostAddr = 0x8000_1004

	cfg.Extensions.Supervisor = false
	cfg.Extensions.User = false
	cfg.Extensions.Compressed = true
	cfg.Extensions.Multiply = false

	cfg.Monitor.Enabled = false
	cfg.Monitor.ListenAddr = "127.0.0.1:7777"
	cfg.Monitor.BroadcastHz = 10

	cfg.Inspector.Enabled = false
	cfg.Inspector.BytesPerLine = 16
	cfg.Inspector.MemoryContext = 8

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.FilterRegs = ""
	cfg.Trace.IncludeCSRs = true
	cfg.Trace.MaxEntries = 100000

	return cfg
}

// roamingRoot and posixRoot locate the user-writable tree each platform
// expects per-app state to live under: Windows' roaming AppData, and the
// XDG base directories on Linux/macOS (~/.config for settings, ~/.local/share
// for logs).
func roamingRoot() string {
	if dir := os.Getenv("APPDATA"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
}

func posixRoot(xdgLeaf string) (string, bool) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(homeDir, xdgLeaf), true
}

// appDir resolves this process's platform-specific directory for either
// config or logs (selected by xdgLeaf/tail), creating it if absent, and
// falls back to a path relative to the working directory when the
// platform's home directory can't be resolved or the directory can't be
// created.
func appDir(xdgLeaf, tail, fallback string) string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = filepath.Join(roamingRoot(), "riscv-hart", tail)
	case "darwin", "linux":
		root, ok := posixRoot(xdgLeaf)
		if !ok {
			return fallback
		}
		dir = filepath.Join(root, "riscv-hart", tail)
	default:
		return fallback
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fallback
	}
	return dir
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	return filepath.Join(appDir(".config", "", "."), "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	return appDir(filepath.Join(".local", "share"), "logs", "logs")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// defaults when the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if encErr := encoder.Encode(c); encErr != nil {
		return fmt.Errorf("failed to encode config: %w", encErr)
	}

	return nil
}
