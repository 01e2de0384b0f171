package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WindowConfig 描述桌面窗口。
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
	Debug     bool   `yaml:"debug"` // 打开 webview 开发者工具
}

// Config 存放应用级配置。
type Config struct {
	NotesDir   string       `yaml:"notes_dir"`
	DBPath     string       `yaml:"db_path"`
	ListenAddr string       `yaml:"listen_addr"`
	ExportDir  string       `yaml:"export_dir"`
	LogLevel   string       `yaml:"log_level"` // debug|info|warn|error
	Window     WindowConfig `yaml:"window"`
}

// DefaultConfig 返回本地开发环境的默认配置。
func DefaultConfig() Config {
	return Config{
		NotesDir:   "notes",
		DBPath:     "data/never.db",
		ListenAddr: "127.0.0.1:8788",
		ExportDir:  "data/exports",
		LogLevel:   "info",
		Window: WindowConfig{
			Title:     "NeVeR",
			Width:     320,
			Height:    480,
			Resizable: true,
			Debug:     true,
		},
	}
}

// LoadConfig 在默认配置之上叠加 YAML 文件；path 为空时直接返回默认配置。
// 文件里没写的字段保持默认值。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 做基础字段校验。
func (c Config) Validate() error {
	if strings.TrimSpace(c.NotesDir) == "" {
		return errors.New("config: notes_dir is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db_path is required")
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("config: listen_addr is required")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NewLogger 按配置的级别创建文本日志。
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log_level %q", s)
	}
}
