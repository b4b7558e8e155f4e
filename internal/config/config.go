package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/MimeLyc/mkv-organizer/pkg/icron"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// path is given.
const DefaultConfigFile = "config.toml"

// Config holds all run parameters. It is loaded once at startup and shared
// read-only by every worker.
//
// Values come from, in increasing priority: built-in defaults, the TOML
// document, a .env file next to it, process environment, and Options.
//
// Environment Variables:
// - MKVORG_ROOT_FOLDER: source directory scanned for videos
// - MKVORG_OUTPUT_ROOT: library root receiving "TV Shows" and "Movies"
// - MKVORG_MKVMERGE_PATH: muxer executable (absolute path or name on PATH)
// - MKVORG_DRY_RUN: report what would happen without touching the disk
// - MKVORG_DELETE_ORIGINALS: remove sources after a successful merge
// - MKVORG_DEFAULT_SUB_LANG: ISO 639-2 code flagged as default subtitle track
// - MKVORG_EXT_VIDEO / MKVORG_EXT_SUB / MKVORG_EXT_AUDIO: comma separated lists
// - MKVORG_CONCURRENT_JOBS: worker pool width (default: 2)
// - MKVORG_LOG_LEVEL: debug, info, warn, error (default: info)
// - MKVORG_LOG_FILE: optional log file, appended to
// - MKVORG_SCHEDULE: cron expression; empty runs once
type Config struct {
	RootFolder      string   `toml:"root_folder"`
	OutputRoot      string   `toml:"output_root"`
	MkvmergePath    string   `toml:"mkvmerge_path"`
	DryRun          bool     `toml:"dry_run"`
	DeleteOriginals bool     `toml:"delete_originals"`
	DefaultSubLang  string   `toml:"default_sub_lang"`
	ExtVideo        []string `toml:"ext_video"`
	ExtSub          []string `toml:"ext_sub"`
	ExtAudio        []string `toml:"ext_audio"`
	ConcurrentJobs  int      `toml:"concurrent_jobs"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file,omitempty"`
	Schedule string `toml:"schedule,omitempty"`
}

// Option is a function type for configuring Config
type Option func(*Config)

func WithDryRun(dryRun bool) Option {
	return func(c *Config) {
		c.DryRun = dryRun
	}
}

func WithConcurrentJobs(n int) Option {
	return func(c *Config) {
		c.ConcurrentJobs = n
	}
}

func WithSchedule(expr string) Option {
	return func(c *Config) {
		c.Schedule = expr
	}
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		RootFolder:     "input",
		OutputRoot:     "MKV_output",
		MkvmergePath:   "mkvmerge",
		DefaultSubLang: "fin",
		ExtVideo:       []string{".mp4", ".mkv", ".avi", ".mov"},
		ExtSub:         []string{".srt", ".ass", ".ssa", ".vtt"},
		ExtAudio:       []string{".aac", ".mp3", ".m4a", ".flac", ".wav"},
		ConcurrentJobs: 2,
		LogLevel:       "info",
	}
}

// Load reads the TOML document at path (DefaultConfigFile when empty),
// applies .env and environment overrides and the given options, then
// validates the result. A missing file is not an error: defaults are used.
func Load(path string, opts ...Option) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigFile
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv exports the variables of an optional .env file. Variables
// already present in the process environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.RootFolder = getEnvString("MKVORG_ROOT_FOLDER", c.RootFolder)
	c.OutputRoot = getEnvString("MKVORG_OUTPUT_ROOT", c.OutputRoot)
	c.MkvmergePath = getEnvString("MKVORG_MKVMERGE_PATH", c.MkvmergePath)
	c.DryRun = getEnvBool("MKVORG_DRY_RUN", c.DryRun)
	c.DeleteOriginals = getEnvBool("MKVORG_DELETE_ORIGINALS", c.DeleteOriginals)
	c.DefaultSubLang = getEnvString("MKVORG_DEFAULT_SUB_LANG", c.DefaultSubLang)
	c.ExtVideo = getEnvList("MKVORG_EXT_VIDEO", c.ExtVideo)
	c.ExtSub = getEnvList("MKVORG_EXT_SUB", c.ExtSub)
	c.ExtAudio = getEnvList("MKVORG_EXT_AUDIO", c.ExtAudio)
	c.ConcurrentJobs = getEnvInt("MKVORG_CONCURRENT_JOBS", c.ConcurrentJobs)
	c.LogLevel = getEnvString("MKVORG_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnvString("MKVORG_LOG_FILE", c.LogFile)
	c.Schedule = getEnvString("MKVORG_SCHEDULE", c.Schedule)
}

func (c *Config) normalize() {
	c.RootFolder = strings.TrimSpace(c.RootFolder)
	c.OutputRoot = strings.TrimSpace(c.OutputRoot)
	c.MkvmergePath = strings.TrimSpace(c.MkvmergePath)
	c.DefaultSubLang = strings.ToLower(strings.TrimSpace(c.DefaultSubLang))
	c.ExtVideo = normalizeExts(c.ExtVideo)
	c.ExtSub = normalizeExts(c.ExtSub)
	c.ExtAudio = normalizeExts(c.ExtAudio)
	c.Schedule = strings.TrimSpace(c.Schedule)
	if c.ConcurrentJobs <= 0 {
		c.ConcurrentJobs = 1
	}
}

// normalizeExts lowercases extensions, adds the leading dot and drops
// blanks and duplicates.
func normalizeExts(exts []string) []string {
	ret := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		ret = append(ret, ext)
	}
	return ret
}

// Validate checks that all required configuration is properly set
func (c *Config) Validate() error {
	if c.RootFolder == "" {
		return fmt.Errorf("root_folder is required")
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("output_root is required")
	}
	if c.MkvmergePath == "" {
		return fmt.Errorf("mkvmerge_path is required")
	}
	if len(c.ExtVideo) == 0 {
		return fmt.Errorf("ext_video must list at least one extension")
	}
	if c.DefaultSubLang != "" && !isISO3(c.DefaultSubLang) {
		return fmt.Errorf("invalid default_sub_lang %q: want a three-letter ISO 639-2 code", c.DefaultSubLang)
	}
	if c.Schedule != "" {
		if _, err := icron.Parse(c.Schedule); err != nil {
			return fmt.Errorf("invalid schedule: %w", err)
		}
	}
	return nil
}

func isISO3(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return strings.Split(value, ",")
}
