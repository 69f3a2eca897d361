package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	AppName   = "voicewithin"
	EnvPrefix = "VOICEWITHIN"
)

// Supported backends and trigger sources.
const (
	TranscriberWhisperCpp = "whisper-cpp"
	TranscriberHTTP       = "http"

	SummarizerOllama = "ollama"
	SummarizerOpenAI = "openai"

	HotkeySignal = "signal"
	HotkeyStdin  = "stdin"
)

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type HotkeyConfig struct {
	Source string `mapstructure:"source"`
	Label  string `mapstructure:"label"`
}

type RecorderConfig struct {
	TempSubdir string `mapstructure:"temp_subdir"`
}

type TranscriberConfig struct {
	Backend    string `mapstructure:"backend"`
	BinaryPath string `mapstructure:"binary_path"`
	ModelsDir  string `mapstructure:"models_dir"`
	URL        string `mapstructure:"url"`
}

type SummarizerConfig struct {
	Backend string `mapstructure:"backend"`
	URL     string `mapstructure:"url"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
}

type NotesConfig struct {
	Dir string `mapstructure:"dir"`
}

type NotifyConfig struct {
	Desktop bool `mapstructure:"desktop"`
}

type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type Settings struct {
	Env         string            `mapstructure:"env"`
	Debug       bool              `mapstructure:"debug"`
	Log         LogConfig         `mapstructure:"log"`
	Hotkey      HotkeyConfig      `mapstructure:"hotkey"`
	Recorder    RecorderConfig    `mapstructure:"recorder"`
	Transcriber TranscriberConfig `mapstructure:"transcriber"`
	Summarizer  SummarizerConfig  `mapstructure:"summarizer"`
	Notes       NotesConfig       `mapstructure:"notes"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	Server      ServerConfig      `mapstructure:"server"`

	v *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("hotkey.source", HotkeySignal)
	v.SetDefault("hotkey.label", "CommandOrControl+I")

	v.SetDefault("recorder.temp_subdir", AppName)

	v.SetDefault("transcriber.backend", TranscriberWhisperCpp)
	v.SetDefault("transcriber.binary_path", "whisper-cli")
	v.SetDefault("transcriber.models_dir", "~/.cache/whisper")
	v.SetDefault("transcriber.url", "http://localhost:9000")

	v.SetDefault("summarizer.backend", SummarizerOllama)
	v.SetDefault("summarizer.url", "http://localhost:11434")
	v.SetDefault("summarizer.model", "llama3.2")
	v.SetDefault("summarizer.api_key", "")

	v.SetDefault("notes.dir", "~/VoiceWithin")

	v.SetDefault("notify.desktop", true)

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", "127.0.0.1:7781")
}

// Load reads config.yaml from the given path, or from the standard search
// locations when path is empty. A missing file in the search locations is not
// an error: defaults and VOICEWITHIN_* environment variables still apply.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	settings, err := decode(v)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func decode(v *viper.Viper) (*Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	settings.v = v
	return &settings, nil
}

// Validate rejects unsupported choices and expands home-relative paths.
func (s *Settings) Validate() error {
	switch s.Hotkey.Source {
	case HotkeySignal, HotkeyStdin:
	default:
		return fmt.Errorf("unsupported hotkey source %q", s.Hotkey.Source)
	}

	switch s.Transcriber.Backend {
	case TranscriberWhisperCpp:
		if s.Transcriber.BinaryPath == "" {
			return errors.New("transcriber.binary_path is required for whisper-cpp")
		}
	case TranscriberHTTP:
		if s.Transcriber.URL == "" {
			return errors.New("transcriber.url is required for the http backend")
		}
	default:
		return fmt.Errorf("unsupported transcriber backend %q", s.Transcriber.Backend)
	}

	switch s.Summarizer.Backend {
	case SummarizerOllama, SummarizerOpenAI:
	default:
		return fmt.Errorf("unsupported summarizer backend %q", s.Summarizer.Backend)
	}
	if s.Summarizer.URL == "" || s.Summarizer.Model == "" {
		return errors.New("summarizer.url and summarizer.model are required")
	}

	if s.Notes.Dir == "" {
		return errors.New("notes.dir is required")
	}
	if s.Recorder.TempSubdir == "" {
		s.Recorder.TempSubdir = AppName
	}

	s.Notes.Dir = ExpandTilde(s.Notes.Dir)
	s.Transcriber.ModelsDir = ExpandTilde(s.Transcriber.ModelsDir)
	s.Log.File = ExpandTilde(s.Log.File)
	return nil
}

// TempDir is the directory recordings are written to.
func (s *Settings) TempDir() string {
	return filepath.Join(os.TempDir(), s.Recorder.TempSubdir)
}

// ConfigFile reports the file the settings were read from, if any.
func (s *Settings) ConfigFile() string {
	if s.v == nil {
		return ""
	}
	return s.v.ConfigFileUsed()
}

// AllSettings returns the effective key/value tree with secrets masked.
func (s *Settings) AllSettings() map[string]any {
	if s.v == nil {
		return map[string]any{}
	}
	all := s.v.AllSettings()
	if sum, ok := all["summarizer"].(map[string]any); ok {
		if key, _ := sum["api_key"].(string); key != "" {
			sum["api_key"] = "****"
		}
	}
	return all
}

// OnChange watches the config file and hands a freshly decoded copy to fn on
// every write. Decoding failures are passed to onErr and the old settings stay
// in effect.
func (s *Settings) OnChange(fn func(*Settings), onErr func(error)) {
	if s.v == nil || s.v.ConfigFileUsed() == "" {
		return
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(s.v)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(next)
	})
	s.v.WatchConfig()
}

func searchPaths() []string {
	paths := make([]string, 0, 3)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, AppName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", AppName))
	}
	return append(paths, ".")
}

// ExpandTilde replaces a leading ~ with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
