package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where voicecart stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your voicecart instance.
	InstanceURL string

	// TurnTimeout bounds a single collaborator-resolution step of the
	// assistant. Zero means the built-in default.
	TurnTimeout time.Duration

	// Speech synthesis configuration
	SpeechEnabled bool   // VOICECART_SPEECH_ENABLED
	OpenAIAPIKey  string // VOICECART_OPENAI_API_KEY
	OpenAIBaseURL string // VOICECART_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	SpeechModel   string // VOICECART_SPEECH_MODEL (default: tts-1)
	SpeechVoice   string // VOICECART_SPEECH_VOICE (default: nova)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsSpeechEnabled returns true if speech synthesis is enabled and an API key is configured.
func (p *Profile) IsSpeechEnabled() bool {
	return p.SpeechEnabled && p.OpenAIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from VOICECART_* environment variables.
// Empty values are skipped so that defaults take effect.
func (p *Profile) FromEnv() {
	if v := os.Getenv("VOICECART_MODE"); v != "" {
		p.Mode = v
	}
	if v := os.Getenv("VOICECART_ADDR"); v != "" {
		p.Addr = v
	}
	if v := os.Getenv("VOICECART_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			p.Port = port
		}
	}
	if v := os.Getenv("VOICECART_DATA"); v != "" {
		p.Data = v
	}
	if v := os.Getenv("VOICECART_DRIVER"); v != "" {
		p.Driver = v
	}
	if v := os.Getenv("VOICECART_DSN"); v != "" {
		p.DSN = v
	}
	if v := os.Getenv("VOICECART_INSTANCE_URL"); v != "" {
		p.InstanceURL = v
	}
	if v := os.Getenv("VOICECART_TURN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			p.TurnTimeout = d
		}
	}

	p.SpeechEnabled = os.Getenv("VOICECART_SPEECH_ENABLED") == "true"
	p.OpenAIAPIKey = os.Getenv("VOICECART_OPENAI_API_KEY")
	p.OpenAIBaseURL = getEnvOrDefault("VOICECART_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.SpeechModel = getEnvOrDefault("VOICECART_SPEECH_MODEL", "tts-1")
	p.SpeechVoice = getEnvOrDefault("VOICECART_SPEECH_VOICE", "nova")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q, expected sqlite or postgres", p.Driver)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "voicecart")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/voicecart"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("voicecart_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("DSN is required for the postgres driver")
	}

	return nil
}
