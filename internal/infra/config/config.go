// Package config provides application-wide configuration loaded from env vars,
// optionally overlaid by a YAML or TOML file named in DOCSENSE_CONFIG.
// All fields have safe defaults so the binary runs locally without any env setup.
// Precedence: environment > file > default.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every configuration error returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Inference modes accepted in INFERENCE_MODE.
const (
	InferenceModeLocal  = "local"
	InferenceModeServer = "server"
)

// Mode store backends.
const (
	ModeStoreEnvFile = "envfile"
	ModeStoreSQLite  = "sqlite"
	ModeStoreNone    = "none"
)

// Config holds runtime configuration for docsense.
type Config struct {
	// Inference
	InferenceMode        string        // INFERENCE_MODE: local | server, default local
	InferenceModeFromEnv bool          // INFERENCE_MODE was set in the process environment
	LocalModelPath       string        // LOCAL_MODEL_PATH: directory holding model.yaml
	ServerAPIURL         string        // SERVER_API_URL
	ServerTimeout        time.Duration // SERVER_TIMEOUT, default 30s
	ServerMaxLength      int           // SERVER_MAX_LENGTH, default 2048
	ServerTemperature    float64       // SERVER_TEMPERATURE, default 0.7

	// HTTP front door
	UploadFolder     string // UPLOAD_FOLDER
	MaxContentLength int64  // MAX_CONTENT_LENGTH: bytes, default 16 MiB
	HTTPHost         string // HTTP_HOST
	HTTPPort         int    // HTTP_PORT

	// Persistence
	ModeStore string // MODE_STORE: envfile | sqlite | none
	EnvFile   string // ENV_FILE
	DBPath    string // DB_PATH

	OCRLanguages []string // OCR_LANGUAGES: comma separated
	LogLevel     string   // LOG_LEVEL

	// File is the overlay file that was applied, if any.
	File string
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

const envKeyConfigFile = "DOCSENSE_CONFIG"

// setting describes one configuration key.
type setting struct {
	env      string
	file     string
	fallback string
}

var (
	keyInferenceMode     = setting{"INFERENCE_MODE", "inference_mode", InferenceModeLocal}
	keyLocalModelPath    = setting{"LOCAL_MODEL_PATH", "local_model_path", "./models"}
	keyServerAPIURL      = setting{"SERVER_API_URL", "server_api_url", "http://localhost:8866/predict"}
	keyServerTimeout     = setting{"SERVER_TIMEOUT", "server_timeout", "30s"}
	keyServerMaxLength   = setting{"SERVER_MAX_LENGTH", "server_max_length", "2048"}
	keyServerTemperature = setting{"SERVER_TEMPERATURE", "server_temperature", "0.7"}
	keyUploadFolder      = setting{"UPLOAD_FOLDER", "upload_folder", "./static/uploads"}
	keyMaxContentLength  = setting{"MAX_CONTENT_LENGTH", "max_content_length", "16777216"}
	keyHTTPHost          = setting{"HTTP_HOST", "http_host", "0.0.0.0"}
	keyHTTPPort          = setting{"HTTP_PORT", "http_port", "5000"}
	keyModeStore         = setting{"MODE_STORE", "mode_store", ModeStoreEnvFile}
	keyEnvFile           = setting{"ENV_FILE", "env_file", ".env"}
	keyDBPath            = setting{"DB_PATH", "db_path", "./data/docsense.db"}
	keyOCRLanguages      = setting{"OCR_LANGUAGES", "ocr_languages", "eng"}
	keyLogLevel          = setting{"LOG_LEVEL", "log_level", "info"}
)

var allSettings = []setting{
	keyInferenceMode, keyLocalModelPath, keyServerAPIURL, keyServerTimeout,
	keyServerMaxLength, keyServerTemperature, keyUploadFolder, keyMaxContentLength,
	keyHTTPHost, keyHTTPPort, keyModeStore, keyEnvFile, keyDBPath, keyOCRLanguages,
	keyLogLevel,
}

// Load reads configuration, applying defaults for missing values.
// Every returned error wraps ErrInvalidConfig.
func Load() (Config, error) {
	file := os.Getenv(envKeyConfigFile)
	overlay, err := readOverlay(file)
	if err != nil {
		return Config{}, err
	}

	r := resolver{overlay: overlay}
	cfg := Config{
		LocalModelPath: r.str(keyLocalModelPath),
		ServerAPIURL:   r.str(keyServerAPIURL),
		UploadFolder:   r.str(keyUploadFolder),
		HTTPHost:       r.str(keyHTTPHost),
		ModeStore:      r.str(keyModeStore),
		EnvFile:        r.str(keyEnvFile),
		DBPath:         r.str(keyDBPath),
		OCRLanguages:   splitList(r.str(keyOCRLanguages)),
		LogLevel:       r.str(keyLogLevel),
		File:           file,
	}

	cfg.InferenceMode = r.str(keyInferenceMode)
	cfg.InferenceModeFromEnv = os.Getenv(keyInferenceMode.env) != ""
	switch cfg.InferenceMode {
	case InferenceModeLocal, InferenceModeServer:
	default:
		r.fail(keyInferenceMode, fmt.Errorf("invalid inference mode %q, must be local or server", cfg.InferenceMode))
	}
	cfg.ServerTimeout = r.duration(keyServerTimeout)
	cfg.ServerMaxLength = r.positiveInt(keyServerMaxLength)
	cfg.ServerTemperature = r.float(keyServerTemperature)
	cfg.MaxContentLength = int64(r.positiveInt(keyMaxContentLength))
	cfg.HTTPPort = r.port(keyHTTPPort)

	switch cfg.ModeStore {
	case ModeStoreEnvFile, ModeStoreSQLite, ModeStoreNone:
	default:
		r.fail(keyModeStore, fmt.Errorf("unknown mode store %q, must be envfile, sqlite or none", cfg.ModeStore))
	}

	if r.err != nil {
		return Config{}, r.err
	}
	return cfg, nil
}

// resolver looks values up env-first and records the first parse error.
type resolver struct {
	overlay map[string]string
	err     error
}

func (r *resolver) str(s setting) string {
	if v := os.Getenv(s.env); v != "" {
		return v
	}
	if v, ok := r.overlay[s.file]; ok && v != "" {
		return v
	}
	return s.fallback
}

func (r *resolver) fail(s setting, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s: %w", ErrInvalidConfig, s.env, err)
	}
}

func (r *resolver) duration(s setting) time.Duration {
	d, err := time.ParseDuration(r.str(s))
	if err == nil && d <= 0 {
		err = fmt.Errorf("must be positive, got %s", d)
	}
	if err != nil {
		r.fail(s, err)
	}
	return d
}

func (r *resolver) positiveInt(s setting) int {
	n, err := strconv.Atoi(r.str(s))
	if err == nil && n <= 0 {
		err = fmt.Errorf("must be positive, got %d", n)
	}
	if err != nil {
		r.fail(s, err)
	}
	return n
}

func (r *resolver) port(s setting) int {
	n, err := strconv.Atoi(r.str(s))
	if err == nil && (n < 0 || n > 65535) {
		err = fmt.Errorf("out of range: %d", n)
	}
	if err != nil {
		r.fail(s, err)
	}
	return n
}

func (r *resolver) float(s setting) float64 {
	f, err := strconv.ParseFloat(r.str(s), 64)
	if err != nil {
		r.fail(s, err)
	}
	return f
}

// readOverlay decodes path into a flat key -> string map.
// An empty path means no overlay.
func readOverlay(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, envKeyConfigFile, err)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		_, err = toml.Decode(string(data), &raw)
	default:
		err = fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	known := make(map[string]bool, len(allSettings))
	for _, s := range allSettings {
		known[s.file] = true
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if !known[k] {
			return nil, fmt.Errorf("%w: %s: unknown key %q", ErrInvalidConfig, path, k)
		}
		out[k] = scalarString(v)
	}
	return out, nil
}

// scalarString renders a decoded file value the way it would appear in an env var.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, scalarString(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
