package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Defaults written by NewConfig.
const (
	DefaultRecipesBaseURL = "https://api.spoonacular.com"
	DefaultRecipeCount    = 5
	DefaultSessionTTL     = "720h"
	DefaultPhotoURLTTL    = "1h"
	DefaultBcryptCost     = 10
)

// Environment variables that override values from the config file.
const (
	EnvRecipesAPIKey = "NUTRI_RECIPES_API_KEY"
	EnvAccessKey     = "NUTRI_S3_ACCESS_KEY"
	EnvSecretKey     = "NUTRI_S3_SECRET_KEY"
	EnvAuthSecret    = "NUTRI_AUTH_SECRET"
)

// Config represents the main configuration for nutri.
type Config struct {
	InstallID string         `toml:"install_id"`
	BaseDir   string         `toml:"base_dir"`
	LogDir    string         `toml:"log_dir"`
	Database  DatabaseConfig `toml:"database"`
	Storage   StorageConfig  `toml:"storage"`
	Recipes   RecipesConfig  `toml:"recipes"`
	Auth      AuthConfig     `toml:"auth"`
	Archive   ArchiveConfig  `toml:"archive"`
}

// DatabaseConfig represents configuration for the table store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// StorageConfig represents configuration for the photo object store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type   string `toml:"type"` // "memory", "filesystem", "s3" or "minio"
	Name   string `toml:"name"`
	URLTTL string `toml:"url_ttl,omitempty"` // lifetime of signed photo URLs

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"` // S3-compatible endpoint, e.g. Supabase storage
	S3PathStyle bool   `toml:"s3_path_style,omitempty"`

	// MinIO-specific fields (only used when Type == "minio")
	MinioEndpoint string `toml:"minio_endpoint,omitempty"` // host:port, no scheme
	MinioBucket   string `toml:"minio_bucket,omitempty"`
	MinioRegion   string `toml:"minio_region,omitempty"`
	MinioUseSSL   bool   `toml:"minio_use_ssl,omitempty"`

	// Static credentials for s3 and minio. Usually supplied through the
	// environment rather than the file.
	AccessKey string `toml:"access_key,omitempty"`
	SecretKey string `toml:"secret_key,omitempty"`
}

// RecipesConfig configures the recipe search API. An empty APIKey disables
// recipe lookups.
type RecipesConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key,omitempty"`
	Number  int    `toml:"number"`
}

// AuthConfig configures password hashing and the persisted session.
type AuthConfig struct {
	Secret     string `toml:"secret"`
	SessionTTL string `toml:"session_ttl"`
	BcryptCost int    `toml:"bcrypt_cost"`
}

// ArchiveConfig selects how export archives are encrypted.
type ArchiveConfig struct {
	Type       string `toml:"type"`                  // "age" (default) or "plain"
	WorkFactor int    `toml:"work_factor,omitempty"` // scrypt work factor; 0 keeps age's default
}

// NewConfig creates a new Config with the provided values and defaults for
// every section.
func NewConfig(installID, baseDir string) *Config {
	return &Config{
		InstallID: installID,
		BaseDir:   baseDir,
		LogDir:    filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Storage: StorageConfig{
			Type:   "filesystem",
			Name:   "local",
			URLTTL: DefaultPhotoURLTTL,
			FSRoot: filepath.Join(baseDir, "photos"),
		},
		Recipes: RecipesConfig{
			BaseURL: DefaultRecipesBaseURL,
			Number:  DefaultRecipeCount,
		},
		Auth: AuthConfig{
			SessionTTL: DefaultSessionTTL,
			BcryptCost: DefaultBcryptCost,
		},
		Archive: ArchiveConfig{Type: "age"},
	}
}

// PhotoURLTTL returns the parsed signed-URL lifetime, falling back to the default.
func (c StorageConfig) PhotoURLTTL() (time.Duration, error) {
	return parseDuration("storage.url_ttl", c.URLTTL, DefaultPhotoURLTTL)
}

// SessionDuration returns the parsed session lifetime, falling back to the default.
func (c AuthConfig) SessionDuration() (time.Duration, error) {
	return parseDuration("auth.session_ttl", c.SessionTTL, DefaultSessionTTL)
}

func parseDuration(field, value, fallback string) (time.Duration, error) {
	if value == "" {
		value = fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", field, value)
	}
	return d, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path. The file holds
// secrets, so it is only readable by its owner.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment. Variables already set are not overwritten. A missing file is
// not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides secrets in cfg with any that are set in the environment.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvRecipesAPIKey); v != "" {
		cfg.Recipes.APIKey = v
	}
	if v := os.Getenv(EnvAccessKey); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv(EnvSecretKey); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv(EnvAuthSecret); v != "" {
		cfg.Auth.Secret = v
	}
}
