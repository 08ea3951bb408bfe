// Package config loads immutable server configuration.
//
// Sources are applied in order, later ones winning:
// defaults, .env file, YAML file (-config), environment, command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingSigningKey is returned when no token signing key is configured.
var ErrMissingSigningKey = errors.New("missing jwt signing key (-jwt-key or SECRET_KEY)")

// Limiter holds the login lockout policy.
type Limiter struct {
	Window   time.Duration `yaml:"window"`
	MaxFails int           `yaml:"max_fails"`
	BlockFor time.Duration `yaml:"block_for"`
}

// Upper bounds for Argon2id costs accepted from configuration.
const (
	MaxHashTime      = 16
	MaxHashMemoryKiB = 1 << 20 // 1 GiB
	MaxHashThreads   = 64
)

// Hash holds Argon2id cost parameters.
type Hash struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
}

// Config is the full server configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	DSN             string        `yaml:"dsn"`
	JWTKey          string        `yaml:"jwt_key"`
	AccessTTL       time.Duration `yaml:"access_ttl"`
	TokenLeeway     time.Duration `yaml:"token_leeway"`
	TLSCert         string        `yaml:"tls_cert"`
	TLSKey          string        `yaml:"tls_key"`
	Dev             bool          `yaml:"dev"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Limiter         Limiter       `yaml:"limiter"`
	Hash            Hash          `yaml:"hash"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Addr:            ":8000",
		AccessTTL:       30 * time.Minute,
		CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		Limiter:         Limiter{Window: 15 * time.Minute, MaxFails: 5, BlockFor: 15 * time.Minute},
		Hash:            Hash{Time: 3, MemoryKiB: 64 * 1024, Threads: 1},
	}
}

// Load builds the configuration from args (without the program name) and getenv.
// The .env file is read from envFile when it exists.
func Load(args []string, getenv func(string) string, envFile string) (Config, error) {
	cfg := Default()

	fsf := flag.NewFlagSet("studylife", flag.ContinueOnError)
	fsf.SetOutput(io.Discard)
	configPath := fsf.String("config", "", "path to YAML config file")
	addr := fsf.String("addr", cfg.Addr, "listen address")
	dsn := fsf.String("dsn", "", "PostgreSQL DSN")
	jwtKey := fsf.String("jwt-key", "", "HS256 signing key (required)")
	accessTTL := fsf.Duration("access-ttl", cfg.AccessTTL, "access token TTL")
	leeway := fsf.Duration("token-leeway", 0, "tolerated clock skew on token expiry")
	certFile := fsf.String("tls-cert", "", "TLS certificate (PEM); plain HTTP when empty")
	keyFile := fsf.String("tls-key", "", "TLS private key (PEM)")
	dev := fsf.Bool("dev", false, "development logging; in-memory storage when no DSN is set")
	cors := fsf.String("cors-origin", "", "comma-separated allowed CORS origins")
	if err := fsf.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	dotenv, err := readDotenv(envFile)
	if err != nil {
		return Config{}, err
	}
	env := func(k string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return strings.TrimSpace(dotenv[k])
	}

	path := *configPath
	if path == "" {
		path = env("CONFIG_FILE")
	}
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}

	fsf.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "dsn":
			cfg.DSN = *dsn
		case "jwt-key":
			cfg.JWTKey = *jwtKey
		case "access-ttl":
			cfg.AccessTTL = *accessTTL
		case "token-leeway":
			cfg.TokenLeeway = *leeway
		case "tls-cert":
			cfg.TLSCert = *certFile
		case "tls-key":
			cfg.TLSKey = *keyFile
		case "dev":
			cfg.Dev = *dev
		case "cors-origin":
			cfg.CORSOrigins = splitList(*cors)
		}
	})

	cfg.DSN = SanitizeDSN(cfg.DSN)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c Config) Validate() error {
	if c.JWTKey == "" {
		return ErrMissingSigningKey
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("access ttl must be positive, got %s", c.AccessTTL)
	}
	if c.TokenLeeway < 0 {
		return fmt.Errorf("token leeway must not be negative, got %s", c.TokenLeeway)
	}
	if c.DSN == "" && !c.Dev {
		return errors.New("missing database DSN (-dsn or DATABASE_URL)")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("tls-cert and tls-key must be set together")
	}
	if c.Limiter.MaxFails <= 0 || c.Limiter.Window <= 0 || c.Limiter.BlockFor <= 0 {
		return errors.New("limiter window, max_fails and block_for must be positive")
	}
	for _, o := range c.CORSOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("cors origin %q must start with http:// or https://", o)
		}
	}
	if c.Hash.Time == 0 || c.Hash.MemoryKiB == 0 || c.Hash.Threads == 0 {
		return errors.New("hash time, memory_kib and threads must be positive")
	}
	if c.Hash.Time > MaxHashTime || c.Hash.MemoryKiB > MaxHashMemoryKiB || c.Hash.Threads > MaxHashThreads {
		return fmt.Errorf("hash costs above limits (time<=%d, memory_kib<=%d, threads<=%d)",
			MaxHashTime, MaxHashMemoryKiB, MaxHashThreads)
	}
	return nil
}

// SanitizeDSN trims spaces and surrounding quotes and drops a "+driver"
// suffix from the scheme (postgresql+psycopg2:// -> postgresql://).
func SanitizeDSN(dsn string) string {
	dsn = strings.Trim(strings.TrimSpace(dsn), `"'`)
	if i := strings.Index(dsn, "://"); i > 0 {
		if j := strings.IndexByte(dsn[:i], '+'); j > 0 {
			dsn = dsn[:j] + dsn[i:]
		}
	}
	return dsn
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	m, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}

func loadYAML(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, env func(string) string) error {
	if v := env("DATABASE_URL"); v != "" {
		cfg.DSN = v
	}
	if v := env("SECRET_KEY"); v != "" {
		cfg.JWTKey = v
	}
	if v := env("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := env("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: invalid value %q", v)
		}
		cfg.AccessTTL = time.Duration(n) * time.Minute
	}
	if v := env("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	return nil
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
