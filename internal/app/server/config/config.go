package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	KeySourceEnv   = "env"
	KeySourceVault = "vault"

	PolicyStrict = "strict"
	PolicyOff    = "off"
)

type Config struct {
	Env    string
	DB     DB
	Server Server
	Logger Logger
	Crypto Crypto
	Vault  Vault
	Policy Policy
}

type DB struct {
	Driver      string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type Server struct {
	RunAddress      string        `env:"RUN_ADDRESS" envDefault:":8080"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// TrustProxyHeaders takes the audit address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites both.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

type Logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Crypto selects where key material comes from and which ciphertext format
// new writes use. The key material itself never lives here.
type Crypto struct {
	KeySource    string `env:"KEY_SOURCE" envDefault:"env"`
	CipherFormat string `env:"CIPHER_FORMAT" envDefault:"v2"`
}

type Vault struct {
	Address string `env:"VAULT_ADDR"`
	Token   string `env:"VAULT_TOKEN"`
	Mount   string `env:"VAULT_MOUNT" envDefault:"secret"`
	Path    string `env:"VAULT_PATH" envDefault:"passvault/keys"`
}

type Policy struct {
	Password  string `env:"PASSWORD_POLICY" envDefault:"strict"`
	MinLength int    `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", ":8080")
	v.SetDefault("database_driver", DriverPostgres)
	v.SetDefault("log_level", "info")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("trust_proxy_headers", false)
	v.SetDefault("key_source", KeySourceEnv)
	v.SetDefault("cipher_format", "v2")
	v.SetDefault("vault_mount", "secret")
	v.SetDefault("vault_path", "passvault/keys")
	v.SetDefault("password_policy", PolicyStrict)
	v.SetDefault("password_min_length", 8)
}

// MustLoad reads the .env file when present and then the process environment.
func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return FromViper(viper.GetViper())
}

// FromViper builds the configuration from an existing viper instance.
func FromViper(v *viper.Viper) *Config {
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Env: v.GetString("app_env"),
		DB: DB{
			Driver:      v.GetString("database_driver"),
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
		},
		Server: Server{
			RunAddress:        v.GetString("run_address"),
			SessionTTL:        v.GetDuration("session_ttl"),
			ShutdownTimeout:   v.GetDuration("shutdown_timeout"),
			TrustProxyHeaders: v.GetBool("trust_proxy_headers"),
		},
		Logger: Logger{LogLevel: v.GetString("log_level")},
		Crypto: Crypto{
			KeySource:    v.GetString("key_source"),
			CipherFormat: v.GetString("cipher_format"),
		},
		Vault: Vault{
			Address: v.GetString("vault_addr"),
			Token:   v.GetString("vault_token"),
			Mount:   v.GetString("vault_mount"),
			Path:    v.GetString("vault_path"),
		},
		Policy: Policy{
			Password:  v.GetString("password_policy"),
			MinLength: v.GetInt("password_min_length"),
		},
	}
}
