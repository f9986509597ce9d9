package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	StorageConfig struct {
		Engine string // bolt (default), memory, postgres
		Path   string // bolt file
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	Config struct {
		AppName            string
		Env                string
		Build              string
		Debug              bool
		TestMode           bool
		SecretKey          string
		JWTExpirationDelta time.Duration
		MaxUploadSize      int64
		CatalogPath        string
		DefaultFromEmail   string
		NotifyEmail        string
		SendgridApiKey     string
		RollbarToken       string

		Storage  StorageConfig
		Database DatabaseConfig
		Server   ServerConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file
// and the environment (prefixed with the env name, eg. DEV_STORAGE_PATH).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "ClassTrack")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "x8#c2l!q0v$k^9d7w)n1(e&r4t*u5m3p")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("maxUploadSize", int64(10<<20)) // 10 MiB
	v.SetDefault("catalogPath", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("notifyEmail", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("storage.engine", "bolt")
	v.SetDefault("storage.path", filepath.Join("data", "classtrack.db"))
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "classtrack")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:            v.GetString("appName"),
		Env:                env,
		Build:              v.GetString("build"),
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		SecretKey:          v.GetString("secretKey"),
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		MaxUploadSize:      v.GetInt64("maxUploadSize"),
		CatalogPath:        v.GetString("catalogPath"),
		DefaultFromEmail:   v.GetString("defaultFromEmail"),
		NotifyEmail:        v.GetString("notifyEmail"),
		SendgridApiKey:     v.GetString("sendgridApiKey"),
		RollbarToken:       v.GetString("rollbarToken"),
		Storage: StorageConfig{
			Engine: strings.ToLower(v.GetString("storage.engine")),
			Path:   v.GetString("storage.path"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			Name:       v.GetString("database.name"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
	}
}
