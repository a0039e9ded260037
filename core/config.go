package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string
		API          APIConfig
		Session      SessionConfig
		Server       ServerConfig
	}

	APIConfig struct {
		BaseURL  string
		Timeout  time.Duration
		PageSize int
	}

	SessionConfig struct {
		Path string // buntdb file; ":memory:" keeps the session in-process
	}

	ServerConfig struct {
		Host               string
		Address            string
		DebugAddress       string
		SecretKey          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
		DisableReqLogs     bool
	}
)

// NewConfig reads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "CodeGrow")
	conf.SetDefault("build", "develop")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("apiBaseURL", "http://127.0.0.1:8000/api/")
	conf.SetDefault("apiTimeout", 30*time.Second)
	conf.SetDefault("apiPageSize", 10)
	conf.SetDefault("sessionPath", filepath.Join(os.TempDir(), "codegrow-session.db"))
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("serverDebugAddress", ":4000")
	conf.SetDefault("secretKey", "k2#9f@codegrow-dev-only-secret!x7q")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("shutdownTimeout", 5*time.Second)
	conf.SetDefault("disableReqLogs", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if root, ok := ProjectRoot(); ok {
		dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL:  conf.GetString("apiBaseURL"),
			Timeout:  conf.GetDuration("apiTimeout"),
			PageSize: conf.GetInt("apiPageSize"),
		},
		Session: SessionConfig{
			Path: conf.GetString("sessionPath"),
		},
		Server: ServerConfig{
			Host:               conf.GetString("serverHost"),
			Address:            conf.GetString("serverAddress"),
			DebugAddress:       conf.GetString("serverDebugAddress"),
			SecretKey:          conf.GetString("secretKey"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    conf.GetDuration("shutdownTimeout"),
			DisableReqLogs:     conf.GetBool("disableReqLogs"),
		},
	}
}
