package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type EnvConfig struct {
	HTTPAddr       string        `envconfig:"HTTP_ADDR"`
	Port           string        `envconfig:"PORT"`
	DatabaseDSN    string        `envconfig:"DATABASE_DSN"`
	SecretKey      string        `envconfig:"JWT_SECRET"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL"`
	TokenIssuer    string        `envconfig:"TOKEN_ISSUER"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RabbitURL      string        `envconfig:"RABBIT_URL"`
	RabbitExchange string        `envconfig:"RABBIT_EXCHANGE"`
	S3RootUser     string        `envconfig:"S3_ROOT_USER"`
	S3RootPassword string        `envconfig:"S3_ROOT_PASSWORD"`
	S3Bucket       string        `envconfig:"S3_BUCKET"`
	S3Region       string        `envconfig:"S3_REGION"`
	S3BaseEndpoint string        `envconfig:"S3_BASE_ENDPOINT"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
}

// loadDotEnv loads the file named by -env, or ./.env when present.
// Variables already set in the process environment are never overwritten.
func loadDotEnv() {
	if file := flagx.EnvFileFlags(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			panic(err)
		}
	}
}

func parseEnv(config *Config) {
	loadDotEnv()

	e := &EnvConfig{}
	if err := envconfig.Process("", e); err != nil {
		panic(err)
	}

	if e.Port != "" {
		config.HTTPAddr = ":" + e.Port
	}
	setString(&config.HTTPAddr, e.HTTPAddr)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SecretKey, e.SecretKey)
	if e.TokenTTL > 0 {
		config.TokenTTL = e.TokenTTL
	}
	setString(&config.TokenIssuer, e.TokenIssuer)
	setString(&config.RedisAddr, e.RedisAddr)
	setString(&config.RedisPassword, e.RedisPassword)
	setString(&config.RabbitURL, e.RabbitURL)
	setString(&config.RabbitExchange, e.RabbitExchange)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	setString(&config.LogLevel, e.LogLevel)
}

// setString overwrites dst only with a non-empty value, so an unset source
// keeps the lower layer.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
