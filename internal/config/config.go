package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Auth holds the authentication service configuration. It is parsed
// once at boot and passed by value to the components that need it.
type Auth struct {
	AppPort string `env:"APP_PORT" envDefault:"8000"`

	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisSSL  bool   `env:"REDIS_SSL" envDefault:"false"`

	GoogleAuthURL      string `env:"GOOGLE_OAUTH_AUTH_URL" envDefault:"https://accounts.google.com/o/oauth2/auth"`
	GoogleTokenURL     string `env:"GOOGLE_OAUTH_TOKEN_URL,required"`
	GoogleUserInfoURL  string `env:"GOOGLE_OAUTH_USERINFO_URL,required"`
	GoogleClientID     string `env:"GOOGLE_OAUTH_CLIENT_ID,required"`
	GoogleClientSecret string `env:"GOOGLE_OAUTH_CLIENT_SECRET,required"`
	GoogleRedirectURI  string `env:"GOOGLE_OAUTH_REDIRECT_URI" envDefault:"http://localhost:8000/auth/google"`

	WebFrontendURL string `env:"WEB_FRONTEND_URL,required"`

	SessionTTLSeconds int    `env:"SESSION_EXPIRE_TIME_SECONDS" envDefault:"3600"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"WARNING"`
}

// Web holds the front-end service configuration.
type Web struct {
	AppPort string `env:"APP_PORT" envDefault:"5000"`

	AuthServiceURL string `env:"AUTH_SERVICE_URL,required"`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`

	// SecretKey is accepted for environment compatibility with earlier
	// deployments; session ids are opaque and server-verified, so no
	// signing happens here.
	SecretKey string `env:"SECRET_KEY,required"`

	SessionTTLSeconds int    `env:"SESSION_EXPIRE_TIME_SECONDS" envDefault:"3600"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"WARNING"`
}

// LoadAuth reads the auth service configuration from the environment,
// loading a .env file first when one exists.
func LoadAuth() (Auth, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Auth]()
	if err != nil {
		return Auth{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadWeb reads the front-end service configuration from the environment.
func LoadWeb() (Web, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Web]()
	if err != nil {
		return Web{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
