package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	Environment   string `default:"dev"`
	ListenAddress string `split_words:"true" default:":8080"`
	AllowedOrigin string `split_words:"true" default:"*"`
	SecureCookies bool   `split_words:"true" default:"false"`

	// SessionSecret signs the session cookie. It has to be provided at startup;
	// a baked-in literal is not an acceptable fallback.
	SessionSecret   string        `split_words:"true" required:"true"`
	SessionLifetime time.Duration `split_words:"true" default:"12h"`

	CognitoRegion       string `split_words:"true" required:"true"`
	CognitoUserPoolID   string `envconfig:"COGNITO_USER_POOL_ID" required:"true"`
	CognitoClientID     string `envconfig:"COGNITO_CLIENT_ID" required:"true"`
	CognitoClientSecret string `envconfig:"COGNITO_CLIENT_SECRET" required:"true"`

	BedrockModelID      string  `envconfig:"BEDROCK_MODEL_ID" default:"amazon.titan-text-express-v1"`
	BedrockMaxTokens    int     `split_words:"true" default:"1024"`
	BedrockTemperature  float64 `split_words:"true" default:"0.2"`
	BedrockTopP         float64 `envconfig:"BEDROCK_TOP_P" default:"0.9"`
	BedrockStopSequence string  `split_words:"true" default:"User:"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("st", config); err != nil {
		return nil, err
	}
	return config, nil
}

// IsEnvProduction returns whether the application runs in a production environment
func (config *Config) IsEnvProduction() bool {
	return config.Environment == "prod"
}
