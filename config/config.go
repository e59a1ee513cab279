// Package config loads the service configuration from a YAML file with an
// environment-variable overlay.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath     = "."
	defaultSiteURL  = "http://localhost:8080"
	defaultHTTPPort = 8080
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Mail *MailConfig `json:"mail" yaml:"mail"`

	// AI configuration for generated insights; nil disables the feature.
	AI *AIConfig `json:"ai" yaml:"ai"`

	// PubSub configuration for auth event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// AuthConfig defines authentication-related configuration.
type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`

	AccessTokenTTL  time.Duration `json:"accessTokenTtl" yaml:"accessTokenTtl"`
	RefreshTokenTTL time.Duration `json:"refreshTokenTtl" yaml:"refreshTokenTtl"`

	// RequireEmailConfirmation gates signup behind an emailed exchange code.
	// When false, signup establishes a session immediately.
	RequireEmailConfirmation bool `json:"requireEmailConfirmation" yaml:"requireEmailConfirmation"`

	// SiteURL is the public base URL embedded in confirmation links. Empty
	// falls back to the platform hostname, then localhost; see ResolveSiteURL.
	SiteURL string `json:"siteUrl" yaml:"siteUrl"`

	// ExchangeCodeTTL bounds how long a confirmation link stays valid.
	ExchangeCodeTTL time.Duration `json:"exchangeCodeTtl" yaml:"exchangeCodeTtl"`

	// Callback resolver retry budget for implicit token delivery.
	CallbackRetryAttempts int           `json:"callbackRetryAttempts" yaml:"callbackRetryAttempts"`
	CallbackRetryInterval time.Duration `json:"callbackRetryInterval" yaml:"callbackRetryInterval"`

	// RedirectDelay is honoured by the callback payload so the success state
	// can render before the client navigates away.
	RedirectDelay time.Duration `json:"redirectDelay" yaml:"redirectDelay"`

	CookieDomain string `json:"cookieDomain" yaml:"cookieDomain"`
	CookieSecure bool   `json:"cookieSecure" yaml:"cookieSecure"`
}

// ResolveSiteURL returns the base URL for links embedded in emails: the
// explicit override, then the platform-provided hostname, then localhost.
func (c *AuthConfig) ResolveSiteURL() string {
	if c != nil && strings.TrimSpace(c.SiteURL) != "" {
		return strings.TrimRight(c.SiteURL, "/")
	}
	if host := os.Getenv("PLATFORM_HOSTNAME"); host != "" {
		return "https://" + host
	}

	return defaultSiteURL
}

// Normalized fills zero-valued auth settings with their defaults.
func (c *AuthConfig) Normalized() *AuthConfig {
	out := AuthConfig{}
	if c != nil {
		out = *c
	}
	if out.AccessTokenTTL <= 0 {
		out.AccessTokenTTL = 15 * time.Minute
	}
	if out.RefreshTokenTTL <= 0 {
		out.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if out.ExchangeCodeTTL <= 0 {
		out.ExchangeCodeTTL = 24 * time.Hour
	}
	if out.CallbackRetryAttempts <= 0 {
		out.CallbackRetryAttempts = 3
	}
	if out.CallbackRetryInterval <= 0 {
		out.CallbackRetryInterval = 2 * time.Second
	}
	if out.RedirectDelay <= 0 {
		out.RedirectDelay = time.Second
	}

	return &out
}

// MailConfig selects and configures the outbound mail provider.
type MailConfig struct {
	// Provider type: "log" to only log messages (development) or "smtp".
	Provider string `json:"provider" yaml:"provider"`

	From     string `json:"from" yaml:"from"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// AIConfig configures the Gemini-backed insight generator.
type AIConfig struct {
	APIKey string `json:"apiKey" yaml:"apiKey"`
	Model  string `json:"model" yaml:"model"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = defaultHTTPPort
	}
	cfg.Auth = cfg.Auth.Normalized()

	return cfg, nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
