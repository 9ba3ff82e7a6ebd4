package env

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/grana-sh/grana/internal/envparse"
	"github.com/grana-sh/grana/internal/envutil"
	"github.com/joho/godotenv"
)

type RegistrationMode string

const (
	RegistrationEnabled  RegistrationMode = "enabled"
	RegistrationDisabled RegistrationMode = "disabled"
)

func parseRegistrationMode(value string) (RegistrationMode, error) {
	switch RegistrationMode(value) {
	case RegistrationEnabled, RegistrationDisabled:
		return RegistrationMode(value), nil
	default:
		return "", fmt.Errorf("invalid registration mode: %v", value)
	}
}

type EvolutionConfig struct {
	BaseURL  string
	APIKey   string
	Instance string
}

func (c EvolutionConfig) Complete() bool {
	return c.BaseURL != "" && c.APIKey != "" && c.Instance != ""
}

var (
	databaseUrl                   string
	databaseMaxConns              *int
	jwtSecret                     []byte
	host                          string
	sessionTokenValidDuration     time.Duration
	registration                  RegistrationMode
	evolutionConfig               EvolutionConfig
	webhookAPIKey                 *string
	enableQueryLogging            bool
	enableDebugLogging            bool
	sentryDSN                     string
	sentryDebug                   bool
	sentryEnvironment             string
	serverShutdownDelayDuration   *time.Duration
	cleanupOtpVerificationCron    *string
	cleanupOtpVerificationTimeout time.Duration
	otpVerificationMaxAge         time.Duration
)

func Initialize() {
	if currentEnv, ok := os.LookupEnv("GRANA_ENV"); ok {
		fmt.Fprintf(os.Stderr, "environment=%v\n", currentEnv)
		if err := godotenv.Load(currentEnv); err != nil {
			fmt.Fprintf(os.Stderr, "environment %v not loaded: %v\n", currentEnv, err)
		}
		secretEnv := currentEnv + ".secret"
		if err := godotenv.Load(secretEnv); err != nil {
			fmt.Fprintf(os.Stderr, "environment %v not loaded: %v\n", secretEnv, err)
		}
	}

	databaseUrl = envutil.RequireEnv("DATABASE_URL")
	databaseMaxConns = envutil.GetEnvParsedOrNil("DATABASE_MAX_CONNS", strconv.Atoi)
	jwtSecret = envutil.RequireEnvParsed("JWT_SECRET", base64.StdEncoding.DecodeString)
	host = envutil.GetEnvOrDefault("GRANA_HOST", ":8080")
	sessionTokenValidDuration = envutil.GetEnvParsedOrDefault(
		"SESSION_TOKEN_VALID_DURATION", envparse.PositiveDuration, 24*time.Hour,
	)
	registration = envutil.GetEnvParsedOrDefault("REGISTRATION", parseRegistrationMode, RegistrationEnabled)
	enableQueryLogging = envutil.GetEnvParsedOrDefault("ENABLE_QUERY_LOGGING", strconv.ParseBool, false)
	enableDebugLogging = envutil.GetEnvParsedOrDefault("ENABLE_DEBUG_LOGGING", strconv.ParseBool, false)
	serverShutdownDelayDuration = envutil.GetEnvParsedOrNil("SERVER_SHUTDOWN_DELAY_DURATION", envparse.PositiveDuration)

	// The Evolution API config is deliberately optional: when it is incomplete,
	// sending fails closed with a user-visible error instead of crashing at boot.
	evolutionConfig.BaseURL = envutil.GetEnv("EVOLUTION_API_URL")
	evolutionConfig.APIKey = envutil.GetEnv("EVOLUTION_API_KEY")
	evolutionConfig.Instance = envutil.GetEnv("EVOLUTION_INSTANCE")
	webhookAPIKey = envutil.GetEnvOrNil("WEBHOOK_API_KEY")

	sentryDSN = envutil.GetEnv("SENTRY_DSN")
	sentryDebug = envutil.GetEnvParsedOrDefault("SENTRY_DEBUG", strconv.ParseBool, false)
	sentryEnvironment = envutil.GetEnv("SENTRY_ENVIRONMENT")

	cleanupOtpVerificationCron = envutil.GetEnvOrNil("CLEANUP_OTP_VERIFICATION_CRON")
	cleanupOtpVerificationTimeout = envutil.GetEnvParsedOrDefault("CLEANUP_OTP_VERIFICATION_TIMEOUT",
		envparse.PositiveDuration, 0)
	otpVerificationMaxAge = envutil.GetEnvParsedOrDefault("OTP_VERIFICATION_MAX_AGE",
		envparse.PositiveDuration, 30*24*time.Hour)
}

func DatabaseUrl() string {
	return databaseUrl
}

// DatabaseMaxConns allows to override the MaxConns parameter of the pgx pool config.
func DatabaseMaxConns() *int {
	return databaseMaxConns
}

func JWTSecret() []byte {
	return jwtSecret
}

func Host() string { return host }

func SessionTokenValidDuration() time.Duration {
	return sessionTokenValidDuration
}

func Registration() RegistrationMode {
	return registration
}

func GetEvolutionConfig() EvolutionConfig {
	return evolutionConfig
}

func WebhookAPIKey() *string {
	return webhookAPIKey
}

func EnableQueryLogging() bool {
	return enableQueryLogging
}

func EnableDebugLogging() bool {
	return enableDebugLogging
}

func SentryDSN() string {
	return sentryDSN
}

func SentryDebug() bool {
	return sentryDebug
}

func SentryEnvironment() string {
	return sentryEnvironment
}

func ServerShutdownDelayDuration() *time.Duration {
	return serverShutdownDelayDuration
}

func CleanupOtpVerificationCron() *string {
	return cleanupOtpVerificationCron
}

func CleanupOtpVerificationTimeout() time.Duration {
	return cleanupOtpVerificationTimeout
}

func OtpVerificationMaxAge() time.Duration {
	return otpVerificationMaxAge
}
