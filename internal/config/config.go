package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSTopicARN    string // optional; invite events are skipped when empty

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiryDays     int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// PublicBaseURL is the externally visible origin used to build signup
	// links embedded in invitation emails.
	PublicBaseURL string

	// TrustCookieIdentity widens the unsigned user_id cookie from a
	// read-path hint to an identity accepted for state mutations. Off by
	// default; only the verified JWT path may mutate state.
	TrustCookieIdentity bool

	// AllowDuplicateNotifications keeps the historical behavior of one
	// notification record per invite attempt. When false, an existing
	// unread board invite for the same user/board suppresses a new record.
	AllowDuplicateNotifications bool

	// InviteTokenExpiryDays bounds the lifetime of email invitation tokens.
	InviteTokenExpiryDays int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Boards        string
	Columns       string
	Cards         string
	Notifications string
	InviteTokens  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Boards:        getEnv("DYNAMO_TABLE_BOARDS", "boards"),
			Columns:       getEnv("DYNAMO_TABLE_COLUMNS", "columns"),
			Cards:         getEnv("DYNAMO_TABLE_CARDS", "cards"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			InviteTokens:  getEnv("DYNAMO_TABLE_INVITE_TOKENS", "invite_tokens"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "kanban-board-backgrounds"),
		SNSTopicARN:  getEnv("SNS_INVITE_TOPIC_ARN", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiryDays:     getEnvInt("JWT_EXPIRY_DAYS", 7),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		TrustCookieIdentity:         getEnvBool("TRUST_COOKIE_IDENTITY", false),
		AllowDuplicateNotifications: getEnvBool("ALLOW_DUPLICATE_NOTIFICATIONS", true),
		InviteTokenExpiryDays:       getEnvInt("INVITE_TOKEN_EXPIRY_DAYS", 14),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// InviteTokenExpiry returns the invite token lifetime as a duration.
func (c *Config) InviteTokenExpiry() time.Duration {
	return time.Duration(c.InviteTokenExpiryDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
