package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	// S3 storage for archived syllabus documents
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	// GCP settings (Pub/Sub events, Secret Manager key lookup)
	GCPProjectID         string `envconfig:"GCP_PROJECT_ID"`
	PubSubProcessedTopic string `envconfig:"PUBSUB_PROCESSED_TOPIC" default:"syllabus-processed"`

	// OpenAI settings for syllabus structuring
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel     string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini-2024-07-18"`
	ParseTimeoutSec int    `envconfig:"PARSE_TIMEOUT_SEC" default:"60"`

	// Rate limiting for the structuring endpoint
	RateLimitWindowSec   int `envconfig:"RATE_LIMIT_WINDOW_SEC" default:"3600"`
	RateLimitMaxRequests int `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"10"`

	// SMTP settings for digest emails
	SMTPHost      string `envconfig:"SMTP_HOST"`
	SMTPPort      int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername  string `envconfig:"SMTP_USERNAME"`
	SMTPPassword  string `envconfig:"SMTP_PASSWORD"`
	SMTPFromName  string `envconfig:"SMTP_FROM_NAME" default:"Syllabus Manager"`
	SMTPFromEmail string `envconfig:"SMTP_FROM_EMAIL" default:"notifications@syllabusmanager.com"`

	// Digest orchestrator settings
	DigestQueueName           string `envconfig:"DIGEST_QUEUE_NAME" default:"digest_queue"`
	DigestPollTimeoutSec      int    `envconfig:"DIGEST_POLL_TIMEOUT_SEC" default:"30"`
	DigestPollMaxMsg          int    `envconfig:"DIGEST_POLL_MAX_MSG" default:"1"`
	DigestMaxRetries          int    `envconfig:"DIGEST_MAX_RETRIES" default:"5"`
	DigestBackoffInitialSec   int    `envconfig:"DIGEST_BACKOFF_INITIAL_SEC" default:"1"`
	DigestBackoffMaxSec       int    `envconfig:"DIGEST_BACKOFF_MAX_SEC" default:"60"`
	DigestDispatchIntervalMin int    `envconfig:"DIGEST_DISPATCH_INTERVAL_MIN" default:"1440"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
