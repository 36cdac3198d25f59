package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// The service runs in EKS with DB and AWS settings injected as pod
// environment variables. A .env file, when present, fills in the rest for
// local runs.

type Config struct {
	DBHost                  string `mapstructure:"DB_HOST"`
	DBPort                  string `mapstructure:"DB_PORT"`
	DBUser                  string `mapstructure:"DB_USER"`
	DBPassword              string `mapstructure:"DB_PASSWORD"`
	DBName                  string `mapstructure:"DB_NAME"`
	StorageDriver           string `mapstructure:"STORAGE_DRIVER"`
	ServerPort              string `mapstructure:"SERVER_PORT"`
	AWSRegion               string `mapstructure:"AWS_REGION"`
	AWSEndpoint             string `mapstructure:"AWS_ENDPOINT"`
	NotificationSQSQueueURL string `mapstructure:"NOTIFICATION_SQS_QUEUE_URL"`
	PayrollSQSQueueURL      string `mapstructure:"PAYROLL_SQS_QUEUE_URL"`
	PayrollAPIURL           string `mapstructure:"PAYROLL_API_URL"`
	EmailSender             string `mapstructure:"EMAIL_SENDER"`
	JWTSecret               string `mapstructure:"JWT_SECRET"`
	OTLPEndpoint            string `mapstructure:"OTLP_ENDPOINT"`
	IsLocalDev              bool   `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from a .env file and environment variables.
func LoadConfig() (config Config, err error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	config.StorageDriver = strings.ToLower(strings.TrimSpace(config.StorageDriver))
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "timesheet_db")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	v.SetDefault("NOTIFICATION_SQS_QUEUE_URL", "http://localstack:4566/000000000000/notification-queue")
	v.SetDefault("PAYROLL_SQS_QUEUE_URL", "http://localstack:4566/000000000000/payroll-queue")
	v.SetDefault("PAYROLL_API_URL", "http://payroll-api-mock:8081")
	v.SetDefault("EMAIL_SENDER", "timesheets@example.com")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("OTLP_ENDPOINT", "jaeger:4317")
	v.SetDefault("IS_LOCAL_DEV", false)
}
