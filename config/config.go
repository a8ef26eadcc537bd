package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Google Sheet the availability slots are synced from.
	GoogleSheetURL       string `mapstructure:"GOOGLE_SHEET_URL"`
	SheetSyncIntervalMin int    `mapstructure:"SHEET_SYNC_INTERVAL_MIN"`
	SheetFetchTimeoutSec int    `mapstructure:"SHEET_FETCH_TIMEOUT_SEC"`

	// Service account used to delete booked rows from the sheet.
	GoogleSheetID             string `mapstructure:"GOOGLE_SHEET_ID"`
	GoogleServiceAccountEmail string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	GoogleServiceAccountKey   string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_KEY"`

	// Razorpay credentials.
	RazorpayKeyID         string `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `mapstructure:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string `mapstructure:"RAZORPAY_WEBHOOK_SECRET"`

	// Pre-shared key for export and slot-admin endpoints.
	ExportAPIKey string `mapstructure:"EXPORT_API_KEY"`

	// SMTP configuration for confirmation emails.
	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	SMTPFrom string `mapstructure:"SMTP_FROM"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values. Every key needs a default (empty for secrets) so
	// viper knows about it; Unmarshal only maps keys viper has registered,
	// and env-only deployments carry no config file to register them.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("GOOGLE_SHEET_URL", "")
	viper.SetDefault("SHEET_SYNC_INTERVAL_MIN", 60)
	viper.SetDefault("SHEET_FETCH_TIMEOUT_SEC", 30)
	viper.SetDefault("GOOGLE_SHEET_ID", "")
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_EMAIL", "")
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_KEY", "")
	viper.SetDefault("RAZORPAY_KEY_ID", "")
	viper.SetDefault("RAZORPAY_KEY_SECRET", "")
	viper.SetDefault("RAZORPAY_WEBHOOK_SECRET", "")
	viper.SetDefault("EXPORT_API_KEY", "")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASS", "")
	viper.SetDefault("SMTP_FROM", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
