package cmd

import "time"

// Config carries every externally supplied setting the application needs.
// Values come from the environment (.env in development).
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	GeocoderBaseURL string
	StripeAPIKey    string

	KafkaHost              string
	KafkaOrderChangedTopic string

	Currency string

	StaleOrderMaxAge   time.Duration
	ReaperCronSchedule string
}
