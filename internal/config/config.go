package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, loaded once at startup.
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	MQTTBrokerURL string
	MQTTClientID  string
	LogLevel      string
}

// Load reads configuration from the environment, with a .env file as
// fallback when present. Real environment variables always win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getenv("PORT", "8080"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDB:       getenv("MONGO_DB", "routes"),
		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:  getenv("MQTT_CLIENT_ID", "route-catalog"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
}

// MessagingEnabled reports whether the MQTT transport should start. Without
// a broker URL the service runs HTTP-only.
func (c *Config) MessagingEnabled() bool {
	return c.MQTTBrokerURL != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
