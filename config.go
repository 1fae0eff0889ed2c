package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "storefront-service/pkg/aws"

	"storefront-service/services"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Port string

	RedisURL    string
	CartTTL     time.Duration
	CheckoutTTL time.Duration

	// Storefront identity used in the order message.
	StoreName   string
	ContactURL  string
	OrderPrefix string
	Timezone    string

	ShippingFees map[string]float64

	AdminAPIKey  string
	MaxProofSize int64

	// S3 bucket for payment proof uploads; empty disables uploads.
	ProofBucket string
	// SNS topic for order events; empty disables SNS publishing.
	OrderSNSTopicARN string
	// Kafka brokers/topic for order events; empty brokers disable Kafka.
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CartTTL:     getEnvDuration("CART_TTL", 7*24*time.Hour),
		CheckoutTTL: getEnvDuration("CHECKOUT_TTL", 24*time.Hour),

		StoreName:   getEnv("STORE_NAME", "The Peppy Lab"),
		ContactURL:  getEnv("CONTACT_URL", "https://t.me/anntpl"),
		OrderPrefix: getEnv("ORDER_PREFIX", "TPL"),
		Timezone:    getEnv("STORE_TIMEZONE", "Asia/Manila"),

		ShippingFees: map[string]float64{
			services.ShippingLocationNCR:             getEnvFloat("SHIPPING_FEE_NCR", 150),
			services.ShippingLocationLuzon:           getEnvFloat("SHIPPING_FEE_LUZON", 200),
			services.ShippingLocationVisayasMindanao: getEnvFloat("SHIPPING_FEE_VISAYAS_MINDANAO", 250),
		},

		AdminAPIKey:  os.Getenv("ADMIN_API_KEY"),
		MaxProofSize: getEnvInt64("MAX_PROOF_SIZE", 5*1024*1024),

		ProofBucket:      os.Getenv("PROOF_BUCKET"),
		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),
		KafkaTopic:       getEnv("KAFKA_ORDER_TOPIC", "order.events"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	// Override the admin key from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)

			if secret, err := sm.GetSecret(context.Background(), "storefront/ADMIN_CREDENTIALS"); err == nil && secret != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(secret), &m); err == nil {
					if v, ok := m["ADMIN_API_KEY"]; ok && v != "" {
						cfg.AdminAPIKey = v
					}
				}
			}
		}
	}

	if cfg.OrderPrefix == "" {
		return nil, fmt.Errorf("order prefix must not be empty")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
