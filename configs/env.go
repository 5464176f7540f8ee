package configs

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the service reads from the environment. A .env
// file is loaded when present so local runs match the deployed process.
type Config struct {
	Port     string `envconfig:"PORT" default:"6000"`
	MongoURI string `envconfig:"MONGOURI" required:"true"`
	MongoDB  string `envconfig:"MONGO_DB" default:"deliveryApp"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	WhatsAppAccessToken   string `envconfig:"WHATSAPP_ACCESS_TOKEN" required:"true"`
	WhatsAppPhoneNumberID string `envconfig:"WHATSAPP_PHONE_NUMBER_ID" required:"true"`
	WhatsAppVerifyToken   string `envconfig:"WHATSAPP_VERIFY_TOKEN" required:"true"`

	RazorpayKeyID         string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `envconfig:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string `envconfig:"RAZORPAY_WEBHOOK_SECRET"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	AppURL    string `envconfig:"APP_URL" default:"http://localhost:6000"`

	SearchRadiusKm float64       `envconfig:"SEARCH_RADIUS_KM" default:"5"`
	DeliveryWindow time.Duration `envconfig:"DELIVERY_WINDOW" default:"45m"`
}

func Load() (Config, error) {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
