package config

import "os"

type Config struct {
	Port string

	MercadoPagoBaseURL string
	MercadoPagoToken   string

	WhatsAppBaseURL string
	WhatsAppPhoneID string
	WhatsAppToken   string

	RedisURL   string
	SQLitePath string
}

func Load() Config {
	token := os.Getenv("MP_ACCESS_TOKEN")
	if token == "" {
		// token de teste como fallback
		token = os.Getenv("MP_TEST_ACCESS_TOKEN")
	}

	return Config{
		Port:               envOr("PORT", "8080"),
		MercadoPagoBaseURL: envOr("MP_BASE_URL", "https://api.mercadopago.com"),
		MercadoPagoToken:   token,
		WhatsAppBaseURL:    envOr("WHATSAPP_BASE_URL", "https://graph.facebook.com/v16.0"),
		WhatsAppPhoneID:    os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppToken:      os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		RedisURL:           envOr("REDIS_URL", "redis://127.0.0.1:6379"),
		SQLitePath:         envOr("SQLITE_PATH", "fulfillment.db"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
