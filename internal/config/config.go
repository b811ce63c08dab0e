package config

import (
	"os"
	"strconv"
	"strings"
)

type AsaasConfig struct {
	APIURL            string
	AccessToken       string
	SubscriptionValue string
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type Config struct {
	Port    string
	AppEnv  string
	Asaas   AsaasConfig
	MongoDB MongoConfig
	Site    struct {
		PublicDir        string
		AssetsDir        string
		TranslationsPath string
	}
	CORS struct {
		AllowOrigins string
	}
	// Requests per minute per IP on POST /api/checkout.
	CheckoutRateLimit int
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "3000")
	cfg.AppEnv = getEnv("APP_ENV", "prod")

	// Asaas config
	cfg.Asaas.APIURL = os.Getenv("ASAAS_API_URL")
	cfg.Asaas.AccessToken = os.Getenv("ASAAS_ACCESS_TOKEN")
	cfg.Asaas.SubscriptionValue = os.Getenv("SUBSCRIPTION_VALUE")

	// MongoDB config
	cfg.MongoDB.URI = os.Getenv("MONGODB_URI")
	cfg.MongoDB.Database = getEnv("MONGODB_DB_NAME", "landing")
	cfg.MongoDB.Collection = getEnv("COLLECTION", "img")

	cfg.Site.PublicDir = getEnv("PUBLIC_DIR", "public")
	cfg.Site.AssetsDir = getEnv("ASSETS_DIR", "assets")
	cfg.Site.TranslationsPath = getEnv("TRANSLATIONS_PATH", "assets/translations/translations.json")

	cfg.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "https://clerky.com.br, https://www.clerky.com.br, http://localhost:3000")

	cfg.CheckoutRateLimit = 20
	if raw := strings.TrimSpace(os.Getenv("CHECKOUT_RATE_LIMIT")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.CheckoutRateLimit = n
		}
	}

	return cfg
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}
