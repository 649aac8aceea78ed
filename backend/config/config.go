package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string
	JWTSecret      string
	DBPath         string
	ContentRoot    string
	ManifestPath   string
	CertDir        string
	VerifyBaseURL  string
	PriceAPIURL    string
	PriceCachePath string
	WalletAPIBase  string
	WalletAPIKey   string
	DevMode        bool // manifest auto-reload on file change
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	contentRoot := getEnv("CONTENT_ROOT", "content")

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		DBPath:         getEnv("DB_PATH", "data/portal.db"),
		ContentRoot:    contentRoot,
		ManifestPath:   getEnv("MANIFEST_PATH", filepath.Join(contentRoot, "catalog_manifest.json")),
		CertDir:        getEnv("CERT_DIR", "certs/generated"),
		VerifyBaseURL:  getEnv("VERIFY_BASE_URL", ""),
		PriceAPIURL:    getEnv("PRICE_API_URL", "https://api.coindesk.com/v1/bpi/currentprice/BTC.json"),
		PriceCachePath: getEnv("PRICE_CACHE_PATH", "data/price_cache.json"),
		WalletAPIBase:  getEnv("WALLET_API_BASE", ""),
		WalletAPIKey:   getEnv("WALLET_API_KEY", ""),
		DevMode:        getEnv("PORTAL_DEV", "0") == "1",
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
