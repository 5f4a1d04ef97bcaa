package config

import "os"

type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	SearchAPIKey  string
	SearchBaseURL string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "recipevault"),
		JWTSecret:     getEnv("JWT_SECRET", "supersecretjwtkey"),
		SearchAPIKey:  getEnv("SEARCH_API_KEY", ""),
		SearchBaseURL: getEnv("SEARCH_API_URL", "https://api.spoonacular.com"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
