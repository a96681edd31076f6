package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Catalog    CatalogConfig
	AISearch   AISearchConfig
	Cloudinary CloudinaryConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

// CatalogConfig carries the tunables of the catalog facet heuristics. The
// material vocabulary and category denylist are data, not code, so a
// deployment can adjust them without a rebuild.
type CatalogConfig struct {
	FacetSampleSize    int // rows sampled for free-text-derived facets
	FacetValueCap      int // upper bound on distinct values fetched per facet
	FacetCacheTTL      int // in seconds
	MaterialVocabulary []string
	CategoryDenylist   []string
}

// AISearchConfig configures the remote smart-search backend. BaseURLs are
// tried in order until one returns a usable filter payload.
type AISearchConfig struct {
	BaseURLs       []string
	TimeoutSeconds int
	Enabled        bool
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// defaultMaterialVocabulary is the fixed list of fabric names matched against
// free-text fabric descriptions when deriving the materials facet.
var defaultMaterialVocabulary = []string{
	"Acrylic", "Bamboo", "Canvas", "Cotton", "Denim", "Elastane", "Fleece",
	"Jersey", "Linen", "Lycra", "Merino Wool", "Mesh", "Microfibre", "Nylon",
	"Organic Cotton", "Oxford", "Pique", "Polyester", "Recycled Polyester",
	"Ripstop", "Softshell", "Spandex", "Twill", "Wool",
}

// defaultCategoryDenylist filters marketing tags out of the pipe-delimited
// categorization text before it becomes a category facet value.
var defaultCategoryDenylist = []string{
	"Top 1000", "DM", "Raladeal", "Edge -", "New in", "Must Haves",
}

func Load() *Config {
	// A local .env is optional; real deployments configure via environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 60)
	viper.SetDefault("FACET_SAMPLE_SIZE", 500)
	viper.SetDefault("FACET_VALUE_CAP", 10000)
	viper.SetDefault("FACET_CACHE_TTL", 300)
	viper.SetDefault("AI_SEARCH_TIMEOUT", 10)
	viper.SetDefault("AI_SEARCH_ENABLED", true)

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(viper.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Catalog: CatalogConfig{
			FacetSampleSize:    viper.GetInt("FACET_SAMPLE_SIZE"),
			FacetValueCap:      viper.GetInt("FACET_VALUE_CAP"),
			FacetCacheTTL:      viper.GetInt("FACET_CACHE_TTL"),
			MaterialVocabulary: listOrDefault("MATERIAL_VOCABULARY", defaultMaterialVocabulary),
			CategoryDenylist:   listOrDefault("CATEGORY_DENYLIST", defaultCategoryDenylist),
		},
		AISearch: AISearchConfig{
			BaseURLs:       splitList(viper.GetString("AI_SEARCH_URLS")),
			TimeoutSeconds: viper.GetInt("AI_SEARCH_TIMEOUT"),
			Enabled:        viper.GetBool("AI_SEARCH_ENABLED"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
		},
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func listOrDefault(key string, def []string) []string {
	if v := splitList(viper.GetString(key)); len(v) > 0 {
		return v
	}
	return def
}
