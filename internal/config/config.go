package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port       string `mapstructure:"port"`
		Env        string `mapstructure:"env"`
		BaseURL    string `mapstructure:"base_url"`
		TrustProxy bool   `mapstructure:"trust_proxy"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		SessionTTL  time.Duration `mapstructure:"session_ttl"`
		ResetTTL    time.Duration `mapstructure:"reset_ttl"`
		ResetSecret string        `mapstructure:"reset_secret"`
	} `mapstructure:"auth"`
	Geo struct {
		MaxResults int `mapstructure:"max_results"`
	} `mapstructure:"geo"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

func LoadConfig(paths ...string) (cfg Config, err error) {

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		viper.AddConfigPath(p)
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err = viper.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("app.base_url", "APP_BASE_URL")
	viper.BindEnv("app.trust_proxy", "APP_TRUST_PROXY")
	viper.BindEnv("db.dsn", "DB_DSN")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("auth.session_ttl", "SESSION_TTL")
	viper.BindEnv("auth.reset_ttl", "RESET_TTL")
	viper.BindEnv("auth.reset_secret", "RESET_SECRET")
	viper.BindEnv("geo.max_results", "GEO_MAX_RESULTS")
	viper.BindEnv("jaeger.otlp_endpoint", "JAEGER_OTLP_ENDPOINT")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.base_url", "http://localhost:8080")
	viper.SetDefault("auth.session_ttl", 24*time.Hour)
	viper.SetDefault("auth.reset_ttl", time.Hour)
	viper.SetDefault("geo.max_results", 500)

	err = viper.Unmarshal(&cfg)
	return
}
