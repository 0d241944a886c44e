package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type key string

const (
	KeyTenant        = key("tenant")
	KeyUserID        = key("user_id")
	KeyCorrelationID = key("correlation_id")
)

type Config struct {
	Service   ServiceCfg
	Mongo     MongoCfg
	Kafka     KafkaCfg
	Elastic   ElasticCfg
	Redis     RedisCfg
	RateLimit RateLimitCfg
}

type ServiceCfg struct {
	Name string `env:"SERVICE_NAME" env-default:"message-service"`
	Port string `env:"HTTP_PORT" env-default:"8080"`
	Env  string `env:"SERVICE_ENV" env-default:"dev"`
}

type MongoCfg struct {
	URI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" env-default:"messages"`
}

type KafkaCfg struct {
	Brokers  []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	ClientID string   `env:"KAFKA_CLIENT_ID" env-default:"message-service"`
	GroupID  string   `env:"KAFKA_GROUP_ID" env-default:"message-search-indexer"`
	Topic    string   `env:"KAFKA_TOPIC" env-default:"message-events"`
}

type ElasticCfg struct {
	URL   string `env:"ELASTICSEARCH_URL" env-default:"http://localhost:9200"`
	Index string `env:"ELASTICSEARCH_INDEX" env-default:"messages"`
}

type RedisCfg struct {
	Host     string        `env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `env:"REDIS_PORT" env-default:"6379"`
	Password string        `env:"REDIS_PASSWORD" env-default:""`
	TTL      time.Duration `env:"REDIS_DEFAULT_TTL" env-default:"300s"`
}

type RateLimitCfg struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

func MustLoad() *Config {
	cfg := &Config{}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatalf("failed to read env config: %v", err)
	}

	return cfg
}
