package config

import (
	"os"
	"strings"

	id "datatrail/pkg/domain"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	AdminPrincipal id.Principal
	JWTSigningKey  string
	// AdminAPIKeyHash is a bcrypt hash of the out-of-band admin key accepted
	// as an alternative to a JWT for registry administration.
	AdminAPIKeyHash string

	PostgresDSN  string
	RedisAddr    string
	RedisStream  string
	KafkaBrokers []string
	KafkaTopic   string

	// NotifierSink selects where change notifications go: "memory",
	// "postgres", "kafka" or "redis".
	NotifierSink string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("DATATRAIL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	admin := os.Getenv("DATATRAIL_ADMIN_PRINCIPAL")
	if admin == "" {
		admin = "admin"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("KAFKA_NOTIFICATIONS_TOPIC")
	if topic == "" {
		topic = "datatrail.notifications"
	}

	stream := os.Getenv("REDIS_NOTIFICATIONS_STREAM")
	if stream == "" {
		stream = "datatrail:notifications"
	}

	sink := os.Getenv("DATATRAIL_NOTIFIER_SINK")
	if sink == "" {
		sink = "memory"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:            addr,
		AdminPrincipal:  id.Principal(admin),
		JWTSigningKey:   jwtSigningKey,
		AdminAPIKeyHash: os.Getenv("DATATRAIL_ADMIN_API_KEY_HASH"),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisStream:     stream,
		KafkaBrokers:    brokers,
		KafkaTopic:      topic,
		NotifierSink:    sink,
	}
}
