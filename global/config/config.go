package config

import (
	"time"

	"NProject/data/database/mgo/mongoutil"
	redis "NProject/service/storage/redis"
	"NProject/tools"
)

// AppConfig is assembled once in main and handed down to every component;
// nothing reads the environment after start-up.
type AppConfig struct {
	NodeID   string
	Port     int
	JWT      JWTConfig
	Mongo    mongoutil.Config
	Redis    redis.Config
	Presence PresenceConfig
}

type JWTConfig struct {
	Secret []byte
	TTL    time.Duration
}

type PresenceConfig struct {
	TTL time.Duration
}

// Load reads the environment with development defaults.
func Load() *AppConfig {
	return &AppConfig{
		NodeID: tools.GetEnv("NODE_ID", "notes_gw-1"),
		Port:   tools.GetEnvInt("PORT", 3000),
		JWT: JWTConfig{
			Secret: []byte(tools.GetEnv("TOKEN_KEY", "dev-only-secret")),
			TTL:    time.Duration(tools.GetEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		},
		Mongo: mongoutil.Config{
			Uri:         tools.GetEnv("MONGODB_URL", "mongodb://localhost:27017"),
			Database:    tools.GetEnv("MONGODB_DATABASE", "collabNotes"),
			MaxPoolSize: tools.GetEnvInt("MONGODB_MAX_POOL", 20),
		},
		Redis: redis.Config{
			Addr:     tools.GetEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: tools.GetEnv("REDIS_PASSWORD", ""),
			DB:       tools.GetEnvInt("REDIS_DB", 0),
		},
		Presence: PresenceConfig{
			TTL: time.Duration(tools.GetEnvInt("PRESENCE_TTL_SECONDS", 300)) * time.Second,
		},
	}
}
