package main

import (
	"os"
	"strconv"
)

// Config is the worker binary's environment-driven configuration.
type Config struct {
	HubURL        string
	PoolSize      int
	SearchDepth   int
	TTSize        int
	AgentCheckAddr string
}

func LoadConfig() *Config {
	poolSize, _ := strconv.Atoi(getEnv("WORKER_POOL_SIZE", "4"))
	depth, _ := strconv.Atoi(getEnv("WORKER_DEPTH", "4"))
	ttSize, _ := strconv.Atoi(getEnv("WORKER_TT_SIZE", "1048576"))

	return &Config{
		HubURL:         getEnv("HUB_URL", "ws://localhost:8080/ws/worker"),
		PoolSize:       poolSize,
		SearchDepth:    depth,
		TTSize:         ttSize,
		AgentCheckAddr: getEnv("AGENT_CHECK_ADDR", ":9000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
