package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	log.Println("=== Worker Fleet Starting ===")

	config := LoadConfig()
	log.Printf("Hub URL: %s", config.HubURL)
	log.Printf("Pool size: %d", config.PoolSize)
	log.Printf("Search depth: %d", config.SearchDepth)

	manager := NewManager(config)
	if err := manager.Start(); err != nil {
		log.Fatalf("failed to start worker pool: %v", err)
	}

	go serveAgentCheck(config.AgentCheckAddr, manager)

	log.Println("=== Worker Fleet Running ===")

	statsTicker := time.NewTicker(30 * time.Second)
	go func() {
		for range statsTicker.C {
			log.Printf("pool idle capacity available: %v", manager.AnyIdle())
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("=== Shutdown Signal Received ===")
	statsTicker.Stop()
	manager.Stop()
	log.Println("=== Worker Fleet Stopped ===")
}
