package main

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// Manager owns the pool of Workers dialed against the hub.
type Manager struct {
	config   *Config
	workers  []*Worker
	mu       sync.RWMutex
	draining int32 // atomic
}

func NewManager(config *Config) *Manager {
	return &Manager{
		config:  config,
		workers: make([]*Worker, 0, config.PoolSize),
	}
}

// Start dials every worker in the pool, continuing past individual
// connection failures so a partially-reachable hub still gets a pool.
func (m *Manager) Start() error {
	log.Printf("starting worker pool with size: %d", m.config.PoolSize)

	for i := 0; i < m.config.PoolSize; i++ {
		worker := NewWorker(i+1, m.config.HubURL, m.config.SearchDepth, m.config.TTSize)

		if err := worker.Connect(); err != nil {
			log.Printf("worker %d failed to connect: %v (continuing with remaining workers)", i+1, err)
			continue
		}

		m.mu.Lock()
		m.workers = append(m.workers, worker)
		m.mu.Unlock()

		go worker.Run()
		log.Printf("worker %d/%d connected", i+1, m.config.PoolSize)
	}

	m.mu.RLock()
	connected := len(m.workers)
	m.mu.RUnlock()

	if connected == 0 {
		return fmt.Errorf("no workers connected successfully")
	}
	log.Printf("worker pool ready: %d/%d connected", connected, m.config.PoolSize)
	return nil
}

// Stop marks the pool as draining — so in-flight agent-check polls report
// "drain" rather than "down" while Stop disconnects every worker — then
// closes all connections.
func (m *Manager) Stop() {
	log.Println("stopping worker pool...")
	atomic.StoreInt32(&m.draining, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.workers {
		w.Disconnect()
	}
	log.Printf("all %d workers stopped", len(m.workers))
}

// Draining reports whether Stop has been called, for the agent-check
// responder's "drain" state.
func (m *Manager) Draining() bool {
	return atomic.LoadInt32(&m.draining) != 0
}

// AnyIdle reports whether at least one worker in the pool is not
// currently inside a DecideMove call — the signal the agent-check
// responder reports upstream.
func (m *Manager) AnyIdle() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.workers) == 0 {
		return false
	}
	for _, w := range m.workers {
		if !w.IsBusy() {
			return true
		}
	}
	return false
}
