package main

import (
	"bufio"
	"log"
	"net"
)

// serveAgentCheck answers the HAProxy/Envoy agent-check protocol: each
// connection gets one line ("up", "down", or "drain") reflecting whether
// the pool has spare capacity, then the connection closes.
func serveAgentCheck(addr string, pool *Manager) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("agent-check listener failed on %s: %v", addr, err)
		return
	}
	log.Printf("agent-check responder listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("agent-check accept error: %v", err)
			continue
		}
		go respondAgentCheck(conn, pool)
	}
}

func respondAgentCheck(conn net.Conn, pool *Manager) {
	defer conn.Close()
	status := "down\n"
	switch {
	case pool.Draining():
		status = "drain\n"
	case pool.AnyIdle():
		status = "up\n"
	}
	w := bufio.NewWriter(conn)
	w.WriteString(status)
	w.Flush()
}
