package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto/x509"

	"perlin-map/internal/config"
	"perlin-map/internal/server"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	settingsPath := flag.String("config", "settings.json", "settings file (optional)")
	flag.Parse()

	settings, loaded, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Settings error: %v", err)
	}
	if loaded {
		log.Printf("Loaded settings from %s", *settingsPath)
	} else {
		log.Printf("No %s found, using defaults", *settingsPath)
	}

	// Generate host key if it doesn't exist
	if err := ensureHostKey(settings.Server.HostKey); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	defaults := server.NewRequest(settings.Generator)
	limits := settings.Limits

	ws := server.NewWSServer(settings.Server.HTTPAddr, defaults, limits)
	go func() {
		if err := ws.Start(); err != nil {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	tcp := server.NewTCPServer(settings.Server.TCPAddr, defaults, limits)
	go func() {
		if err := tcp.Start(); err != nil {
			log.Fatalf("TCP server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tcp.Stop(shutdownCtx); err != nil {
			log.Printf("TCP shutdown: %v", err)
		}
		os.Exit(0)
	}()

	// Start SSH server (blocks)
	sshServer := server.NewSSHServer(settings.Server.SSHAddr, settings.Server.HostKey, defaults, limits)
	_, port, _ := net.SplitHostPort(settings.Server.SSHAddr)
	log.Printf("Starting map server, view a map with: ssh -t -p %s localhost -- -land 40", port)
	if err := sshServer.Start(); err != nil {
		log.Fatalf("SSH server error: %v", err)
	}
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
