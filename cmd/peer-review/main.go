package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peer-review-server/internal/config"
	"peer-review-server/internal/lock"
	"peer-review-server/internal/logging"
	"peer-review-server/internal/mcp"
	"peer-review-server/internal/review"
	"peer-review-server/internal/transport"
)

// logLockTimeout bounds how long startup waits for another instance to let
// go of the log file.
const logLockTimeout = 5 * time.Second

func main() {
	cfg := loadAndValidateConfig()

	// The lock is taken before the log file is opened so two concurrently
	// launched instances never interleave writes into it.
	logLock, err := lock.Acquire(cfg.LogFile, logLockTimeout)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("CRITICAL: Could not lock log file %s: %v", cfg.LogFile, err)
		os.Exit(1)
	}
	defer func() {
		if err := logLock.Release(); err != nil {
			log.Printf("Error releasing log lock: %v", err)
		}
	}()

	logFile, err := logging.Setup(cfg.LogFile)
	if err != nil {
		// Degraded to stderr-only inside Setup; keep running.
		log.Printf("Warning: could not open log file %s: %v", cfg.LogFile, err)
	} else {
		defer logFile.Close()
	}

	log.Print("Starting AI Peer Review MCP Server")
	logEffectiveConfig(cfg)

	reviewer := review.NewGeminiClient(cfg)
	processor := mcp.NewProcessor(reviewer)
	handler := transport.NewStdioHandler(processor)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	serverDoneChan := make(chan error, 1)
	go func() {
		serverDoneChan <- handler.Start(os.Stdin, os.Stdout)
	}()

	select {
	case sig := <-shutdownChan:
		// The loop itself stops on stdin EOF; the host closing the pipe is
		// the usual shutdown path.
		log.Printf("Shutdown signal received: %s", sig)
	case err := <-serverDoneChan:
		if err != nil {
			log.Printf("Stdio handler stopped due to error: %v", err)
			logLock.Release()
			if logFile != nil {
				logFile.Close()
			}
			os.Exit(1)
		}
		log.Print("Stdio handler stopped normally")
	}

	log.Print("Server shutting down")
}

func loadAndValidateConfig() *config.Config {
	cfg := config.ParseFlags()
	if err := cfg.Load(); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("CRITICAL: Configuration error: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("CRITICAL: Configuration error: %v", err)
		os.Exit(1)
	}
	return cfg
}

func logEffectiveConfig(cfg *config.Config) {
	log.Print("Effective configuration:")
	log.Printf("  API URL: %s", cfg.APIURL)
	log.Printf("  Credential configured: %t", cfg.APIKey != "")
	log.Printf("  Log file: %s", cfg.LogFile)
	log.Printf("  Request timeout (sec): %d", cfg.RequestTimeoutSec)
}
