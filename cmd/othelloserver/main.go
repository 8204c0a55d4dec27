// Command othelloserver runs the Othello REST API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/othello/pkg/api"
	"github.com/yourusername/othello/pkg/engine"
)

const version = "0.1.0"

func main() {
	// Command line flags
	host := flag.String("host", "localhost", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "Port to listen on")
	cacheSize := flag.Uint("cache", 0, "Transposition cache entries (0 = default)")
	noBook := flag.Bool("no-book", false, "Disable the opening book")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	slowWorkers := flag.Int("slow-workers", 4, "Max concurrent search requests")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("Othello API Server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("Othello API Server v%s", version)
	log.Printf("Opening book: %d positions", engine.BookSize())

	eng := engine.NewEngine(engine.Options{
		CacheSize:   uint32(*cacheSize),
		DisableBook: *noBook,
	})

	config := api.DefaultConfig()
	config.Host = *host
	config.Port = *port
	config.ReadTimeout = *readTimeout
	config.WriteTimeout = *writeTimeout
	config.MaxSlowWorkers = *slowWorkers

	server := api.NewServer(eng, config, version)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
