package main

import (
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/garysheng/braindump/config"
	"github.com/garysheng/braindump/store"
)

func main() {
	cfg := config.LoadServer()
	dbPath := flag.String("db", cfg.DBPath, "Path to the braindump SQLite database")
	flag.Parse()

	// Stdout carries the protocol.
	logger := log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

	st, err := store.Open(*dbPath)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	j := &journal{store: st, log: logger}
	if err := server.ServeStdio(j.server()); err != nil {
		logger.Printf("MCP server stopped: %v\n", err)
	}
}
