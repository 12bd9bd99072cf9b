package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	promptdb "github.com/korbirayen/promptdb"
)

func main() {
	dbPath := flag.String("db", "./prompts.sqlite", "path to SQLite database")
	addr := flag.String("addr", "127.0.0.1:7070", "listen address")
	webDir := flag.String("web", "", "optional directory of static UI files to serve")
	flag.Parse()

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		log.Printf("promptdb-web: database %s not found; serving an empty dataset", *dbPath)
	}

	engine, err := promptdb.NewEngine(promptdb.EngineConfig{DBPath: *dbPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "promptdb-web: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	mux := newRouter(engine, *webDir)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      logging(recovery(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("promptdb-web: listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("promptdb-web: %v", err)
		}
	}()

	<-done
	log.Println("promptdb-web: shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("promptdb-web: shutdown error: %v", err)
	}
	log.Println("promptdb-web: stopped")
}
