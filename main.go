package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var stats *StatsJournal
	if cfg.StatsDB != "" {
		stats, err = OpenStatsJournal(cfg.StatsDB)
		if err != nil {
			log.Fatalf("stats journal: %v", err)
		}
		defer stats.Stop()
	}

	room := NewRoom(stats)
	go room.Run()

	scoreHub := NewHubClient(cfg.HubURL, cfg.HostedGameKey)
	hub := NewHub(room, scoreHub, cfg.AdminPassword)
	go hub.Run()

	mux := SetupRoutes(hub, cfg)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}

	go func() {
		log.Printf("Server starting on :%d", cfg.Port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	room.Stop()
	server.Close()
}
