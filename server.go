package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
)

// newUpgrader builds the WebSocket upgrader for the configured client
// origin. "*" admits any origin.
func newUpgrader(clientURL string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if clientURL == "*" {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true // non-browser clients don't send Origin
			}
			allowed, err := url.Parse(clientURL)
			if err != nil {
				return false
			}
			got, err := url.Parse(origin)
			if err != nil {
				return false
			}
			return got.Host == allowed.Host
		},
	}
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, cfg *Config) *http.ServeMux {
	mux := http.NewServeMux()
	upgrader := newUpgrader(cfg.ClientURL)

	// WebSocket endpoint; an optional ?playerKey= binds the session to a
	// hub identity for name resolution and score submission.
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		playerKey := r.URL.Query().Get("playerKey")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip, playerKey)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "ok",
			"users":     hub.ClientCount(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// QR code of the public client URL, for joining from a phone
	mux.HandleFunc("/join-qr", func(w http.ResponseWriter, r *http.Request) {
		target := cfg.ClientURL
		if target == "*" || target == "" {
			target = "http://" + r.Host
		}
		png, err := qrcode.Encode(target, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	return mux
}
