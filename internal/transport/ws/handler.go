package ws

import (
	"log"
	"net/http"

	"github.com/umelife/marketplace/internal/transport/http/middleware"
	"nhooyr.io/websocket"
)

// ServeWS upgrades an authenticated request to a WebSocket connection.
// Browsers cannot set headers on WebSocket requests, so the JWT rides in
// a ?token= query parameter instead of the Authorization header.
func ServeWS(hub *Hub, jwtSecret string) http.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := middleware.ParseUserID(tokenStr, secret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			log.Printf("ws: accept error: %v", err)
			return
		}

		client := NewClient(hub, conn, userID)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
