package handlers

import (
	"log"
	"net/http"
)

// NotificationsHandler upgrades the connection and streams platform events.
// Authentication comes from the token query parameter because browsers cannot
// set an Authorization header on websocket upgrades.
func NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	if hub == nil {
		http.Error(w, "notifications are not available", http.StatusServiceUnavailable)
		return
	}

	tokenStr := r.URL.Query().Get("token")
	if tokenStr != "" {
		r.Header.Set("Authorization", "Bearer "+tokenStr)
	}
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := hub.ServeConn(w, r, claims.UserID); err != nil {
		log.Printf("websocket upgrade failed: %v", err)
	}
}
