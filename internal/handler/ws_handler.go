/*
Package handler provides the HTTP handler function for WebSocket connection upgrading.

This file contains HandleWebSocket, which upgrades qualifying requests to the
real-time channel and hands the new connection to the Hub.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"minichat/internal/app/chat"
	"minichat/internal/pkg/logx"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the connection to
// WebSocket, registers the client with the Hub, and runs the message pumps.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied to the client.
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn)

		go client.WritePump()

		deps.Hub.Register(client)

		logx.Info("WebSocket connection established")

		client.ReadPump()
	}
}
