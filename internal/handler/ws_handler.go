/*
Package handler provides the HTTP surface of the relay: the WebSocket endpoint,
the roster and health endpoints, and the static client page.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"crewchat/internal/app/chat"
	"crewchat/internal/pkg/errs"
	"crewchat/internal/pkg/logx"
	"crewchat/internal/pkg/randx"
	"crewchat/internal/pkg/resp"
)

// HandleWebSocket upgrades the request and runs the client until it disconnects.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		socketID, err := randx.SocketID()
		if err != nil {
			logx.Error(err, "Failed to generate socket id")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket", "remote_ip", logx.AnonymizeIP(r.RemoteAddr))
			return
		}

		client := chat.NewClient(deps.Hub, conn, socketID, deps.Config.MaxMessageBytes)

		go client.WritePump()

		if !deps.Hub.Register(client) {
			logx.Warn("WebSocket connection rejected: hub stopped.", "socket_id", socketID)
			client.CloseSend()
			return
		}

		logx.Info("WebSocket connection established", "socket_id", socketID)

		client.ReadPump()
	}
}
