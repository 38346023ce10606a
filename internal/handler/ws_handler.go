/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
authenticating the connecting user, upgrading the HTTP connection to WebSocket, and
initiating the client lifecycle. Room membership is negotiated afterwards over the
socket itself via joinChat events.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"uniconnect/internal/app/chat"
	"uniconnect/internal/app/user"
	"uniconnect/internal/pkg/auth/jwt"
	"uniconnect/internal/pkg/errs"
	"uniconnect/internal/pkg/limiter"
	"uniconnect/internal/pkg/logx"
	"uniconnect/internal/pkg/resp"
)

// wsToken resolves the session token for a socket request. Browser WebSocket
// clients cannot set headers, so a token query parameter is accepted first,
// then the usual header/cookie locations.
func wsToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return jwt.ExtractToken(r)
}

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		tokenString := wsToken(r)
		if tokenString == "" {
			logx.Warn("WebSocket request rejected: Missing session token")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket request rejected: Invalid session token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		currentUser := user.User{
			ID:   payload.ID,
			Name: payload.Name,
		}

		logx.Info("Attempting to upgrade connection", "user_id", currentUser.ID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.ChatService, conn, currentUser)

		go client.WritePump()

		logx.Info("WebSocket connection established", "client_id", currentUser.ID)

		client.ReadPump()
	}
}
