package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const notificationPushInterval = 15 * time.Second

// handleNotificationStream pushes the user's unread notifications over a
// websocket at a fixed interval, so open clients see new reward and
// collection events without polling.
func (s *Server) handleNotificationStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// Drain client frames so close messages are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(notificationPushInterval)
		defer ticker.Stop()

		for {
			notifications, err := s.NotificationService.ListUnread(userID)
			if err != nil {
				log.Printf("notification stream: list unread: %v", err)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(notifications); err != nil {
				return
			}
			select {
			case <-ticker.C:
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}
