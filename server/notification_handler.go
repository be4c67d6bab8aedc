package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/server/response"
)

func (s *Server) handleListUnreadNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		notifications, err := s.NotificationService.ListUnread(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "notifications retrieved", http.StatusOK, notifications, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		notificationID, parseErr := strconv.ParseUint(c.Param("notificationID"), 10, 32)
		if parseErr != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid notification id", http.StatusBadRequest))
			return
		}
		if err := s.NotificationService.MarkRead(userID, uint(notificationID)); err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "notification marked as read", http.StatusOK, nil, nil)
	}
}
