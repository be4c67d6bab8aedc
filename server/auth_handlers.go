package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenloophq/greenloop/models"
	"github.com/greenloophq/greenloop/server/response"
)

func (s *Server) handleCreateSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.SessionRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		sessionResponse, err := s.AuthService.CreateSession(&request)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "session created", http.StatusOK, sessionResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		if err := s.AuthService.Logout(accessToken); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, err)
			return
		}
		response.JSON(c, "user retrieved", http.StatusOK, models.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		}, nil)
	}
}
