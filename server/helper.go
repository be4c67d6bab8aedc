package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/models"
)

func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errs.New(err.Error(), http.StatusBadRequest)
	}
	return nil
}

func GetUserFromContext(c *gin.Context) (*models.User, error) {
	if userI, exists := c.Get("user"); exists {
		if user, ok := userI.(*models.User); ok {
			return user, nil
		}
		return nil, errs.New("user is not logged in", http.StatusUnauthorized)
	}
	return nil, errs.New("user is not logged in", http.StatusUnauthorized)
}

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDCtx, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	userID, ok := userIDCtx.(uint)
	return userID, ok
}
