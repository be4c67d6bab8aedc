package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/models"
	"github.com/greenloophq/greenloop/server/response"
	"github.com/greenloophq/greenloop/services"
)

func (s *Server) handleListTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := services.DefaultTaskLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.New("limit must be a positive integer", http.StatusBadRequest))
				return
			}
			limit = parsed
		}
		tasks, err := s.CollectionService.ListOpenTasks(limit)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "tasks retrieved", http.StatusOK, tasks, nil)
	}
}

func (s *Server) handleClaimTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		taskID := c.Param("taskID")
		var request struct {
			Status string `json:"status" binding:"required"`
		}
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if request.Status != models.ReportStatusInProgress && request.Status != models.ReportStatusCompleted {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("status must be in_progress or completed", http.StatusBadRequest))
			return
		}
		task, err := s.CollectionService.Claim(taskID, userID, request.Status)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "task updated", http.StatusOK, task, nil)
	}
}

func (s *Server) handleVerifyCollection() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		taskID := c.Param("taskID")
		image, imgErr := readReportImage(c)
		if imgErr != nil {
			response.JSON(c, "", imgErr.Status, nil, imgErr)
			return
		}
		outcome, err := s.CollectionService.VerifyCollection(c.Request.Context(), taskID, userID, image)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		if !outcome.Verified {
			response.JSON(c, "verification rejected", http.StatusOK, outcome, nil)
			return
		}
		response.JSON(c, "collection verified", http.StatusOK, outcome, nil)
	}
}
