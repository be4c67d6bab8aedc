package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/models"
	"github.com/greenloophq/greenloop/server/response"
	"github.com/greenloophq/greenloop/services"
)

const maxReportImageBytes = 10 << 20

// readReportImage pulls the optional "image" part out of a multipart
// submission. A missing part is not an error, the report is simply
// stored unverified.
func readReportImage(c *gin.Context) (*services.ReportImage, *errs.Error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, errs.New("unable to read image upload", http.StatusBadRequest)
	}
	if fileHeader.Size > maxReportImageBytes {
		return nil, errs.New("image exceeds the 10MB upload limit", http.StatusBadRequest)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errs.New("unable to read image upload", http.StatusBadRequest)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errs.New("unable to read image upload", http.StatusBadRequest)
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &services.ReportImage{Data: data, MimeType: mimeType}, nil
}

func (s *Server) handleSubmitReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		request := models.CreateReportRequest{
			Location:  c.PostForm("location"),
			WasteType: c.PostForm("waste_type"),
			Amount:    c.PostForm("amount"),
		}
		image, imgErr := readReportImage(c)
		if imgErr != nil {
			response.JSON(c, "", imgErr.Status, nil, imgErr)
			return
		}
		report, err := s.ReportService.SubmitReport(c.Request.Context(), userID, &request, image)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "report submitted", http.StatusCreated, report, nil)
	}
}

func (s *Server) handleListRecentReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := services.DefaultRecentReportLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.New("limit must be a positive integer", http.StatusBadRequest))
				return
			}
			limit = parsed
		}
		reports, err := s.ReportService.ListRecentReports(limit)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "reports retrieved", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleListUserReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		reports, err := s.ReportService.ListUserReports(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "reports retrieved", http.StatusOK, reports, nil)
	}
}
