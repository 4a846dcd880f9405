package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/transport/http/middleware"
	"github.com/lambojac/mirriora/internal/usecase"
)

// maxScanUploadBytes caps a single scan upload at 20 MiB.
const maxScanUploadBytes = 20 << 20

// ScanHandler exposes scan image upload, download, and metadata endpoints.
type ScanHandler struct {
	scans *usecase.ScanService
}

func NewScanHandler(scans *usecase.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

var scanErrorCases = []ErrorCase{
	{Err: usecase.ErrScanNotFound, Status: http.StatusNotFound, Message: "scan not found"},
}

// Upload godoc
// @Summary Upload a scan image
// @Description Accepts a multipart form with a "file" field.
// @Tags Scans
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Scan file"
// @Success 201 {object} ScanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Router /api/v1/scans [post]
func (h *ScanHandler) Upload(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "file is required"))
		return
	}

	if fileHeader.Size > maxScanUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse(c, "file exceeds the upload limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "failed to read uploaded file"))
		return
	}
	defer file.Close()

	scan, err := h.scans.Upload(c.Request.Context(), userID, usecase.UploadScanInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		RespondWithMappedError(c, err, scanErrorCases, http.StatusInternalServerError, "failed to upload scan")
		return
	}

	c.JSON(http.StatusCreated, ScanResponse{Success: true, Scan: newScanPayload(*scan)})
}

// List godoc
// @Summary List scan metadata
// @Tags Scans
// @Security BearerAuth
// @Produce json
// @Success 200 {object} ScanListResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/scans [get]
func (h *ScanHandler) List(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	scans, err := h.scans.List(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, scanErrorCases, http.StatusInternalServerError, "failed to list scans")
		return
	}

	payloads := make([]ScanPayload, 0, len(scans))
	for _, scan := range scans {
		payloads = append(payloads, newScanPayload(scan))
	}

	c.JSON(http.StatusOK, ScanListResponse{Success: true, Scans: payloads})
}

// Get godoc
// @Summary Fetch scan metadata
// @Tags Scans
// @Security BearerAuth
// @Produce json
// @Param id path string true "Scan ID"
// @Success 200 {object} ScanResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/scans/{id} [get]
func (h *ScanHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	scan, err := h.scans.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, scanErrorCases, http.StatusInternalServerError, "failed to get scan")
		return
	}

	c.JSON(http.StatusOK, ScanResponse{Success: true, Scan: newScanPayload(*scan)})
}

// Download godoc
// @Summary Stream the stored scan file
// @Tags Scans
// @Security BearerAuth
// @Produce octet-stream
// @Param id path string true "Scan ID"
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/scans/{id}/download [get]
func (h *ScanHandler) Download(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	scan, rc, err := h.scans.Download(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, scanErrorCases, http.StatusInternalServerError, "failed to download scan")
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", scan.FileName))
	c.DataFromReader(http.StatusOK, scan.SizeBytes, scan.ContentType, rc, nil)
}

// Delete godoc
// @Summary Delete a scan and its stored file
// @Tags Scans
// @Security BearerAuth
// @Produce json
// @Param id path string true "Scan ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/scans/{id} [delete]
func (h *ScanHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	if err := h.scans.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, scanErrorCases, http.StatusInternalServerError, "failed to delete scan")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("scan deleted"))
}
