package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/transport/http/middleware"
	"github.com/lambojac/mirriora/internal/usecase"
)

// JournalHandler exposes journal entry CRUD for the authenticated user.
type JournalHandler struct {
	journals *usecase.JournalService
}

func NewJournalHandler(journals *usecase.JournalService) *JournalHandler {
	return &JournalHandler{journals: journals}
}

var journalErrorCases = []ErrorCase{
	{Err: usecase.ErrJournalNotFound, Status: http.StatusNotFound, Message: "journal not found"},
}

// Create godoc
// @Summary Create a journal entry
// @Tags Journals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body JournalCreateRequest true "Journal entry"
// @Success 201 {object} JournalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/journals [post]
func (h *JournalHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	var req JournalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "title is required"))
		return
	}

	journal, err := h.journals.Create(c.Request.Context(), userID, usecase.CreateJournalInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, journalErrorCases, http.StatusInternalServerError, "failed to create journal")
		return
	}

	c.JSON(http.StatusCreated, JournalResponse{Success: true, Journal: newJournalPayload(*journal)})
}

// List godoc
// @Summary List journal entries
// @Tags Journals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} JournalListResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/journals [get]
func (h *JournalHandler) List(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	journals, err := h.journals.List(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, journalErrorCases, http.StatusInternalServerError, "failed to list journals")
		return
	}

	payloads := make([]JournalPayload, 0, len(journals))
	for _, journal := range journals {
		payloads = append(payloads, newJournalPayload(journal))
	}

	c.JSON(http.StatusOK, JournalListResponse{Success: true, Journals: payloads})
}

// Get godoc
// @Summary Fetch a journal entry
// @Tags Journals
// @Security BearerAuth
// @Produce json
// @Param id path string true "Journal ID"
// @Success 200 {object} JournalResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/journals/{id} [get]
func (h *JournalHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	journal, err := h.journals.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, journalErrorCases, http.StatusInternalServerError, "failed to get journal")
		return
	}

	c.JSON(http.StatusOK, JournalResponse{Success: true, Journal: newJournalPayload(*journal)})
}

// Update godoc
// @Summary Update a journal entry
// @Description Partial update; omitted fields keep their current value.
// @Tags Journals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Journal ID"
// @Param request body JournalUpdateRequest true "Fields to change"
// @Success 200 {object} JournalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/journals/{id} [put]
func (h *JournalHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	var req JournalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid journal payload"))
		return
	}

	journal, err := h.journals.Update(c.Request.Context(), userID, c.Param("id"), usecase.UpdateJournalInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, journalErrorCases, http.StatusInternalServerError, "failed to update journal")
		return
	}

	c.JSON(http.StatusOK, JournalResponse{Success: true, Journal: newJournalPayload(*journal)})
}

// Delete godoc
// @Summary Delete a journal entry
// @Tags Journals
// @Security BearerAuth
// @Produce json
// @Param id path string true "Journal ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/journals/{id} [delete]
func (h *JournalHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	if err := h.journals.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, journalErrorCases, http.StatusInternalServerError, "failed to delete journal")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("journal deleted"))
}
