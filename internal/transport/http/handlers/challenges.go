package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/transport/http/middleware"
	"github.com/lambojac/mirriora/internal/usecase"
)

// ChallengeHandler exposes challenges and their task lists for the
// authenticated user.
type ChallengeHandler struct {
	challenges *usecase.ChallengeService
}

func NewChallengeHandler(challenges *usecase.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges}
}

var challengeErrorCases = []ErrorCase{
	{Err: usecase.ErrChallengeNotFound, Status: http.StatusNotFound, Message: "challenge not found"},
	{Err: usecase.ErrTaskIndexOutOfRange, Status: http.StatusBadRequest, Message: "task index out of range"},
}

// Create godoc
// @Summary Create a challenge
// @Tags Challenges
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ChallengeCreateRequest true "Challenge"
// @Success 201 {object} ChallengeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/challenges [post]
func (h *ChallengeHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	var req ChallengeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "title is required"))
		return
	}

	tasks := make([]domain.ChallengeTask, 0, len(req.Tasks))
	for _, task := range req.Tasks {
		tasks = append(tasks, domain.ChallengeTask{Title: task.Title, Complete: task.Complete})
	}

	challenge, err := h.challenges.Create(c.Request.Context(), userID, usecase.CreateChallengeInput{
		Title:       req.Title,
		Description: req.Description,
		Tasks:       tasks,
		ScanResult:  req.ScanResult,
	})
	if err != nil {
		RespondWithMappedError(c, err, challengeErrorCases, http.StatusInternalServerError, "failed to create challenge")
		return
	}

	c.JSON(http.StatusCreated, ChallengeResponse{Success: true, Challenge: newChallengePayload(*challenge)})
}

// List godoc
// @Summary List challenges
// @Tags Challenges
// @Security BearerAuth
// @Produce json
// @Success 200 {object} ChallengeListResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/challenges [get]
func (h *ChallengeHandler) List(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	challenges, err := h.challenges.List(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, challengeErrorCases, http.StatusInternalServerError, "failed to list challenges")
		return
	}

	payloads := make([]ChallengePayload, 0, len(challenges))
	for _, challenge := range challenges {
		payloads = append(payloads, newChallengePayload(challenge))
	}

	c.JSON(http.StatusOK, ChallengeListResponse{Success: true, Challenges: payloads})
}

// Get godoc
// @Summary Fetch a challenge
// @Tags Challenges
// @Security BearerAuth
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} ChallengeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/challenges/{id} [get]
func (h *ChallengeHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	challenge, err := h.challenges.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, challengeErrorCases, http.StatusInternalServerError, "failed to get challenge")
		return
	}

	c.JSON(http.StatusOK, ChallengeResponse{Success: true, Challenge: newChallengePayload(*challenge)})
}

// CompleteTask godoc
// @Summary Mark a challenge task complete
// @Tags Challenges
// @Security BearerAuth
// @Produce json
// @Param id path string true "Challenge ID"
// @Param index path int true "Task position"
// @Success 200 {object} ChallengeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/challenges/{id}/tasks/{index}/complete [patch]
func (h *ChallengeHandler) CompleteTask(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "task index must be a number"))
		return
	}

	challenge, err := h.challenges.CompleteTask(c.Request.Context(), userID, c.Param("id"), index)
	if err != nil {
		RespondWithMappedError(c, err, challengeErrorCases, http.StatusInternalServerError, "failed to complete task")
		return
	}

	c.JSON(http.StatusOK, ChallengeResponse{Success: true, Challenge: newChallengePayload(*challenge)})
}

// DeleteTask godoc
// @Summary Remove a challenge task
// @Tags Challenges
// @Security BearerAuth
// @Produce json
// @Param id path string true "Challenge ID"
// @Param index path int true "Task position"
// @Success 200 {object} ChallengeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/challenges/{id}/tasks/{index} [delete]
func (h *ChallengeHandler) DeleteTask(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "task index must be a number"))
		return
	}

	challenge, err := h.challenges.DeleteTask(c.Request.Context(), userID, c.Param("id"), index)
	if err != nil {
		RespondWithMappedError(c, err, challengeErrorCases, http.StatusInternalServerError, "failed to delete task")
		return
	}

	c.JSON(http.StatusOK, ChallengeResponse{Success: true, Challenge: newChallengePayload(*challenge)})
}

// UpdateNote godoc
// @Summary Replace the personal note on a challenge
// @Tags Challenges
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body ChallengeNoteRequest true "Note"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/challenges/{id}/note [patch]
func (h *ChallengeHandler) UpdateNote(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	var req ChallengeNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "personal note is required"))
		return
	}

	if err := h.challenges.UpdateNote(c.Request.Context(), userID, c.Param("id"), req.PersonalNote); err != nil {
		RespondWithMappedError(c, err, challengeErrorCases, http.StatusInternalServerError, "failed to update note")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("note updated"))
}

// Delete godoc
// @Summary Delete a challenge
// @Tags Challenges
// @Security BearerAuth
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/challenges/{id} [delete]
func (h *ChallengeHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	if err := h.challenges.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, challengeErrorCases, http.StatusInternalServerError, "failed to delete challenge")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("challenge deleted"))
}
