package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/transport/http/middleware"
	"github.com/lambojac/mirriora/internal/usecase"
)

// SurveyHandler serves the onboarding survey: questions, progress, and
// answer submission.
type SurveyHandler struct {
	surveys *usecase.SurveyService
}

func NewSurveyHandler(surveys *usecase.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

var surveyErrorCases = []ErrorCase{
	{Err: usecase.ErrQuestionNotFound, Status: http.StatusNotFound, Message: "survey question not found"},
	{Err: usecase.ErrAnswerExists, Status: http.StatusConflict, Message: "question already answered"},
}

// Questions godoc
// @Summary List every survey question in display order
// @Tags Survey
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SurveyQuestionListResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/survey/questions [get]
func (h *SurveyHandler) Questions(c *gin.Context) {
	if _, ok := middleware.GetAuthenticatedUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	questions, err := h.surveys.Questions(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, surveyErrorCases, http.StatusInternalServerError, "failed to list questions")
		return
	}

	payloads := make([]SurveyQuestionPayload, 0, len(questions))
	for _, question := range questions {
		payloads = append(payloads, newSurveyQuestionPayload(question))
	}

	c.JSON(http.StatusOK, SurveyQuestionListResponse{Success: true, Questions: payloads})
}

// Unanswered godoc
// @Summary List the questions the user has not answered yet
// @Tags Survey
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SurveyQuestionListResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/survey/questions/unanswered [get]
func (h *SurveyHandler) Unanswered(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	questions, err := h.surveys.Unanswered(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, surveyErrorCases, http.StatusInternalServerError, "failed to list unanswered questions")
		return
	}

	payloads := make([]SurveyQuestionPayload, 0, len(questions))
	for _, question := range questions {
		payloads = append(payloads, newSurveyQuestionPayload(question))
	}

	c.JSON(http.StatusOK, SurveyQuestionListResponse{Success: true, Questions: payloads})
}

// NextQuestion godoc
// @Summary Fetch the next unanswered question
// @Description Returns 204 once every question has been answered.
// @Tags Survey
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SurveyQuestionResponse
// @Success 204 "survey complete"
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/survey/questions/next [get]
func (h *SurveyHandler) NextQuestion(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	question, err := h.surveys.NextQuestion(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrSurveyComplete) {
			c.Status(http.StatusNoContent)
			return
		}
		RespondWithMappedError(c, err, surveyErrorCases, http.StatusInternalServerError, "failed to get next question")
		return
	}

	c.JSON(http.StatusOK, SurveyQuestionResponse{Success: true, Question: newSurveyQuestionPayload(*question)})
}

// Answers godoc
// @Summary List the user's recorded answers
// @Tags Survey
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SurveyAnswerListResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/survey/answers [get]
func (h *SurveyHandler) Answers(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	answers, err := h.surveys.Answers(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, surveyErrorCases, http.StatusInternalServerError, "failed to list answers")
		return
	}

	payloads := make([]SurveyAnswerPayload, 0, len(answers))
	for _, answer := range answers {
		payloads = append(payloads, newSurveyAnswerPayload(answer))
	}

	c.JSON(http.StatusOK, SurveyAnswerListResponse{Success: true, Answers: payloads})
}

// SubmitAnswer godoc
// @Summary Record an answer to a survey question
// @Tags Survey
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SurveyAnswerRequest true "Answer"
// @Success 201 {object} SurveyAnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/survey/answers [post]
func (h *SurveyHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	var req SurveyAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "question id and answer are required"))
		return
	}

	answer, err := h.surveys.SubmitAnswer(c.Request.Context(), userID, req.QuestionID, req.Answer)
	if err != nil {
		RespondWithMappedError(c, err, surveyErrorCases, http.StatusInternalServerError, "failed to submit answer")
		return
	}

	c.JSON(http.StatusCreated, SurveyAnswerResponse{Success: true, Answer: newSurveyAnswerPayload(*answer)})
}
