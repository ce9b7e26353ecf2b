package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TiredBeer/tgBot/internal/repository"
	"github.com/TiredBeer/tgBot/internal/services"
)

// ReviewHandler обрабатывает запросы API проверки работ
type ReviewHandler struct {
	authService   *services.AuthService
	reviewService services.ReviewService
}

// NewReviewHandler создает новый обработчик проверки
func NewReviewHandler(authService *services.AuthService, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		authService:   authService,
		reviewService: reviewService,
	}
}

// LoginRequest представляет запрос входа преподавателя
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login выдает JWT токен по логину и паролю преподавателя
func (h *ReviewHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.LoginTeacher(req.Login, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListPending возвращает непроверенные работы по заданиям преподавателя
func (h *ReviewHandler) ListPending(c *gin.Context) {
	teacherID := c.MustGet("teacher_id").(uuid.UUID)

	submissions, err := h.reviewService.ListPending(teacherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// ReviewRequest представляет оценку работы
type ReviewRequest struct {
	Grade   int    `json:"grade" binding:"required,min=1,max=10"`
	Comment string `json:"comment"`
}

// Review выставляет оценку и ставит уведомление в очередь изменений
func (h *ReviewHandler) Review(c *gin.Context) {
	teacherID := c.MustGet("teacher_id").(uuid.UUID)

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.reviewService.Review(submissionID, teacherID, req.Grade, req.Comment)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case errors.Is(err, services.ErrForeignSubmission):
		c.JSON(http.StatusForbidden, gin.H{"error": "Submission belongs to another teacher"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to review submission"})
	default:
		c.JSON(http.StatusOK, gin.H{"submission": submission})
	}
}
