package handlers

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/dtos"
	"net/http"
)

type applicationService interface {
	Apply(ctx context.Context, actor *models.Account, postingID string) (*models.Application, error)
	ListForApplicant(ctx context.Context, actor *models.Account, applicantID string) ([]models.Application, error)
	ListForPosting(ctx context.Context, actor *models.Account, postingID string) ([]models.ApplicantView, error)
	UpdateStatus(ctx context.Context, actor *models.Account, id string, status string) (*models.Application, error)
}

type ApplicationHandler struct {
	applications applicationService
}

func NewApplicationHandler(applications applicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dtos.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	application, err := h.applications.Apply(c.Request.Context(), principal(c), req.JobID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Job applied successfully.", "application": application, "success": true})
}

func (h *ApplicationHandler) ListForApplicant(c *gin.Context) {
	applications, err := h.applications.ListForApplicant(c.Request.Context(), principal(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": applications, "success": true})
}

func (h *ApplicationHandler) ListForPosting(c *gin.Context) {
	applicants, err := h.applications.ListForPosting(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applicants": applicants, "success": true})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	application, err := h.applications.UpdateStatus(c.Request.Context(), principal(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully.", "application": application, "success": true})
}
