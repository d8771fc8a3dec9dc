package handlers

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/dtos"
	"github.com/maxaizer/job-board/internal/services"
	"net/http"
)

type postingService interface {
	Create(ctx context.Context, actor *models.Account, input services.PostingInput) (*models.Posting, error)
	Search(ctx context.Context, query services.SearchQuery) (*services.SearchResult, error)
	Get(ctx context.Context, id string) (*models.Posting, error)
	Featured(ctx context.Context) ([]models.Posting, error)
	Counts(ctx context.Context) ([]models.CategoryCount, error)
	ListOwn(ctx context.Context, actor *models.Account) ([]models.Posting, error)
	Update(ctx context.Context, actor *models.Account, id string, update services.PostingUpdate) (*models.Posting, error)
	SetStatus(ctx context.Context, actor *models.Account, id string, status string) (*models.Posting, error)
	Delete(ctx context.Context, actor *models.Account, id string) error
}

type JobHandler struct {
	postings postingService
}

func NewJobHandler(postings postingService) *JobHandler {
	return &JobHandler{postings: postings}
}

func (h *JobHandler) Search(c *gin.Context) {
	var req dtos.JobSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.postings.Search(c.Request.Context(), services.SearchQuery{
		Location: req.Location,
		Type:     req.JobType,
		Salary:   req.Salary,
		Query:    req.Query,
		Category: req.Category,
		Page:     req.Page,
		Limit:    req.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) Featured(c *gin.Context) {
	postings, err := h.postings.Featured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": postings, "success": true})
}

func (h *JobHandler) Counts(c *gin.Context) {
	counts, err := h.postings.Counts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": counts, "success": true})
}

func (h *JobHandler) ListOwn(c *gin.Context) {
	postings, err := h.postings.ListOwn(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": postings, "success": true})
}

func (h *JobHandler) Create(c *gin.Context) {
	var req dtos.JobCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	posting, err := h.postings.Create(c.Request.Context(), principal(c), services.PostingInput{
		Title:          req.Title,
		OrganizationID: req.CompanyID,
		Location:       req.Location,
		Type:           req.Type,
		Category:       req.Category,
		Salary:         req.Salary,
		Description:    req.Description,
		Status:         req.Status,
		Featured:       req.Featured,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "New job created successfully.", "job": posting, "success": true})
}

func (h *JobHandler) Get(c *gin.Context) {
	posting, err := h.postings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": posting, "success": true})
}

func (h *JobHandler) Update(c *gin.Context) {
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	posting, err := h.postings.Update(c.Request.Context(), principal(c), c.Param("id"), services.PostingUpdate{
		Title:          req.Title,
		OrganizationID: req.CompanyID,
		Location:       req.Location,
		Type:           req.Type,
		Category:       req.Category,
		Salary:         req.Salary,
		Description:    req.Description,
		Status:         req.Status,
		Featured:       req.Featured,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job updated successfully.", "job": posting, "success": true})
}

func (h *JobHandler) SetStatus(c *gin.Context) {
	var req dtos.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	posting, err := h.postings.SetStatus(c.Request.Context(), principal(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job status updated.", "job": posting, "success": true})
}

func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.postings.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully.", "success": true})
}
