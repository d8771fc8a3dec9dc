package handlers

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/dtos"
	"github.com/maxaizer/job-board/internal/services"
	"net/http"
)

type organizationService interface {
	Register(ctx context.Context, actor *models.Account, name string) (*models.Organization, error)
	ListOwn(ctx context.Context, actor *models.Account) ([]models.Organization, error)
	Get(ctx context.Context, id string) (*models.Organization, error)
	Update(ctx context.Context, actor *models.Account, id string, update services.OrganizationUpdate) (*models.Organization, error)
}

type CompanyHandler struct {
	organizations organizationService
}

func NewCompanyHandler(organizations organizationService) *CompanyHandler {
	return &CompanyHandler{organizations: organizations}
}

func (h *CompanyHandler) Register(c *gin.Context) {
	var req dtos.CompanyRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	organization, err := h.organizations.Register(c.Request.Context(), principal(c), req.CompanyName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Company registered successfully.", "company": organization, "success": true})
}

func (h *CompanyHandler) ListOwn(c *gin.Context) {
	organizations, err := h.organizations.ListOwn(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": organizations, "success": true})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	organization, err := h.organizations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": organization, "success": true})
}

func (h *CompanyHandler) Update(c *gin.Context) {
	var req dtos.CompanyUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logo, release, err := formFile(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer release()

	organization, err := h.organizations.Update(c.Request.Context(), principal(c), c.Param("id"), services.OrganizationUpdate{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Logo:        logo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company information updated.", "company": organization, "success": true})
}
