package handlers

import (
	"context"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/dtos"
	"github.com/maxaizer/job-board/internal/services"
	"net/http"
)

type authService interface {
	principalResolver
	Register(ctx context.Context, input services.RegisterInput) (*models.Account, error)
	Authenticate(ctx context.Context, email, password, role string) (string, *models.Account, error)
	SessionMaxAge() int
}

type profileService interface {
	UpdateProfile(ctx context.Context, actor *models.Account, update services.ProfileUpdate) (*models.Account, error)
	OpenResume(ctx context.Context, actor *models.Account, accountID string) (*services.Resume, error)
}

type UserHandler struct {
	auth         authService
	profiles     profileService
	cookieSecure bool
}

func NewUserHandler(auth authService, profiles profileService, cookieSecure bool) *UserHandler {
	return &UserHandler{auth: auth, profiles: profiles, cookieSecure: cookieSecure}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	photo, release, err := formFile(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer release()

	account, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Fullname:    req.Fullname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		Photo:       photo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully.", "user": account, "success": true})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, account, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, token, h.auth.SessionMaxAge())
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome back %s", account.Fullname),
		"user":    account,
		"token":   token,
		"success": true,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully.", "success": true})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dtos.ProfileUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	file, release, err := formFile(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer release()

	account, err := h.profiles.UpdateProfile(c.Request.Context(), principal(c), services.ProfileUpdate{
		Fullname:    req.Fullname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
		Skills:      req.Skills,
		File:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully.", "user": account, "success": true})
}

// ViewResume streams a stored resume inline, or as an attachment with ?download=true.
func (h *UserHandler) ViewResume(c *gin.Context) {
	resume, err := h.profiles.OpenResume(c.Request.Context(), principal(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer resume.Body.Close()

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}

	c.DataFromReader(http.StatusOK, -1, "application/pdf", resume.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("%s; filename=%q", disposition, resume.Filename),
		"Cache-Control":       "private, max-age=3600",
	})
}

func (h *UserHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(tokenCookie, token, maxAge, "/", "", h.cookieSecure, true)
}
