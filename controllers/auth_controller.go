package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/services"
)

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"omitempty,role"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PublicUserResponse is the public view of an account
type PublicUserResponse struct {
	ID            uint                 `json:"id"`
	DisplayName   string               `json:"display_name"`
	Email         string               `json:"email"`
	Role          models.Role          `json:"role"`
	CreatedAt     time.Time            `json:"created_at"`
	LawyerProfile *services.LawyerView `json:"lawyer_profile"`
}

// AuthController serves the /auth routes
type AuthController struct {
	accounts *services.AccountService
}

// NewAuthController creates a new auth controller
func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

// Signup handles POST /auth/signup - registers an account and returns a token
func (ac *AuthController) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := ac.accounts.Signup(c.Request.Context(), services.SignupInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
		Role:        models.Role(req.Role),
	})
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "User created successfully",
		"user_id":      res.Principal.UserID,
		"role":         res.Principal.Role,
		"access_token": res.AccessToken,
	})
}

// Login handles POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// an incomplete body can never match an account
		respondError(c, services.ErrInvalidCredentials, "")
		return
	}

	res, err := ac.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": res.AccessToken,
		"user_id":      res.Principal.UserID,
		"role":         res.Principal.Role,
	})
}

// GetUser handles GET /auth/user/:id - public account view
func (ac *AuthController) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id", services.ErrUserNotFound)
	if !ok {
		return
	}

	u, err := ac.accounts.GetPublicUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, PublicUserResponse{
		ID:            u.User.ID,
		DisplayName:   u.User.DisplayName,
		Email:         u.User.Email,
		Role:          u.User.Role,
		CreatedAt:     u.User.CreatedAt,
		LawyerProfile: u.LawyerProfile,
	})
}
