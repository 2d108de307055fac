package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legal-sheba/legal-sheba-api/services"
)

// CreateProfileRequest represents the request body for creating a lawyer profile
type CreateProfileRequest struct {
	Experience          *int     `json:"experience"`
	Location            *string  `json:"location"`
	CourtOfPractice     *string  `json:"court_of_practice"`
	AvailabilityDetails *string  `json:"availability_details"`
	HourlyRate          *string  `json:"hourly_rate"`
	Specialties         []string `json:"specialties"`
}

// UpdateProfileRequest represents a partial profile update. Keys left out of
// the body are not touched; a null value clears the field.
type UpdateProfileRequest struct {
	Experience          services.Optional[int]      `json:"experience"`
	Location            services.Optional[string]   `json:"location"`
	CourtOfPractice     services.Optional[string]   `json:"court_of_practice"`
	AvailabilityDetails services.Optional[string]   `json:"availability_details"`
	HourlyRate          services.Optional[string]   `json:"hourly_rate"`
	Specialties         services.Optional[[]string] `json:"specialties"`
}

// ProfileByUserResponse is a profile view that also names the profile id
type ProfileByUserResponse struct {
	services.LawyerView
	ProfileID uint `json:"profile_id"`
}

// LawyerController serves the /lawyers routes
type LawyerController struct {
	lawyers *services.LawyerService
}

// NewLawyerController creates a new lawyer controller
func NewLawyerController(lawyers *services.LawyerService) *LawyerController {
	return &LawyerController{lawyers: lawyers}
}

// Search handles GET /lawyers?specialty=&location= - public
func (lc *LawyerController) Search(c *gin.Context) {
	views, err := lc.lawyers.Search(c.Request.Context(), services.SearchFilter{
		Specialty: c.Query("specialty"),
		Location:  c.Query("location"),
	})
	if err != nil {
		respondError(c, err, "Failed to search lawyers")
		return
	}

	c.JSON(http.StatusOK, views)
}

// CreateProfile handles POST /lawyers/profile
func (lc *LawyerController) CreateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := lc.lawyers.CreateProfile(c.Request.Context(), p, services.ProfileInput{
		Experience:          req.Experience,
		Location:            req.Location,
		CourtOfPractice:     req.CourtOfPractice,
		AvailabilityDetails: req.AvailabilityDetails,
		HourlyRate:          req.HourlyRate,
		Specialties:         req.Specialties,
	})
	if err != nil {
		respondError(c, err, "Failed to create profile")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Profile created",
		"profile_id": profile.ID,
	})
}

// UpdateProfile handles PUT /lawyers/profile/:id
func (lc *LawyerController) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	lawyerID, ok := idParam(c, "id", services.ErrProfileNotFound)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := lc.lawyers.UpdateProfile(c.Request.Context(), p, lawyerID, services.ProfileUpdate{
		Experience:          req.Experience,
		Location:            req.Location,
		CourtOfPractice:     req.CourtOfPractice,
		AvailabilityDetails: req.AvailabilityDetails,
		HourlyRate:          req.HourlyRate,
		Specialties:         req.Specialties,
	})
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// GetProfile handles GET /lawyers/:id - public
func (lc *LawyerController) GetProfile(c *gin.Context) {
	lawyerID, ok := idParam(c, "id", services.ErrProfileNotFound)
	if !ok {
		return
	}

	view, err := lc.lawyers.GetProfile(c.Request.Context(), lawyerID)
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, view)
}

// ProfileExists handles GET /lawyers/profile/exists/:user_id - public
func (lc *LawyerController) ProfileExists(c *gin.Context) {
	userID, ok := idParam(c, "user_id", services.ErrUserNotFound)
	if !ok {
		return
	}

	profileID, exists, err := lc.lawyers.ProfileExists(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to check profile")
		return
	}

	response := gin.H{"has_profile": exists, "profile_id": nil}
	if exists {
		response["profile_id"] = profileID
	}
	c.JSON(http.StatusOK, response)
}

// GetProfileByUser handles GET /lawyers/by_user/:user_id - public
func (lc *LawyerController) GetProfileByUser(c *gin.Context) {
	userID, ok := idParam(c, "user_id", services.ErrProfileNotFound)
	if !ok {
		return
	}

	view, err := lc.lawyers.GetProfileByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, ProfileByUserResponse{LawyerView: *view, ProfileID: view.ID})
}
