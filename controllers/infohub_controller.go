package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/services"
)

// InfoHub dates are rendered to the minute
const entryDateFormat = "2006-01-02 15:04"

// CreateEntryRequest represents the request body for publishing an InfoHub entry
type CreateEntryRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

type entryResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

type titleResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date"`
}

func newEntryResponse(e models.InfoEntry) entryResponse {
	return entryResponse{
		ID:       e.ID,
		Title:    e.Title,
		Content:  e.Content,
		Category: e.Category,
		Date:     e.Date.UTC().Format(entryDateFormat),
	}
}

func newTitleResponse(e models.InfoEntry, withCategory bool) titleResponse {
	t := titleResponse{ID: e.ID, Title: e.Title, Date: e.Date.UTC().Format(entryDateFormat)}
	if withCategory {
		t.Category = e.Category
	}
	return t
}

// InfoHubController serves the /infohub routes
type InfoHubController struct {
	infohub *services.InfoHubService
}

// NewInfoHubController creates a new InfoHub controller
func NewInfoHubController(infohub *services.InfoHubService) *InfoHubController {
	return &InfoHubController{infohub: infohub}
}

// ListTitles handles GET /infohub/titles
func (ic *InfoHubController) ListTitles(c *gin.Context) {
	entries, err := ic.infohub.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch titles")
		return
	}

	out := make([]titleResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newTitleResponse(e, true))
	}
	c.JSON(http.StatusOK, out)
}

// ListAll handles GET /infohub
func (ic *InfoHubController) ListAll(c *gin.Context) {
	entries, err := ic.infohub.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch entries")
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newEntryResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

// ListTitlesByCategory handles GET /infohub/titles/:category
func (ic *InfoHubController) ListTitlesByCategory(c *gin.Context) {
	entries, err := ic.infohub.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err, "Failed to fetch titles")
		return
	}

	out := make([]titleResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newTitleResponse(e, false))
	}
	c.JSON(http.StatusOK, out)
}

// GetContent handles GET /infohub/contents/:id
func (ic *InfoHubController) GetContent(c *gin.Context) {
	id, ok := idParam(c, "id", services.ErrEntryNotFound)
	if !ok {
		return
	}

	entry, err := ic.infohub.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch entry")
		return
	}

	c.JSON(http.StatusOK, newEntryResponse(*entry))
}

// Create handles POST /infohub
func (ic *InfoHubController) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := ic.infohub.Create(c.Request.Context(), p, services.CreateEntryInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		respondError(c, err, "Failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, newTitleResponse(*entry, true))
}
