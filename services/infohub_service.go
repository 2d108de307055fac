package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/models"
)

// Accepted layouts for an InfoHub entry date
var entryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// CreateEntryInput is a new InfoHub article
type CreateEntryInput struct {
	Title    string
	Content  string
	Category string
	Date     string
}

// InfoHubService publishes and reads legal information articles
type InfoHubService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewInfoHubService creates a new InfoHub service
func NewInfoHubService(db *gorm.DB) *InfoHubService {
	return &InfoHubService{db: db, now: time.Now}
}

// List returns every entry, newest first.
func (s *InfoHubService) List(ctx context.Context) ([]models.InfoEntry, error) {
	entries := []models.InfoEntry{}
	if err := s.db.WithContext(ctx).Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// ListByCategory returns the entries of one category, newest first.
func (s *InfoHubService) ListByCategory(ctx context.Context, category string) ([]models.InfoEntry, error) {
	entries := []models.InfoEntry{}
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Get returns a single entry.
func (s *InfoHubService) Get(ctx context.Context, id uint) (*models.InfoEntry, error) {
	var entry models.InfoEntry
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	return &entry, nil
}

// Create publishes an entry. Lawyers only.
func (s *InfoHubService) Create(ctx context.Context, p models.Principal, in CreateEntryInput) (*models.InfoEntry, error) {
	if !p.HasRole(models.RoleLawyer) {
		return nil, ErrInsufficientRole
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" || in.Category == "" {
		return nil, BadRequest("title, content and category are required")
	}

	date := s.now().UTC()
	if raw := strings.TrimSpace(in.Date); raw != "" {
		parsed, err := parseEntryDate(raw)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	entry := models.InfoEntry{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Date:     date.Truncate(time.Minute),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return &entry, nil
}

func parseEntryDate(raw string) (time.Time, error) {
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, BadRequest("date must be RFC3339, YYYY-MM-DD HH:MM or YYYY-MM-DD")
}
