package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/models"
)

// ProfileInput holds the fields of a new lawyer profile
type ProfileInput struct {
	Experience          *int
	Location            *string
	CourtOfPractice     *string
	AvailabilityDetails *string
	HourlyRate          *string
	Specialties         []string
}

// ProfileUpdate holds a partial profile update; only Set fields change.
// A set Specialties replaces the whole list, even when empty or null.
type ProfileUpdate struct {
	Experience          Optional[int]
	Location            Optional[string]
	CourtOfPractice     Optional[string]
	AvailabilityDetails Optional[string]
	HourlyRate          Optional[string]
	Specialties         Optional[[]string]
}

// SearchFilter narrows a lawyer search; empty fields are ignored.
type SearchFilter struct {
	Specialty string
	Location  string
}

// LawyerView is a profile joined with its owner and specialties
type LawyerView struct {
	ID                  uint     `json:"id"`
	UserID              uint     `json:"user_id"`
	DisplayName         *string  `json:"display_name"`
	Email               *string  `json:"email"`
	Experience          *int     `json:"experience"`
	Location            *string  `json:"location"`
	CourtOfPractice     *string  `json:"court_of_practice"`
	AvailabilityDetails *string  `json:"availability_details"`
	HourlyRate          *string  `json:"hourly_rate"`
	Specialties         []string `json:"specialties"`
}

func newLawyerView(p models.LawyerProfile) LawyerView {
	view := LawyerView{
		ID:                  p.ID,
		UserID:              p.UserID,
		Experience:          p.Experience,
		Location:            p.Location,
		CourtOfPractice:     p.CourtOfPractice,
		AvailabilityDetails: p.AvailabilityDetails,
		HourlyRate:          p.HourlyRate,
		Specialties:         p.SpecialtyNames(),
	}
	// the owning account is not re-validated, so it may be missing
	if p.User.ID != 0 {
		name, email := p.User.DisplayName, p.User.Email
		view.DisplayName = &name
		view.Email = &email
	}
	return view
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// NormalizeSpecialties trims names, drops empty ones and removes exact
// duplicates, keeping the order of first occurrence.
func NormalizeSpecialties(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// LawyerService stores and searches lawyer profiles
type LawyerService struct {
	db *gorm.DB
}

// NewLawyerService creates a new lawyer directory service
func NewLawyerService(db *gorm.DB) *LawyerService {
	return &LawyerService{db: db}
}

// CreateProfile creates the single profile of the principal's lawyer account.
func (s *LawyerService) CreateProfile(ctx context.Context, p models.Principal, in ProfileInput) (*models.LawyerProfile, error) {
	if !p.HasRole(models.RoleLawyer) {
		return nil, ErrInsufficientRole
	}

	profile := models.LawyerProfile{
		UserID:              p.UserID,
		Experience:          in.Experience,
		Location:            in.Location,
		CourtOfPractice:     in.CourtOfPractice,
		AvailabilityDetails: in.AvailabilityDetails,
		HourlyRate:          in.HourlyRate,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.LawyerProfile{}).Where("user_id = ?", p.UserID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing profile: %w", err)
		}
		if count > 0 {
			return ErrProfileAlreadyExists
		}

		if err := tx.Create(&profile).Error; err != nil {
			// the unique index on user_id decides concurrent creates
			if isUniqueViolation(err) {
				return ErrProfileAlreadyExists
			}
			return fmt.Errorf("failed to create profile: %w", err)
		}

		return replaceSpecialties(tx, profile.ID, in.Specialties)
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpdateProfile applies a partial update to a profile owned by the principal.
func (s *LawyerService) UpdateProfile(ctx context.Context, p models.Principal, lawyerID uint, in ProfileUpdate) error {
	if !p.HasRole(models.RoleLawyer) {
		return ErrInsufficientRole
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.LawyerProfile
		if err := tx.First(&profile, lawyerID).Error; err != nil {
			if isNotFound(err) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to load profile: %w", err)
		}

		if profile.UserID != p.UserID {
			return ErrForbidden
		}

		updates := make(map[string]interface{})
		setOptional(updates, "experience", in.Experience)
		setOptional(updates, "location", in.Location)
		setOptional(updates, "court_of_practice", in.CourtOfPractice)
		setOptional(updates, "availability_details", in.AvailabilityDetails)
		setOptional(updates, "hourly_rate", in.HourlyRate)

		if len(updates) > 0 {
			if err := tx.Model(&profile).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
		}

		if in.Specialties.Set {
			var names []string
			if in.Specialties.Value != nil {
				names = *in.Specialties.Value
			}
			if err := tx.Where("lawyer_id = ?", profile.ID).Delete(&models.Specialty{}).Error; err != nil {
				return fmt.Errorf("failed to clear specialties: %w", err)
			}
			return replaceSpecialties(tx, profile.ID, names)
		}

		return nil
	})
}

// Search returns profiles matching every present filter, case-insensitively.
// Owners are joined and specialties are loaded for all matches in one query.
func (s *LawyerService) Search(ctx context.Context, f SearchFilter) ([]LawyerView, error) {
	db := s.db.WithContext(ctx)

	q := db.Model(&models.LawyerProfile{}).
		InnerJoins("User").
		Preload("Specialties", orderByID)

	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where(`LOWER(lawyer_profiles.location) LIKE ? ESCAPE '\'`, likePattern(loc))
	}
	if specialty := strings.TrimSpace(f.Specialty); specialty != "" {
		matching := db.Model(&models.Specialty{}).
			Select("lawyer_id").
			Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(specialty))
		q = q.Where("lawyer_profiles.id IN (?)", matching)
	}

	var profiles []models.LawyerProfile
	if err := q.Order("lawyer_profiles.id ASC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to search lawyers: %w", err)
	}

	views := make([]LawyerView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, newLawyerView(p))
	}
	return views, nil
}

// GetProfile returns the profile with the given id.
func (s *LawyerService) GetProfile(ctx context.Context, lawyerID uint) (*LawyerView, error) {
	return s.findProfile(ctx, "lawyer_profiles.id = ?", lawyerID)
}

// GetProfileByUser returns the profile owned by the given account.
func (s *LawyerService) GetProfileByUser(ctx context.Context, userID uint) (*LawyerView, error) {
	return s.findProfile(ctx, "lawyer_profiles.user_id = ?", userID)
}

// ProfileExists reports whether the account has a profile and its id.
func (s *LawyerService) ProfileExists(ctx context.Context, userID uint) (uint, bool, error) {
	var profile models.LawyerProfile
	err := s.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to check profile: %w", err)
	}
	return profile.ID, true, nil
}

func (s *LawyerService) findProfile(ctx context.Context, cond string, arg uint) (*LawyerView, error) {
	var profile models.LawyerProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Specialties", orderByID).
		Where(cond, arg).
		First(&profile).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	view := newLawyerView(profile)
	return &view, nil
}

// lawyerProfileFor returns the profile owned by userID inside tx.
func lawyerProfileFor(tx *gorm.DB, userID uint) (*models.LawyerProfile, error) {
	var profile models.LawyerProfile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func replaceSpecialties(tx *gorm.DB, lawyerID uint, names []string) error {
	names = NormalizeSpecialties(names)
	if len(names) == 0 {
		return nil
	}

	specs := make([]models.Specialty, 0, len(names))
	for _, n := range names {
		specs = append(specs, models.Specialty{LawyerID: lawyerID, Name: n})
	}
	if err := tx.Create(&specs).Error; err != nil {
		return fmt.Errorf("failed to save specialties: %w", err)
	}
	return nil
}

func setOptional[T any](updates map[string]interface{}, column string, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		updates[column] = nil
		return
	}
	updates[column] = *o.Value
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a substring pattern in which % and _ match literally
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
