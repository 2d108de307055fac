package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/models"
)

// CreateAppointmentInput is a client's booking request
type CreateAppointmentInput struct {
	LawyerID           uint
	AppointmentDate    string
	ProblemDescription *string
}

// AppointmentUpdate holds the lawyer-editable fields; only Set fields change.
type AppointmentUpdate struct {
	Status Optional[string]
	Notes  Optional[string]
}

// AppointmentService records bookings between clients and lawyer profiles.
// Terminal states are not enforced: the assigned lawyer may keep changing the
// status of a cancelled or completed appointment.
type AppointmentService struct {
	db *gorm.DB
}

// NewAppointmentService creates a new appointment ledger
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db}
}

// Create books a pending appointment with an existing lawyer profile.
func (s *AppointmentService) Create(ctx context.Context, p models.Principal, in CreateAppointmentInput) (*models.Appointment, error) {
	if !p.HasRole(models.RoleClient) {
		return nil, ErrInsufficientRole
	}
	in.AppointmentDate = strings.TrimSpace(in.AppointmentDate)
	if in.LawyerID == 0 || in.AppointmentDate == "" {
		return nil, BadRequest("lawyer_id and appointment_date are required")
	}

	appt := models.Appointment{
		ClientID:           p.UserID,
		LawyerID:           in.LawyerID,
		AppointmentDate:    in.AppointmentDate,
		Status:             models.StatusPending,
		ProblemDescription: in.ProblemDescription,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.LawyerProfile{}).Where("id = ?", in.LawyerID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check lawyer: %w", err)
		}
		if count == 0 {
			return ErrLawyerNotFound
		}

		if err := tx.Create(&appt).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &appt, nil
}

// ListForClient returns the principal's own bookings.
func (s *AppointmentService) ListForClient(ctx context.Context, p models.Principal) ([]models.Appointment, error) {
	if !p.HasRole(models.RoleClient) {
		return nil, ErrInsufficientRole
	}

	appts := []models.Appointment{}
	if err := s.db.WithContext(ctx).Where("client_id = ?", p.UserID).Order("id ASC").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// ListForLawyer returns bookings made against the principal's profile.
// A lawyer without a profile gets ErrProfileNotFound, not an empty list.
func (s *AppointmentService) ListForLawyer(ctx context.Context, p models.Principal) ([]models.Appointment, error) {
	if !p.HasRole(models.RoleLawyer) {
		return nil, ErrInsufficientRole
	}

	db := s.db.WithContext(ctx)
	profile, err := lawyerProfileFor(db, p.UserID)
	if err != nil {
		return nil, err
	}

	appts := []models.Appointment{}
	if err := db.Where("lawyer_id = ?", profile.ID).Order("id ASC").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// Get returns one of the principal's own bookings.
func (s *AppointmentService) Get(ctx context.Context, p models.Principal, id uint) (*models.Appointment, error) {
	if !p.HasRole(models.RoleClient) {
		return nil, ErrInsufficientRole
	}
	return loadClientAppointment(s.db.WithContext(ctx), p, id)
}

// Update changes status and/or notes of an appointment booked against the
// principal's profile. Ownership is decided by profile id, not user id.
func (s *AppointmentService) Update(ctx context.Context, p models.Principal, id uint, in AppointmentUpdate) error {
	if !p.HasRole(models.RoleLawyer) {
		return ErrInsufficientRole
	}
	if in.Status.Set && (in.Status.Value == nil || strings.TrimSpace(*in.Status.Value) == "") {
		return BadRequest("status cannot be empty")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := lawyerProfileFor(tx, p.UserID)
		if err != nil {
			return err
		}

		var appt models.Appointment
		if err := tx.First(&appt, id).Error; err != nil {
			if isNotFound(err) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("failed to load appointment: %w", err)
		}

		if appt.LawyerID != profile.ID {
			return ErrForbidden
		}

		updates := make(map[string]interface{})
		setOptional(updates, "status", in.Status)
		setOptional(updates, "notes", in.Notes)
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&appt).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update appointment: %w", err)
		}
		return nil
	})
}

// Cancel sets the status of one of the principal's bookings to cancelled,
// whatever its current status.
func (s *AppointmentService) Cancel(ctx context.Context, p models.Principal, id uint) error {
	if !p.HasRole(models.RoleClient) {
		return ErrInsufficientRole
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		appt, err := loadClientAppointment(tx, p, id)
		if err != nil {
			return err
		}

		if err := tx.Model(appt).Update("status", models.StatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel appointment: %w", err)
		}
		return nil
	})
}

func loadClientAppointment(tx *gorm.DB, p models.Principal, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := tx.First(&appt, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	if appt.ClientID != p.UserID {
		return nil, ErrForbidden
	}
	return &appt, nil
}
