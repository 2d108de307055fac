package models

import (
	"time"
)

// Appointment statuses the application itself writes. Lawyers may set any
// other free-text status.
const (
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment is a booking between a client account and a lawyer profile
type Appointment struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	ClientID           uint          `gorm:"not null;index" json:"client_id"` // foreign key to users table
	Client             User          `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	LawyerID           uint          `gorm:"not null;index" json:"lawyer_id"` // foreign key to lawyer_profiles table
	Lawyer             LawyerProfile `gorm:"foreignKey:LawyerID;constraint:OnDelete:CASCADE" json:"-"`
	AppointmentDate    string        `gorm:"size:50;not null" json:"appointment_date"`
	Status             string        `gorm:"size:50;not null;default:'pending'" json:"status"`
	ProblemDescription *string       `gorm:"type:text" json:"problem_description"`
	Notes              *string       `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time     `json:"-"`
	UpdatedAt          time.Time     `json:"-"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}
