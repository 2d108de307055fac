package models

import (
	"time"
)

// LawyerProfile is the publishable business card of a lawyer account.
// user_id carries a unique index: it is what keeps one profile per account
// when two create requests race.
type LawyerProfile struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	UserID              uint        `gorm:"uniqueIndex;not null" json:"user_id"`
	User                User        `gorm:"foreignKey:UserID" json:"-"`
	Experience          *int        `json:"experience"`
	Location            *string     `gorm:"size:255" json:"location"`
	CourtOfPractice     *string     `gorm:"size:255" json:"court_of_practice"`
	AvailabilityDetails *string     `gorm:"type:text" json:"availability_details"`
	HourlyRate          *string     `gorm:"size:255" json:"hourly_rate"`
	Specialties         []Specialty `gorm:"foreignKey:LawyerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the LawyerProfile model
func (LawyerProfile) TableName() string {
	return "lawyer_profiles"
}

// SpecialtyNames returns the loaded specialty names in stored order.
func (p LawyerProfile) SpecialtyNames() []string {
	names := make([]string, 0, len(p.Specialties))
	for _, s := range p.Specialties {
		names = append(names, s.Name)
	}
	return names
}

// Specialty is a practice area tag owned by a lawyer profile
type Specialty struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	LawyerID uint   `gorm:"not null;index" json:"lawyer_id"` // foreign key to lawyer_profiles table
	Name     string `gorm:"size:100;not null" json:"name"`
}

// TableName specifies the table name for the Specialty model
func (Specialty) TableName() string {
	return "specialties"
}
