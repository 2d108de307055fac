package models

import (
	"time"
)

// Message represents a message in an appointment conversation
type Message struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	AppointmentID uint        `gorm:"not null;index" json:"appointment_id"` // foreign key to appointments table
	Appointment   Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"-"`
	SenderID      uint        `gorm:"not null;index" json:"sender_id"`   // user id, taken from the token
	ReceiverID    uint        `gorm:"not null;index" json:"receiver_id"` // user id of the other participant
	MessageText   *string     `gorm:"type:text" json:"message_text"`
	FilePath      *string     `gorm:"size:255" json:"file_path"`
	FileType      *string     `gorm:"size:100" json:"file_type"`
	Timestamp     time.Time   `gorm:"autoCreateTime" json:"timestamp"`
	IsRead        bool        `gorm:"not null;default:false" json:"is_read"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
