package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/models"
)

// SendMessageInput is a message posted into an appointment conversation.
// The sender always comes from the principal.
type SendMessageInput struct {
	AppointmentID uint
	ReceiverID    uint
	MessageText   *string
	FilePath      *string
	FileType      *string
}

// MessageService records appointment-scoped messages between participants
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a new message log
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Send stores a message from the principal to receiverID. Both must be
// participants of the appointment; a participant may address themselves.
func (s *MessageService) Send(ctx context.Context, p models.Principal, in SendMessageInput) (*models.Message, error) {
	if in.AppointmentID == 0 || in.ReceiverID == 0 {
		return nil, BadRequest("appointment_id and receiver_id are required")
	}

	msg := models.Message{
		AppointmentID: in.AppointmentID,
		SenderID:      p.UserID,
		ReceiverID:    in.ReceiverID,
		MessageText:   in.MessageText,
		FilePath:      in.FilePath,
		FileType:      in.FileType,
		IsRead:        false,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		participants, err := appointmentParticipants(tx, in.AppointmentID)
		if err != nil {
			return err
		}

		if !participants.includes(p.UserID) || !participants.includes(in.ReceiverID) {
			return ErrNotParticipant
		}

		if err := tx.Create(&msg).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// List returns the appointment's messages in ascending id order.
func (s *MessageService) List(ctx context.Context, p models.Principal, appointmentID uint) ([]models.Message, error) {
	db := s.db.WithContext(ctx)

	participants, err := appointmentParticipants(db, appointmentID)
	if err != nil {
		return nil, err
	}
	if !participants.includes(p.UserID) {
		return nil, ErrForbidden
	}

	messages := []models.Message{}
	if err := db.Where("appointment_id = ?", appointmentID).Order("id ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// MarkRead flags a message as read. Only its receiver may do so; repeating it is a no-op.
func (s *MessageService) MarkRead(ctx context.Context, p models.Principal, messageID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		if err := tx.First(&msg, messageID).Error; err != nil {
			if isNotFound(err) {
				return ErrMessageNotFound
			}
			return fmt.Errorf("failed to load message: %w", err)
		}

		if msg.ReceiverID != p.UserID {
			return ErrForbidden
		}
		if msg.IsRead {
			return nil
		}

		if err := tx.Model(&msg).Update("is_read", true).Error; err != nil {
			return fmt.Errorf("failed to mark message read: %w", err)
		}
		return nil
	})
}

// participants holds the user ids on either side of an appointment.
// lawyerUserID is zero when the referenced profile no longer exists.
type participants struct {
	clientID     uint
	lawyerUserID uint
}

func (ps participants) includes(userID uint) bool {
	if userID == 0 {
		return false
	}
	return userID == ps.clientID || userID == ps.lawyerUserID
}

// appointmentParticipants resolves the client id and the user id owning the
// appointment's lawyer profile.
func appointmentParticipants(tx *gorm.DB, appointmentID uint) (participants, error) {
	var appt models.Appointment
	if err := tx.Preload("Lawyer").First(&appt, appointmentID).Error; err != nil {
		if isNotFound(err) {
			return participants{}, ErrAppointmentNotFound
		}
		return participants{}, fmt.Errorf("failed to load appointment: %w", err)
	}

	return participants{clientID: appt.ClientID, lawyerUserID: appt.Lawyer.UserID}, nil
}
