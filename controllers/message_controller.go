package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legal-sheba/legal-sheba-api/services"
	"github.com/legal-sheba/legal-sheba-api/utils"
)

// Multipart overhead allowed on top of the attachment itself
const uploadOverhead = 1 << 20

// SendMessageRequest represents the request body for sending a message.
// The sender is always the authenticated caller.
type SendMessageRequest struct {
	AppointmentID uint    `json:"appointment_id"`
	ReceiverID    uint    `json:"receiver_id"`
	MessageText   *string `json:"message_text"`
	FilePath      *string `json:"file_path"`
	FileType      *string `json:"file_type"`
}

// MessageController serves the /messages routes
type MessageController struct {
	messages    *services.MessageService
	attachments *services.AttachmentService
}

// NewMessageController creates a new message controller
func NewMessageController(messages *services.MessageService, attachments *services.AttachmentService) *MessageController {
	return &MessageController{messages: messages, attachments: attachments}
}

// Send handles POST /messages/send
func (mc *MessageController) Send(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := mc.messages.Send(c.Request.Context(), p, services.SendMessageInput{
		AppointmentID: req.AppointmentID,
		ReceiverID:    req.ReceiverID,
		MessageText:   req.MessageText,
		FilePath:      req.FilePath,
		FileType:      req.FileType,
	})
	if err != nil {
		respondError(c, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Message sent",
		"message_id": msg.ID,
	})
}

// ListForAppointment handles GET /messages/appointment/:id
func (mc *MessageController) ListForAppointment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointmentID, ok := idParam(c, "id", services.ErrAppointmentNotFound)
	if !ok {
		return
	}

	msgs, err := mc.messages.List(c.Request.Context(), p, appointmentID)
	if err != nil {
		respondError(c, err, "Failed to fetch messages")
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// MarkRead handles POST /messages/:id/read
func (mc *MessageController) MarkRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	messageID, ok := idParam(c, "id", services.ErrMessageNotFound)
	if !ok {
		return
	}

	if err := mc.messages.MarkRead(c.Request.Context(), p, messageID); err != nil {
		respondError(c, err, "Failed to mark message as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

// Upload handles POST /messages/upload - stores an attachment to reference in a message
func (mc *MessageController) Upload(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxFileSize+uploadOverhead)

	fileHeader, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		fileErr := utils.ErrFileTooLarge()
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fileErr.Message,
			"code":    fileErr.Code,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "A file is required in the 'file' field",
			"code":    "NO_FILE",
		})
		return
	}

	att, err := mc.attachments.Upload(c.Request.Context(), p, fileHeader)
	if err != nil {
		respondError(c, err, "Failed to store file")
		return
	}

	c.JSON(http.StatusCreated, att)
}

// Download handles GET /messages/file/:filename. Local files are served as an
// attachment; remote ones redirect to a short-lived signed URL.
func (mc *MessageController) Download(c *gin.Context) {
	file, err := mc.attachments.Fetch(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, err, "Failed to fetch file")
		return
	}

	if file.URL != "" {
		c.Redirect(http.StatusFound, file.URL)
		return
	}

	c.FileAttachment(file.Path, file.Name)
}
