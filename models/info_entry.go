package models

import "time"

// InfoEntry is a published InfoHub article
type InfoEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:50;not null;index" json:"category"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name for the InfoEntry model
func (InfoEntry) TableName() string {
	return "info_hub"
}
