package models

import "time"

// RoleNone marks a page visible to everyone.
const RoleNone = "none"

// Page statuses. The REST path serves pages regardless of status.
const (
	StatusDisabled = 0
	StatusEnabled  = 1
)

// HTMLPage is a piece of HTML content managed by the CMS.
type HTMLPage struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	HTMLContent string    `gorm:"column:html_content;type:text" json:"html_content"`
	Status      int       `gorm:"not null;default:0" json:"status"`
	Role        string    `gorm:"type:varchar(50);not null;default:'none';index" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (HTMLPage) TableName() string { return "htmlpage" }
