package model

import (
	"time"

	"gorm.io/gorm"
)

// TimestampLayout is the fixed-precision format used for timestamps in API
// responses.
const TimestampLayout = "2006-01-02 15:04:05"

// Server represents the server table (servers)
type Server struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"size:200" json:"description"`
	Host        string         `gorm:"size:255;not null" json:"host"`
	IPAddress   string         `gorm:"column:ip_address;size:45;not null" json:"ip_address"`
	ImagePath   string         `gorm:"column:image_path;size:500" json:"-"`
	SortOrder   uint           `gorm:"index" json:"sort_order"`
	Status      bool           `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ServerView is the public representation of a server. The storage key is
// replaced by a resolved URL and timestamps are formatted strings.
type ServerView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Host        string  `json:"host"`
	IPAddress   string  `json:"ip_address"`
	ImageURL    *string `json:"image_url"`
	SortOrder   uint    `json:"sort_order"`
	Status      bool    `json:"status"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// View builds the API representation. Timestamps are included only for read
// operations; create and update responses omit them.
func (s *Server) View(baseURL string, withTimestamps bool) ServerView {
	view := ServerView{
		ID:        s.ID,
		Name:      s.Name,
		Host:      s.Host,
		IPAddress: s.IPAddress,
		SortOrder: s.SortOrder,
		Status:    s.Status,
	}
	if s.Description != "" {
		d := s.Description
		view.Description = &d
	}
	if s.ImagePath != "" {
		u := baseURL + "/storage/" + s.ImagePath
		view.ImageURL = &u
	}
	if withTimestamps {
		view.CreatedAt = s.CreatedAt.Format(TimestampLayout)
		view.UpdatedAt = s.UpdatedAt.Format(TimestampLayout)
	}
	return view
}
