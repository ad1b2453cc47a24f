package news

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Title       string `gorm:"not null"`
	Summary     string
	Content     string
	CoverURL    string
	Published   bool `gorm:"not null;default:false;index"`
	PublishedAt *time.Time
	AuthorID    *string        `gorm:"type:uuid"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Post) TableName() string {
	return "news_posts"
}

type ListFilter struct {
	IncludeDrafts bool
	Query         string
	Limit         int
	Offset        int
}

type CreateInput struct {
	Title     string
	Summary   string
	Content   string
	CoverURL  string
	Published bool
	AuthorID  string
}

type UpdateInput struct {
	Title     *string
	Summary   *string
	Content   *string
	CoverURL  *string
	Published *bool
}
