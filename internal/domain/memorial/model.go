package memorial

import (
	"time"

	"giapha-go/internal/domain/member"
)

// Counter holds the running incense total for one deceased member.
type Counter struct {
	MemberID     string `gorm:"type:uuid;primaryKey"`
	IncenseCount int64  `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

func (Counter) TableName() string {
	return "memorial_counters"
}

type IncenseLog struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	MemberID    string `gorm:"type:uuid;index;not null"`
	VisitorName string
	Message     string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (IncenseLog) TableName() string {
	return "incense_logs"
}

type Condolence struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	MemberID   string    `gorm:"type:uuid;index;not null"`
	AuthorName string    `gorm:"not null"`
	Message    string    `gorm:"not null"`
	Hidden     bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

type Page struct {
	Member        member.Member
	IncenseCount  int64
	RecentIncense []IncenseLog
	Condolences   []Condolence
}
