package member

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// Member is a single person record. ParentID nil marks a root; SpouseID is the
// legacy single reference and SpouseIDs the ordered list. Neither spouse field
// is required to be mirrored on the other side.
type Member struct {
	ID              string     `gorm:"type:uuid;primaryKey"`
	FullName        string     `gorm:"not null"`
	Gender          Gender     `gorm:"type:varchar(16);not null"`
	Generation      int        `gorm:"not null;index:idx_members_order,priority:1"`
	BirthOrder      int        `gorm:"not null;default:1;index:idx_members_order,priority:2"`
	ParentID        *string    `gorm:"type:uuid;index"`
	SpouseID        *string    `gorm:"type:uuid"`
	SpouseIDs       []string   `gorm:"type:jsonb;serializer:json"`
	IsDeceased      bool       `gorm:"not null;default:false"`
	BirthDate       *time.Time `gorm:"type:date"`
	DeathDate       *time.Time `gorm:"type:date"`
	Avatar          string
	AnniversaryDate string
	Biography       string
	Phone           string
	Email           string
	Address         string
	BurialPlace     string
	Details         map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (m Member) IsRoot() bool {
	return m.ParentID == nil || *m.ParentID == ""
}

type ListFilter struct {
	Generation *int
	ParentID   *string
	Gender     Gender
	IsDeceased *bool
	Query      string
	Limit      int
	Offset     int
}

// Input carries the editable fields of a member; updates replace all of them.
type Input struct {
	FullName        string
	Gender          Gender
	Generation      int
	BirthOrder      int
	ParentID        *string
	SpouseID        *string
	SpouseIDs       []string
	IsDeceased      bool
	BirthDate       *time.Time
	DeathDate       *time.Time
	Avatar          string
	AnniversaryDate string
	Biography       string
	Phone           string
	Email           string
	Address         string
	BurialPlace     string
	Details         map[string]any
}
