package album

import (
	"io"
	"time"
)

type Album struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	CoverURL    string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Photo points either at an external URL or at an object this service
// uploaded, in which case ObjectKey is set.
type Photo struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	AlbumID   string `gorm:"type:uuid;index;not null"`
	URL       string `gorm:"not null"`
	ObjectKey string
	Caption   string
	SortOrder int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Summary struct {
	Album
	PhotoCount int64
}

type WithPhotos struct {
	Album  Album
	Photos []Photo
}

type AlbumInput struct {
	Title       string
	Description string
	CoverURL    string
}

type UpdateInput struct {
	Title       *string
	Description *string
	CoverURL    *string
}

type PhotoInput struct {
	URL     string
	Caption string
}

// Upload is a photo file; its type is detected from Body.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
	Caption  string
}
