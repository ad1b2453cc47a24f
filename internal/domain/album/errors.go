package album

import "errors"

var (
	ErrAlbumNotFound   = errors.New("album not found")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("upload too large")
	ErrStorageDisabled = errors.New("object storage is not configured")
)
