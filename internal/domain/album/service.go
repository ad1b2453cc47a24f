package album

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"giapha-go/pkg/logger"
	"github.com/google/uuid"
)

// sniffLen is how much http.DetectContentType looks at.
const sniffLen = 512

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Service struct {
	repo      Repository
	storage   Storage
	maxUpload int64
	log       logger.Logger
}

// NewService builds the album service. storage may be nil, in which case
// uploads fail with ErrStorageDisabled and photos can only be added by URL.
func NewService(repo Repository, storage Storage, maxUpload int64, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, storage: storage, maxUpload: maxUpload, log: log}
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.ListAlbums(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*WithPhotos, error) {
	album, err := s.repo.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	photos, err := s.repo.ListPhotos(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WithPhotos{Album: *album, Photos: photos}, nil
}

func (s *Service) Create(ctx context.Context, input AlbumInput) (*Album, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	album := Album{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CoverURL:    strings.TrimSpace(input.CoverURL),
	}
	if err := s.repo.CreateAlbum(ctx, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Album, error) {
	album, err := s.repo.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		album.Title = title
	}
	if input.Description != nil {
		album.Description = strings.TrimSpace(*input.Description)
	}
	if input.CoverURL != nil {
		album.CoverURL = strings.TrimSpace(*input.CoverURL)
	}

	if err := s.repo.UpdateAlbum(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// Delete removes the album and its photos in one transaction, then drops any
// uploaded objects. Object removal failures are logged, not returned.
func (s *Service) Delete(ctx context.Context, id string) error {
	var removed []Photo
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		photos, err := tx.DeletePhotosByAlbum(ctx, id)
		if err != nil {
			return err
		}
		deleted, err := tx.DeleteAlbum(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrAlbumNotFound
		}
		removed = photos
		return nil
	})
	if err != nil {
		return err
	}

	for _, photo := range removed {
		s.removeObject(ctx, photo)
	}
	return nil
}

func (s *Service) AddPhoto(ctx context.Context, albumID string, input PhotoInput) (*Photo, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	return s.createPhoto(ctx, albumID, Photo{URL: url, Caption: strings.TrimSpace(input.Caption)})
}

func (s *Service) UploadPhoto(ctx context.Context, albumID string, upload Upload) (*Photo, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	if upload.Size <= 0 || upload.Body == nil {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if s.maxUpload > 0 && upload.Size > s.maxUpload {
		return nil, ErrTooLarge
	}
	contentType, body, err := sniffContentType(upload.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if _, err := s.repo.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}

	key := path.Join("albums", albumID, uuid.NewString()+ext)
	url, err := s.storage.Put(ctx, key, contentType, body, upload.Size)
	if err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	caption := strings.TrimSpace(upload.Caption)
	if caption == "" {
		caption = strings.TrimSuffix(path.Base(upload.Filename), path.Ext(upload.Filename))
	}
	photo, err := s.createPhoto(ctx, albumID, Photo{URL: url, ObjectKey: key, Caption: caption})
	if err != nil {
		s.removeObject(ctx, Photo{ObjectKey: key})
		return nil, err
	}
	return photo, nil
}

// sniffContentType detects the type from the first bytes of body. The client
// header is not trusted. The returned reader replays the consumed bytes.
func sniffContentType(body io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType, io.MultiReader(bytes.NewReader(head), body), nil
}

func (s *Service) DeletePhoto(ctx context.Context, id string) error {
	photo, err := s.repo.GetPhoto(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeletePhoto(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPhotoNotFound
	}
	s.removeObject(ctx, *photo)
	return nil
}

func (s *Service) createPhoto(ctx context.Context, albumID string, photo Photo) (*Photo, error) {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetAlbum(ctx, albumID); err != nil {
			return err
		}
		order, err := tx.NextSortOrder(ctx, albumID)
		if err != nil {
			return err
		}
		photo.ID = uuid.NewString()
		photo.AlbumID = albumID
		photo.SortOrder = order
		return tx.CreatePhoto(ctx, &photo)
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (s *Service) removeObject(ctx context.Context, photo Photo) {
	if photo.ObjectKey == "" || s.storage == nil {
		return
	}
	if err := s.storage.Remove(ctx, photo.ObjectKey); err != nil {
		s.log.Warn("albums.remove_object: failed", "key", photo.ObjectKey, "error", err)
	}
}
