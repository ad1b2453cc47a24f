package handler

import (
	"errors"
	"net/http"
	"time"

	albumdomain "giapha-go/internal/domain/album"
)

const multipartMemory = 8 << 20

type createAlbumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
}

type updateAlbumRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverURL    *string `json:"cover_url"`
}

type addPhotoRequest struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

type albumResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url"`
	PhotoCount  *int64    `json:"photo_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type photoResponse struct {
	ID        string    `json:"id"`
	AlbumID   string    `json:"album_id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

type albumDetailResponse struct {
	Album  albumResponse   `json:"album"`
	Photos []photoResponse `json:"photos"`
}

func (h *Handlers) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.Albums.List(r.Context())
	if err != nil {
		h.log.InternalError("albums.list: list albums failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]albumResponse, 0, len(albums))
	for _, summary := range albums {
		item := toAlbumResponse(summary.Album)
		count := summary.PhotoCount
		item.PhotoCount = &count
		response = append(response, item)
	}
	writeData(w, http.StatusOK, response)
}

func (h *Handlers) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "album_not_found", "album not found")
		return
	}

	album, err := h.Albums.Get(r.Context(), id)
	if err != nil {
		h.albumError(w, "albums.get", err, "album_id", id)
		return
	}

	photos := make([]photoResponse, 0, len(album.Photos))
	for _, photo := range album.Photos {
		photos = append(photos, toPhotoResponse(photo))
	}
	writeData(w, http.StatusOK, albumDetailResponse{Album: toAlbumResponse(album.Album), Photos: photos})
}

func (h *Handlers) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	album, err := h.Albums.Create(r.Context(), albumdomain.AlbumInput{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
	})
	if err != nil {
		h.albumError(w, "albums.create", err)
		return
	}

	writeData(w, http.StatusCreated, toAlbumResponse(*album))
}

func (h *Handlers) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "album_not_found", "album not found")
		return
	}

	var req updateAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	album, err := h.Albums.Update(r.Context(), id, albumdomain.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
	})
	if err != nil {
		h.albumError(w, "albums.update", err, "album_id", id)
		return
	}

	writeData(w, http.StatusOK, toAlbumResponse(*album))
}

func (h *Handlers) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "album_not_found", "album not found")
		return
	}

	if err := h.Albums.Delete(r.Context(), id); err != nil {
		h.albumError(w, "albums.delete", err, "album_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddPhoto(w http.ResponseWriter, r *http.Request) {
	albumID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "album_not_found", "album not found")
		return
	}

	var req addPhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	photo, err := h.Albums.AddPhoto(r.Context(), albumID, albumdomain.PhotoInput{URL: req.URL, Caption: req.Caption})
	if err != nil {
		h.albumError(w, "albums.add_photo", err, "album_id", albumID)
		return
	}

	writeData(w, http.StatusCreated, toPhotoResponse(*photo))
}

// UploadPhoto expects a multipart form with a "file" part and an optional
// "caption" field.
func (h *Handlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	albumID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "album_not_found", "album not found")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer file.Close()

	photo, err := h.Albums.UploadPhoto(r.Context(), albumID, albumdomain.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
		Caption:  r.FormValue("caption"),
	})
	if err != nil {
		h.albumError(w, "albums.upload_photo", err, "album_id", albumID, "filename", header.Filename)
		return
	}

	writeData(w, http.StatusCreated, toPhotoResponse(*photo))
}

func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "photo_not_found", "photo not found")
		return
	}

	if err := h.Albums.DeletePhoto(r.Context(), id); err != nil {
		h.albumError(w, "albums.delete_photo", err, "photo_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) albumError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, albumdomain.ErrAlbumNotFound):
		h.log.BusinessError(op+": album not found", err, args...)
		writeError(w, http.StatusNotFound, "album_not_found", "album not found")
	case errors.Is(err, albumdomain.ErrPhotoNotFound):
		h.log.BusinessError(op+": photo not found", err, args...)
		writeError(w, http.StatusNotFound, "photo_not_found", "photo not found")
	case errors.Is(err, albumdomain.ErrUnsupportedType):
		h.log.BusinessError(op+": unsupported type", err, args...)
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_type", "only jpeg, png, webp and gif images are accepted")
	case errors.Is(err, albumdomain.ErrTooLarge):
		h.log.BusinessError(op+": upload too large", err, args...)
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "upload too large")
	case errors.Is(err, albumdomain.ErrStorageDisabled):
		h.log.BusinessError(op+": storage disabled", err, args...)
		writeError(w, http.StatusServiceUnavailable, "storage_disabled", "photo uploads are not enabled")
	case errors.Is(err, albumdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toAlbumResponse(album albumdomain.Album) albumResponse {
	return albumResponse{
		ID:          album.ID,
		Title:       album.Title,
		Description: album.Description,
		CoverURL:    album.CoverURL,
		CreatedAt:   album.CreatedAt,
		UpdatedAt:   album.UpdatedAt,
	}
}

func toPhotoResponse(photo albumdomain.Photo) photoResponse {
	return photoResponse{
		ID:        photo.ID,
		AlbumID:   photo.AlbumID,
		URL:       photo.URL,
		Caption:   photo.Caption,
		SortOrder: photo.SortOrder,
		CreatedAt: photo.CreatedAt,
	}
}
