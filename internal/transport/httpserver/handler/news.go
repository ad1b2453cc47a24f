package handler

import (
	"errors"
	"net/http"
	"time"

	accountdomain "giapha-go/internal/domain/account"
	newsdomain "giapha-go/internal/domain/news"
	"giapha-go/internal/transport/httpserver/middleware"
)

type createPostRequest struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Content   string `json:"content"`
	CoverURL  string `json:"cover_url"`
	Published bool   `json:"published"`
}

type updatePostRequest struct {
	Title     *string `json:"title"`
	Summary   *string `json:"summary"`
	Content   *string `json:"content"`
	CoverURL  *string `json:"cover_url"`
	Published *bool   `json:"published"`
}

type postResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content,omitempty"`
	CoverURL    string     `json:"cover_url"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	AuthorID    *string    `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (h *Handlers) ListNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	posts, total, err := h.News.List(r.Context(), newsdomain.ListFilter{
		IncludeDrafts: middleware.HasRole(r.Context(), accountdomain.RoleEditor),
		Query:         query.Get("q"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		h.log.InternalError("news.list: list posts failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		item := toPostResponse(post)
		item.Content = ""
		response = append(response, item)
	}
	writeData(w, http.StatusOK, listResponse{Items: response, Total: total})
}

func (h *Handlers) GetNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "post_not_found", "post not found")
		return
	}

	post, err := h.News.Get(r.Context(), id, middleware.HasRole(r.Context(), accountdomain.RoleEditor))
	if err != nil {
		h.newsError(w, "news.get", err, "post_id", id)
		return
	}

	writeData(w, http.StatusOK, toPostResponse(*post))
}

func (h *Handlers) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	post, err := h.News.Create(r.Context(), newsdomain.CreateInput{
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		CoverURL:  req.CoverURL,
		Published: req.Published,
		AuthorID:  principal.AccountID,
	})
	if err != nil {
		h.newsError(w, "news.create", err, "account_id", principal.AccountID)
		return
	}

	writeData(w, http.StatusCreated, toPostResponse(*post))
}

func (h *Handlers) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "post_not_found", "post not found")
		return
	}

	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	post, err := h.News.Update(r.Context(), id, newsdomain.UpdateInput{
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		CoverURL:  req.CoverURL,
		Published: req.Published,
	})
	if err != nil {
		h.newsError(w, "news.update", err, "post_id", id)
		return
	}

	writeData(w, http.StatusOK, toPostResponse(*post))
}

func (h *Handlers) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "post_not_found", "post not found")
		return
	}

	if err := h.News.Delete(r.Context(), id); err != nil {
		h.newsError(w, "news.delete", err, "post_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) newsError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, newsdomain.ErrPostNotFound):
		h.log.BusinessError(op+": post not found", err, args...)
		writeError(w, http.StatusNotFound, "post_not_found", "post not found")
	case errors.Is(err, newsdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toPostResponse(post newsdomain.Post) postResponse {
	return postResponse{
		ID:          post.ID,
		Title:       post.Title,
		Summary:     post.Summary,
		Content:     post.Content,
		CoverURL:    post.CoverURL,
		Published:   post.Published,
		PublishedAt: post.PublishedAt,
		AuthorID:    post.AuthorID,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}
