package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"quill/app/models"
	"quill/app/render"
	"quill/app/repositories"
	"quill/app/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type postResponse struct {
	ID        int               `json:"id"`
	Title     string            `json:"title"`
	TitleHTML string            `json:"title_html"`
	Body      string            `json:"body"`
	BodyHTML  string            `json:"body_html"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Comments  []commentResponse `json:"comments"`
}

type commentResponse struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html"`
	CreatedAt time.Time `json:"created_at"`
}

type errorResponse struct {
	Error    string        `json:"error"`
	Errors   models.Errors `json:"errors,omitempty"`
	Messages []string      `json:"messages,omitempty"`
}

func newPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		TitleHTML: render.Plain(p.Title),
		Body:      p.Body,
		BodyHTML:  render.Markdown(p.Body),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Comments:  newCommentResponses(p.Comments),
	}
}

func newCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    c.Author,
		Body:      c.Body,
		BodyHTML:  render.Markdown(c.Body),
		CreatedAt: c.CreatedAt,
	}
}

func newCommentResponses(comments []*models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, newCommentResponse(c))
	}
	return out
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, errorResponse{Error: message})
}

// respondError maps err to a status code and writes it. Unexpected errors
// are logged and hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		sendJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:    "validation failed",
			Errors:   verr.Errors,
			Messages: verr.Errors.FullMessages(),
		})
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, "not found", http.StatusNotFound)
	case errors.Is(err, services.ErrDependentRecords):
		sendError(w, err.Error(), http.StatusConflict)
	default:
		log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		sendError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

// formValue returns a pointer to the submitted value of key, or nil when
// the form does not carry it.
func formValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// decodeBody fills dst from a JSON body, or calls fromForm for form posts.
func decodeBody(r *http.Request, dst interface{}, fromForm func()) error {
	if isForm(r) {
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return fmt.Errorf("failed to parse form: %w", err)
		}
		fromForm()
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
