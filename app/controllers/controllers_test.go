package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quill/app/repositories/memory"
	"quill/app/schema"
	"quill/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   *mux.Router
	posts    *memory.PostRepository
	comments *memory.CommentRepository
}

func setupTestEnv(t *testing.T, dep schema.Dependent) *testEnv {
	t.Helper()
	env := &testEnv{
		posts:    memory.NewPostRepository(),
		comments: memory.NewCommentRepository(),
	}
	reg := schema.Default(dep)
	postController := NewPostController(services.NewPostService(env.posts, env.comments, services.WithRegistry(reg)), nil)
	commentController := NewCommentController(services.NewCommentService(env.comments, env.posts, services.WithRegistry(reg)), nil)

	router := mux.NewRouter()
	router.HandleFunc("/api/posts", postController.Index).Methods("GET")
	router.HandleFunc("/api/posts", postController.Create).Methods("POST")
	router.HandleFunc("/api/posts/{id}", postController.Show).Methods("GET")
	router.HandleFunc("/api/posts/{id}", postController.Update).Methods("PUT")
	router.HandleFunc("/api/posts/{id}", postController.Delete).Methods("DELETE")
	router.HandleFunc("/api/posts/{postId}/comments", commentController.Index).Methods("GET")
	router.HandleFunc("/api/posts/{postId}/comments", commentController.Create).Methods("POST")
	router.HandleFunc("/api/comments/{id}", commentController.Show).Methods("GET")
	router.HandleFunc("/api/comments/{id}", commentController.Update).Methods("PUT")
	router.HandleFunc("/api/comments/{id}", commentController.Delete).Methods("DELETE")
	env.router = router
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
