package controllers

import (
	"net/http"
	"strconv"

	"quill/app/models"
	"quill/app/services"

	"go.uber.org/zap"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	log         *zap.SugaredLogger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, log *zap.SugaredLogger) *PostController {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PostController{postService: postService, log: log}
}

// SetService sets the post service for testing
func (pc *PostController) SetService(service *services.PostService) {
	pc.postService = service
}

func (pc *PostController) decodeParams(r *http.Request) (models.PostParams, error) {
	var params models.PostParams
	err := decodeBody(r, &params, func() {
		params.Title = formValue(r, "title")
		params.Body = formValue(r, "body")
	})
	return params, err
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	if page < 1 {
		page = 1
	}

	posts, err := pc.postService.ListPosts(r.Context(), page, queryInt(r, "per_page"))
	if err != nil {
		respondError(w, r, pc.log, err)
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostResponse(p))
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"posts": out,
		"page":  page,
	})
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		respondError(w, r, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, newPostResponse(post))
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	params, err := pc.decodeParams(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post := &models.Post{}
	post.Apply(params)
	if err := pc.postService.CreatePost(r.Context(), post); err != nil {
		respondError(w, r, pc.log, err)
		return
	}

	w.Header().Set("Location", "/api/posts/"+strconv.Itoa(post.ID))
	sendJSON(w, http.StatusCreated, newPostResponse(post))
}

// Update handles replacing the attributes of an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	params, err := pc.decodeParams(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), id, params)
	if err != nil {
		respondError(w, r, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, newPostResponse(post))
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	if err := pc.postService.DeletePost(r.Context(), id); err != nil {
		respondError(w, r, pc.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
