package controllers

import (
	"net/http"
	"strconv"

	"quill/app/models"
	"quill/app/services"

	"go.uber.org/zap"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
	log            *zap.SugaredLogger
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, log *zap.SugaredLogger) *CommentController {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CommentController{commentService: commentService, log: log}
}

// SetService sets the comment service for testing
func (cc *CommentController) SetService(service *services.CommentService) {
	cc.commentService = service
}

func (cc *CommentController) decodeParams(r *http.Request) (models.CommentParams, error) {
	var params models.CommentParams
	err := decodeBody(r, &params, func() {
		params.Author = formValue(r, "author")
		params.Body = formValue(r, "body")
	})
	return params, err
}

// Index handles listing all comments for a post
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		sendError(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	comments, err := cc.commentService.ListPostComments(r.Context(), postID)
	if err != nil {
		respondError(w, r, cc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"post_id":  postID,
		"comments": newCommentResponses(comments),
	})
}

// Create handles creating a new comment on the post named in the path
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		sendError(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	params, err := cc.decodeParams(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment := &models.Comment{PostID: postID}
	comment.Apply(params)
	if err := cc.commentService.CreateComment(r.Context(), comment); err != nil {
		respondError(w, r, cc.log, err)
		return
	}

	w.Header().Set("Location", "/api/comments/"+strconv.Itoa(comment.ID))
	sendJSON(w, http.StatusCreated, newCommentResponse(comment))
}

// Show handles displaying a single comment
func (cc *CommentController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	comment, err := cc.commentService.GetComment(r.Context(), id)
	if err != nil {
		respondError(w, r, cc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, newCommentResponse(comment))
}

// Update handles editing an existing comment
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	params, err := cc.decodeParams(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := cc.commentService.UpdateComment(r.Context(), id, params)
	if err != nil {
		respondError(w, r, cc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, newCommentResponse(comment))
}

// Delete handles deleting a comment
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	if err := cc.commentService.DeleteComment(r.Context(), id); err != nil {
		respondError(w, r, cc.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
