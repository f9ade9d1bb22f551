package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"quill/app/controllers"
	"quill/app/metrics"
	"quill/app/middleware"
	"quill/app/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Pinger reports whether the storage backend is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs. Metrics, Health and Logger are
// optional.
type Deps struct {
	PostService    *services.PostService
	CommentService *services.CommentService
	Metrics        *metrics.Metrics
	Health         Pinger
	Logger         *zap.SugaredLogger

	CORSOrigins  []string
	RateLimitRPM int
}

// SetupRoutes defines the application's routes and returns the handler to
// serve. CORS wraps the router itself because mux middleware only runs on
// matched routes and no route answers OPTIONS.
func SetupRoutes(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recoverer(log))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
		router.Handle("/metrics", d.Metrics.Handler()).Methods("GET")
	}

	router.HandleFunc("/healthz", healthz(d.Health)).Methods("GET")

	postController := controllers.NewPostController(d.PostService, log)
	commentController := controllers.NewCommentController(d.CommentService, log)

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.RateLimit(d.RateLimitRPM))

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}", postController.Show).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/{id:[0-9]+}", postController.Update).Methods("PUT")
	posts.HandleFunc("/{id:[0-9]+}", postController.Delete).Methods("DELETE")

	// Comments API endpoints
	posts.HandleFunc("/{postId:[0-9]+}/comments", commentController.Index).Methods("GET")
	posts.HandleFunc("/{postId:[0-9]+}/comments", commentController.Create).Methods("POST")
	api.HandleFunc("/comments/{id:[0-9]+}", commentController.Show).Methods("GET")
	api.HandleFunc("/comments/{id:[0-9]+}", commentController.Update).Methods("PUT")
	api.HandleFunc("/comments/{id:[0-9]+}", commentController.Delete).Methods("DELETE")

	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	return middleware.CORS(d.CORSOrigins)(router)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

func healthz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			if err := p.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
