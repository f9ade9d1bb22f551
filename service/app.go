package service

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quill/app/config"
	"quill/app/logger"
	"quill/app/metrics"
	"quill/app/routes"
	"quill/app/schema"
	"quill/app/services"
	"quill/app/store"

	"go.uber.org/zap"
)

// serve runs the blog API until SIGINT or SIGTERM.
func serve(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stdout())
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		printf("Failed to create logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RunAppServer(ctx, cfg, log, nil); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

// RunAppServer opens the store, serves the API on cfg.HTTPAddr and shuts
// down gracefully once ctx is done. The bound address is sent on ready
// when it is not nil.
func RunAppServer(ctx context.Context, cfg *config.Config, log *zap.Logger, ready chan<- string) error {
	dep, err := cfg.Dependent()
	if err != nil {
		return err
	}

	reg := schema.Default(dep)
	st, err := store.Open(ctx, cfg.Store, reg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	sugar := log.Sugar()
	m := metrics.New()
	opts := []services.Option{
		services.WithRegistry(reg),
		services.WithLogger(sugar.Named("services")),
		services.WithFailureRecorder(m),
		services.WithPageSize(cfg.Blog.DefaultPageSize, cfg.Blog.MaxPageSize),
	}

	router := routes.SetupRoutes(routes.Deps{
		PostService:    services.NewPostService(st.Posts, st.Comments, opts...),
		CommentService: services.NewCommentService(st.Comments, st.Posts, opts...),
		Metrics:        m,
		Health:         st,
		Logger:         sugar.Named("http"),
		CORSOrigins:    cfg.HTTP.Origins(),
		RateLimitRPM:   cfg.HTTP.RateLimitRPM,
	})

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	sugar.Infow("Starting blog service", "addr", ln.Addr().String(), "driver", st.Driver, "comments_on_post_delete", dep)
	if ready != nil {
		ready <- ln.Addr().String()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sugar.Infow("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
