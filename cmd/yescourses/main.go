package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/yescourses/yescourses-go/internal/config"
	"github.com/yescourses/yescourses-go/internal/handler"
	"github.com/yescourses/yescourses-go/internal/logging"
	"github.com/yescourses/yescourses-go/internal/middleware"
	"github.com/yescourses/yescourses-go/internal/render"
	"github.com/yescourses/yescourses-go/internal/service"
	"github.com/yescourses/yescourses-go/internal/session"
	"github.com/yescourses/yescourses-go/internal/store"
	"github.com/yescourses/yescourses-go/internal/version"
	"github.com/yescourses/yescourses-go/web"
)

// Version information - injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "YesCourses - video course sales platform\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_DB_PATH           SQLite database path (default: ./data/yescourses.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_UPLOADS_DIR       Video uploads directory (default: ./data/uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_ADMIN_EMAIL       Email granted admin rights on login\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_ADMIN_USERNAME    Admin form username (default: admins)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_ADMIN_PASSWORD    Admin form password (must be changed in production)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YC_EPHEMERAL         Store data in the temp dir, for read-only filesystems\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())
	slog.SetDefault(logger)

	// Ensure data directories exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	sessionManager := session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("scoping templates FS: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	access := service.NewAccessService(db, cfg.AdminEmail)
	purchases := service.NewPurchaseService(db)
	videos := service.NewVideoService(db, cfg.UploadsDir)

	frontendHandler := handler.NewFrontendHandler(renderer, sessionManager, access, purchases)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, cfg.AdminEmail)
	courseHandler := handler.NewCourseHandler(db, renderer, sessionManager, access, purchases, videos)
	adminHandler := handler.NewAdminHandler(db, renderer, sessionManager, access, purchases, videos,
		cfg.AdminUsername, cfg.AdminPassword)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(middleware.LoadUser(sessionManager, db))

	// Credential endpoints get a per-IP rate limit on top of the global stack.
	authLimiter := middleware.NewIPRateLimiter(1, 10)

	r.Get(handler.RouteRoot, frontendHandler.Home)
	r.Get(handler.RouteHealth, healthHandler.Health)

	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware())
		r.Post(handler.RouteRegister, authHandler.Register)
		r.Post(handler.RouteLogin, authHandler.Login)
		r.Post(handler.RouteAdmin, adminHandler.Page)
	})

	r.Get(handler.RouteLogout, authHandler.Logout)

	r.Post(handler.RouteBuy, courseHandler.Buy)
	r.Get(handler.RouteCourse, courseHandler.Course)
	r.Post(handler.RouteCourseUpload, courseHandler.CourseUpload)

	r.Get(handler.RouteAdmin, adminHandler.Page)
	r.Get(handler.RouteAdminUploadPage, adminHandler.UploadForm)
	r.Get(handler.RouteAdminUpload, adminHandler.Upload)
	r.Post(handler.RouteAdminUpload, adminHandler.Upload)
	r.Post(handler.RouteAdminDelete, adminHandler.Delete)
	r.Get(handler.RouteAdminLogout, adminHandler.AdminLogout)

	// Legacy static-site URLs
	redirectTo := func(target string) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, target, http.StatusMovedPermanently)
		}
	}
	r.Get("/admin.html", redirectTo(handler.RouteAdmin))
	r.Get("/admin_login.html", redirectTo(handler.RouteAdmin))
	r.Get("/course.html", redirectTo(handler.RouteRoot))

	// Embedded static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("scoping static FS: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Uploaded videos are served straight from the uploads directory; access
	// to the listing pages is gated, the files themselves are not.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadsDir))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Minute, // large video uploads over slow links
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Minute, // video streaming responses
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
