package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/database/users"
	"github.com/mrlokans/bookstore/internal/docstore"
	http_controllers "github.com/mrlokans/bookstore/internal/http"
	"github.com/mrlokans/bookstore/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Stores bundles the selected backend.
type Stores struct {
	Books  services.BookStore
	Users  services.UserStore
	Health http_controllers.Pinger
	Close  func(ctx context.Context) error
}

// OpenStores connects to the backend chosen by cfg.Database.Driver.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		logLevel := logger.Warn
		if !cfg.IsProduction() {
			logLevel = logger.Info
		}
		db, err := database.NewDatabase(cfg.Database.Path, logLevel)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Books:  books.NewRepository(db.DB),
			Users:  users.NewRepository(db.DB),
			Health: db,
			Close:  func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.StoreTimeout)
		defer cancel()
		store, err := docstore.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Books:  docstore.NewBookCollection(store.DB),
			Users:  docstore.NewUserCollection(store.DB),
			Health: store,
			Close:  store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

// NewServices builds the access layers on top of stores.
func NewServices(stores *Stores, cfg *config.Config) (*services.BookService, *services.UserService) {
	bookService := services.NewBookService(stores.Books, stores.Users)
	userService := services.NewUserService(stores.Users, stores.Books, cfg.Auth.BcryptCost)
	return bookService, userService
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Stores close after in-flight requests have drained
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) error {
	log.Printf("Starting Bookstore API v%s (env=%s, driver=%s)", version, cfg.Global.Env, cfg.Database.Driver)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	stores, err := OpenStores(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	bookService, userService := NewServices(stores, cfg)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:          bookService,
		Users:          userService,
		Health:         stores.Health,
		StoreTimeout:   cfg.Database.StoreTimeout,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Version:        version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if err := stores.Close(ctx); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	})
	return nil
}
