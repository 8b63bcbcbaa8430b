package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(recoveryHandler))
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.AllowedOrigins))
	router.Use(StoreTimeoutMiddleware(cfg.StoreTimeout))

	health := NewHealthController(cfg.Health, cfg.Version)
	books := NewBooksController(cfg.Books)
	users := NewUsersController(cfg.Users)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to Bookstore API",
			"version": cfg.Version,
			"endpoints": gin.H{
				"books": "/api/books",
				"users": "/api/users",
			},
		})
	})
	router.GET("/health", health.Status)

	api := router.Group("/api")

	// Books API endpoints
	api.POST("/books", books.CreateBook)
	api.GET("/books", books.ListBooks)
	api.GET("/books/:id", books.GetBook)
	api.PUT("/books/:id", books.UpdateBook)
	api.DELETE("/books/:id", books.DeleteBook)

	// Users API endpoints
	api.POST("/users", users.CreateUser)
	api.GET("/users", users.ListUsers)
	api.GET("/users/:id", users.GetUser)
	api.PUT("/users/:id", users.UpdateUser)
	api.DELETE("/users/:id", users.DeleteUser)
	api.GET("/users/:id/favorites", users.GetFavorites)
	api.POST("/users/:id/favorites", users.AddFavorite)
	api.DELETE("/users/:id/favorites", users.RemoveFavorite)
	api.GET("/users/:id/books", users.GetOwnedBooks)
	api.POST("/users/:id/books", users.AddOwnedBook)
	api.DELETE("/users/:id/books", users.RemoveOwnedBook)

	router.NoRoute(notFoundHandler)

	return router
}
