package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Madhupal841998/book-rental/internal/catalog"
	"github.com/Madhupal841998/book-rental/internal/imagestore"
	"github.com/Madhupal841998/book-rental/internal/middleware"
	"github.com/Madhupal841998/book-rental/internal/monitoring"
	"github.com/Madhupal841998/book-rental/internal/utils"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Users         *catalog.Users
	Books         *catalog.Books
	Rentals       *catalog.Rentals
	Images        *imagestore.Store
	Tokens        *utils.TokenManager
	Monitoring    *monitoring.Service
	MonitoringKey string
}

// NewRouter builds the full route table. Auth, health and the uploaded
// image files are public; everything else requires a bearer token.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), monitoring.RequestCounters())

	auth := NewAuthHandler(d.Users, d.Tokens)
	users := NewUserHandler(d.Users, d.Rentals)
	books := NewBookHandler(d.Books, d.Images)
	rentals := NewRentalHandler(d.Rentals)
	monitor := NewMonitoringHandler(d.Monitoring, d.MonitoringKey)

	router.GET("/health", Health)
	router.Static("/uploads", d.Images.Root())

	router.GET("/monitoring/status", monitor.Status)
	router.GET("/monitoring/storage", monitor.Storage)
	router.GET("/monitoring/snapshot", monitor.Snapshot)

	router.POST("/auth/register", auth.Register)
	router.POST("/auth/login", auth.Login)

	protected := router.Group("", middleware.Auth(d.Tokens))

	protected.GET("/users", users.List)
	protected.POST("/users", users.Create)
	protected.GET("/users/:id", users.Get)
	protected.PUT("/users/:id", users.Update)
	protected.DELETE("/users/:id", users.Delete)
	protected.GET("/users/:id/books", users.RentedBooks)

	protected.GET("/books", books.List)
	protected.POST("/books/paginated", books.Paginated)
	protected.GET("/books/:id", books.Get)
	protected.POST("/books", books.Create)
	protected.PUT("/books/:id", books.Update)
	protected.PUT("/books/:id/images", books.UpdateImages)
	protected.DELETE("/books/:id", books.Delete)
	protected.POST("/books/upload-image", books.UploadImage)

	protected.POST("/books/rent", rentals.Rent)
	protected.POST("/books/:id/return", rentals.Return)
	protected.GET("/books/rented", rentals.ListRented)

	return router
}
