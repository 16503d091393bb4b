package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Madhupal841998/book-rental/internal/catalog"
)

// RentalHandler serves the rent/return workflow.
type RentalHandler struct {
	rentals *catalog.Rentals
}

func NewRentalHandler(rentals *catalog.Rentals) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

type rentRequest struct {
	BookID int `json:"bookId"`
	UserID int `json:"userId"`
}

func (h *RentalHandler) Rent(c *gin.Context) {
	var req rentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Book ID and User ID are required")
		return
	}

	book, err := h.rentals.Rent(c.Request.Context(), req.BookID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book rented successfully",
		"book":    book,
	})
}

func (h *RentalHandler) Return(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondInvalid(c, "Invalid book ID")
		return
	}

	book, err := h.rentals.Return(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book returned successfully",
		"book":    book,
	})
}

func (h *RentalHandler) ListRented(c *gin.Context) {
	books, err := h.rentals.ListRented(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}
