package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Madhupal841998/book-rental/internal/imagestore"
	"github.com/Madhupal841998/book-rental/internal/monitoring"
)

// UploadImage serves POST /books/upload-image: stores one image and
// returns the public ref a later book create/update can carry.
func (h *BookHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		respondInvalid(c, "No file uploaded")
		return
	}

	started := time.Now()
	ref, err := h.images.SaveUpload(header)
	monitoring.RecordUpload(header.Size, time.Since(started), err == nil)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": ref})
}

// UpdateImages serves PUT /books/:id/images: any files present in the
// image0..image4 slots replace the book's whole image list, releasing
// the previous attachments. With no files the book is returned as is.
func (h *BookHandler) UpdateImages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondInvalid(c, "Invalid book ID")
		return
	}

	refs, ok := h.saveImageSlots(c)
	if !ok {
		return
	}

	if len(refs) == 0 {
		book, err := h.books.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, book)
		return
	}

	book, err := h.books.SetImages(c.Request.Context(), id, refs)
	if err != nil {
		for _, ref := range refs {
			h.images.Release(ref)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, imagestore.ErrNotImage):
		respondInvalid(c, "Only image files are allowed!")
	case errors.Is(err, imagestore.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File is too large"})
	case errors.Is(err, imagestore.ErrEmpty):
		respondInvalid(c, "File is empty")
	default:
		respondError(c, err)
	}
}
