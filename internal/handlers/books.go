package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Madhupal841998/book-rental/internal/catalog"
	"github.com/Madhupal841998/book-rental/internal/imagestore"
	"github.com/Madhupal841998/book-rental/internal/models"
)

// BookHandler serves the book CRUD surface. Creation accepts either a
// JSON body or a multipart form carrying image slots image0..image4.
type BookHandler struct {
	books  *catalog.Books
	images *imagestore.Store
}

func NewBookHandler(books *catalog.Books, images *imagestore.Store) *BookHandler {
	return &BookHandler{books: books, images: images}
}

type createBookRequest struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	IsActive    *bool    `json:"isactive"`
}

func (h *BookHandler) Create(c *gin.Context) {
	in, saved, ok := h.parseCreate(c)
	if !ok {
		return
	}

	book, err := h.books.Create(c.Request.Context(), in)
	if err != nil {
		// Files already written for a multipart request must not leak
		// when the record is rejected.
		for _, ref := range saved {
			h.images.Release(ref)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) parseCreate(c *gin.Context) (catalog.BookCreate, []string, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req createBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, "Invalid request body")
			return catalog.BookCreate{}, nil, false
		}
		return catalog.BookCreate{
			SKU:         req.SKU,
			Name:        req.Name,
			Price:       req.Price,
			Description: req.Description,
			Images:      req.Images,
			IsActive:    req.IsActive,
		}, nil, true
	}

	in := catalog.BookCreate{
		SKU:         c.PostForm("sku"),
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}
	if raw := c.PostForm("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondInvalid(c, "Invalid price")
			return catalog.BookCreate{}, nil, false
		}
		in.Price = &price
	}
	if raw := c.PostForm("isactive"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			respondInvalid(c, "Invalid isactive value")
			return catalog.BookCreate{}, nil, false
		}
		in.IsActive = &isActive
	}

	refs, ok := h.saveImageSlots(c)
	if !ok {
		return catalog.BookCreate{}, nil, false
	}
	in.Images = refs
	return in, refs, true
}

type updateBookRequest struct {
	SKU           *string  `json:"sku"`
	Name          *string  `json:"name"`
	Price         *float64 `json:"price"`
	Description   *string  `json:"description"`
	IsActive      *bool    `json:"isactive"`
	DeletedImages []string `json:"deletedImages"`
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondInvalid(c, "Invalid book ID")
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Invalid request body")
		return
	}

	book, err := h.books.Update(c.Request.Context(), id, catalog.BookUpdate{
		SKU:           req.SKU,
		Name:          req.Name,
		Price:         req.Price,
		Description:   req.Description,
		IsActive:      req.IsActive,
		DeletedImages: req.DeletedImages,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondInvalid(c, "Invalid book ID")
		return
	}

	book, err := h.books.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondInvalid(c, "Invalid book ID")
		return
	}

	if err := h.books.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// List serves GET /books with pagination from query parameters.
func (h *BookHandler) List(c *gin.Context) {
	h.respondPage(c, parsePageQuery(c.Query("page"), c.Query("limit"), c.Query("search")))
}

type pageRequest struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Search string `json:"search"`
}

// Paginated serves POST /books/paginated. The page request may arrive
// in the JSON body or as query parameters; body values win.
func (h *BookHandler) Paginated(c *gin.Context) {
	q := parsePageQuery(c.Query("page"), c.Query("limit"), c.Query("search"))

	var req pageRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		if req.Page > 0 {
			q.Page = req.Page
		}
		if req.Limit > 0 {
			q.Limit = req.Limit
			if q.Limit > maxPageLimit {
				q.Limit = maxPageLimit
			}
		}
		if strings.TrimSpace(req.Search) != "" {
			q.Search = strings.TrimSpace(req.Search)
		}
	}

	h.respondPage(c, q)
}

func (h *BookHandler) respondPage(c *gin.Context, q catalog.PageQuery) {
	result, err := h.books.Page(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result.Data,
		"meta": gin.H{
			"page":       result.Page,
			"limit":      result.Limit,
			"total":      result.Total,
			"totalPages": result.TotalPages,
		},
	})
}

// saveImageSlots stores the files found in the named multipart slots
// image0..image4 and returns their refs in slot order.
func (h *BookHandler) saveImageSlots(c *gin.Context) ([]string, bool) {
	refs := make([]string, 0, models.MaxImagesPerBook)
	for i := 0; i < models.MaxImagesPerBook; i++ {
		header, err := c.FormFile("image" + strconv.Itoa(i))
		if err != nil {
			continue
		}
		ref, err := h.images.SaveUpload(header)
		if err != nil {
			for _, saved := range refs {
				h.images.Release(saved)
			}
			respondUploadError(c, err)
			return nil, false
		}
		refs = append(refs, ref)
	}
	return refs, true
}
