package handlers

import (
	"strconv"
	"strings"

	"github.com/Madhupal841998/book-rental/internal/catalog"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parsePageQuery normalizes raw pagination inputs into a 1-indexed
// page query with a clamped limit.
func parsePageQuery(rawPage, rawLimit, rawSearch string) catalog.PageQuery {
	page := 1
	if parsedPage, err := strconv.Atoi(strings.TrimSpace(rawPage)); err == nil && parsedPage > 0 {
		page = parsedPage
	}

	limit := defaultPageLimit
	if parsedLimit, err := strconv.Atoi(strings.TrimSpace(rawLimit)); err == nil && parsedLimit > 0 {
		limit = parsedLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return catalog.PageQuery{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(rawSearch),
	}
}
