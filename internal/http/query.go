package http

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/services"
)

const maxSearchLength = 100

// queryParser reads optional query parameters and collects the problems
// found along the way.
type queryParser struct {
	c        *gin.Context
	problems []services.FieldError
}

func newQueryParser(c *gin.Context) *queryParser {
	return &queryParser{c: c}
}

func (p *queryParser) fail(field, message string) {
	p.problems = append(p.problems, services.FieldError{Field: field, Message: message})
}

// page parses page and limit. Absent values stay zero and receive defaults
// in the access layer.
func (p *queryParser) page() (page, limit int) {
	if raw, ok := p.c.GetQuery("page"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil || n < 1:
			p.fail("page", "Page must be a positive integer")
		case n > services.MaxPage:
			p.fail("page", "Page is too large")
		default:
			page = n
		}
	}
	if raw, ok := p.c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 || n > services.MaxLimit {
			p.fail("limit", "Limit must be between 1 and 100")
		} else {
			limit = n
		}
	}
	return page, limit
}

func (p *queryParser) search() string {
	search := strings.TrimSpace(p.c.Query("search"))
	if len([]rune(search)) > maxSearchLength {
		p.fail("search", "Search term must be less than 100 characters")
	}
	return search
}

func (p *queryParser) float(field, message string) *float64 {
	raw := strings.TrimSpace(p.c.Query(field))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(field, message)
		return nil
	}
	return &v
}

func (p *queryParser) bool(field, message string) *bool {
	raw := strings.TrimSpace(p.c.Query(field))
	if raw == "" {
		return nil
	}
	var v bool
	switch raw {
	case "true":
		v = true
	case "false":
	default:
		p.fail(field, message)
		return nil
	}
	return &v
}

// ok responds with 400 when any problem was collected.
func (p *queryParser) ok() bool {
	if len(p.problems) == 0 {
		return true
	}
	respondValidation(p.c, p.problems)
	return false
}

// parseBookListQuery reads the book list parameters.
func parseBookListQuery(c *gin.Context) (services.BookListQuery, bool) {
	p := newQueryParser(c)

	var q services.BookListQuery
	q.Page, q.Limit = p.page()
	q.Search = p.search()
	q.Category = strings.TrimSpace(c.Query("category"))
	q.MinPrice = p.float("minPrice", "Min price must be a number")
	q.MaxPrice = p.float("maxPrice", "Max price must be a number")
	q.InStock = p.bool("inStock", "In stock must be true or false")
	q.Owner = strings.TrimSpace(c.Query("owner"))

	return q, p.ok()
}

// parsePageQuery reads page and limit only.
func parsePageQuery(c *gin.Context) (page, limit int, ok bool) {
	p := newQueryParser(c)
	page, limit = p.page()
	return page, limit, p.ok()
}
