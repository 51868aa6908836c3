package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/hongminglow/blog-be/internal/authz"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/service"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/hongminglow/blog-be/internal/validation"
)

const (
	msgInvalidJSON = "invalid JSON payload"
	msgNotFound    = "The requested resource was not found."
	msgInternal    = "internal server error"
)

// Paging turns page/item_per_page query parameters into a service.Pagination.
type Paging struct {
	Default int
	Max     int
}

func (p Paging) parse(r *http.Request) service.Pagination {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	perPage := queryInt(q.Get("item_per_page"), p.Default)
	if p.Max > 0 && perPage > p.Max {
		perPage = p.Max
	}
	return service.Pagination{Page: page, ItemsPerPage: perPage}
}

func queryInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	return true
}

// writeError maps service and storage errors onto HTTP responses.
func writeError(w http.ResponseWriter, action string, err error) {
	if verrs, ok := validation.AsErrors(err); ok {
		respond.Error(w, http.StatusBadRequest, verrs)
		return
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, authz.ErrForbidden):
		respond.Error(w, http.StatusUnauthorized, authz.DeniedMessage)
	default:
		log.Printf("%s error: %v", action, err)
		respond.Error(w, http.StatusInternalServerError, msgInternal)
	}
}
