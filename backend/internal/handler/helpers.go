package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
	"github.com/go-chi/chi/v5"
)

// idParam parses a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.BadRequest("invalid %s: must be a positive integer", name)
	}
	return id, nil
}

// queryId parses an optional positive integer query parameter. Missing
// values return 0.
func queryId(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.BadRequest("invalid %s: must be a positive integer", name)
	}
	return id, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.BadRequest("invalid %s: must be true or false", name)
	}
	return &b, nil
}

// parseDate reads a YYYY-MM-DD date as UTC midnight.
func parseDate(value, field string) (time.Time, error) {
	t, err := time.ParseInLocation(api.DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, errors.BadRequest("invalid %s: expected YYYY-MM-DD", field)
	}
	return t, nil
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) page(r *http.Request) (domain.Page, error) {
	return utils.ParsePage(r, h.cfg.Public.DefaultPageLimit, h.cfg.Public.MaxPageLimit)
}

// caller returns the authenticated user. Routes using it sit behind NeedAuth.
func caller(r *http.Request) domain.User {
	if u := mw.GetUserFromContext(r); u != nil {
		return *u
	}
	return domain.User{}
}
