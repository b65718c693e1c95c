package utils

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports json field names in validation errors.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// WriteJSON writes data inside the success envelope.
func WriteJSON(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, api.Response{Success: true, Message: message, Data: data})
}

// WriteList writes a page of results with pagination meta.
func WriteList(w http.ResponseWriter, data any, page domain.Page, total int) {
	writeEnvelope(w, http.StatusOK, api.Response{
		Success: true,
		Data:    data,
		Meta:    &api.Meta{Page: page.Page, Limit: page.Limit, Total: total},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, body api.Response) {
	payload, err := json.Marshal(body)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// WriteErrorAndStatusCode renders err as a failed envelope. Errors without a
// status are logged and hidden behind a generic 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if stderrors.As(err, &e) {
		writeEnvelope(w, e.StatusCode, api.Response{Success: false, Message: e.Message})
		return
	}
	logger.Log.Error("unhandled error", "error", err)
	writeEnvelope(w, http.StatusInternalServerError, api.Response{Success: false, Message: "Internal server error"})
}

// WriteError renders a plain message with an explicit status.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, api.Response{Success: false, Message: message})
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			return errors.BadRequest("Invalid field %s: %s", verrs[0].Field(), verrs[0].Tag())
		}
		return errors.BadRequest("Required fields missing")
	}
	return nil
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return errors.BadRequest("Body is invalid json")
	}
	return nil
}

// MaxPage bounds the page number so the SQL offset stays positive.
const MaxPage = 1_000_000

// ParsePage reads page/limit query params. Missing values fall back to
// page 1 and defaultLimit; limit is capped at maxLimit.
func ParsePage(r *http.Request, defaultLimit, maxLimit int) (domain.Page, error) {
	page := domain.Page{Page: 1, Limit: defaultLimit}
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return page, errors.BadRequest("invalid page: must be a positive integer")
		}
		if n > MaxPage {
			return page, errors.BadRequest("invalid page: must not exceed %d", MaxPage)
		}
		page.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return page, errors.BadRequest("invalid limit: must be a positive integer")
		}
		page.Limit = n
	}
	if page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page, nil
}
