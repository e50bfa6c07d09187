package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// в сообщениях об ошибках используем имена полей из JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody parses the JSON body into dst and validates its tags.
func (s *HTTPServer) decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Validation("invalid JSON body")
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.Validation("field %s failed on the '%s' rule", fe.Field(), fe.Tag())
		}
		return domain.Validation("invalid request body")
	}
	return nil
}

// sharerID reads the acting user from the X-Sharer-User-Id header.
func sharerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(models.HeaderSharerUserID))
	if raw == "" {
		return 0, domain.Validation("header %s is required", models.HeaderSharerUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Validation("header %s must be a number", models.HeaderSharerUserID)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, domain.Validation("path parameter %s must be a number", name)
	}
	return id, nil
}

// pageFromQuery reads from/size. from >= 0, size >= 1; larger sizes are cut to the max page size.
func (s *HTTPServer) pageFromQuery(r *http.Request) (models.Page, error) {
	q := r.URL.Query()

	from := 0
	if raw := q.Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return models.Page{}, domain.Validation("from must be a non-negative number")
		}
		from = v
	}

	size := s.pages.DefaultSize
	if raw := q.Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return models.Page{}, domain.Validation("size must be a positive number")
		}
		size = min(v, s.pages.MaxSize)
	}

	return models.NewPage(from, size), nil
}

func stateFromQuery(r *http.Request) string {
	if state := r.URL.Query().Get("state"); state != "" {
		return state
	}
	return string(models.FacetAll)
}

func approvedFromQuery(r *http.Request) (bool, error) {
	switch r.URL.Query().Get("approved") {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, domain.Validation("approved must be true or false")
	}
}
