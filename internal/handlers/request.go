package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"churchadmin/internal/service"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON value from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return service.Invalid("Request body is required", nil)
		}
		return service.Invalid(ErrInvalidJSON, nil)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.Invalid(ErrInvalidID, map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

// queryReader collects parse failures across several query parameters so
// they are reported together.
type queryReader struct {
	values url.Values
	fields map[string]string
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{values: r.URL.Query(), fields: map[string]string{}}
}

func (q *queryReader) str(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

func (q *queryReader) int(key string) int {
	raw := q.str(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.fields[key] = "must be a number"
	}
	return n
}

func (q *queryReader) int64(key string) int64 {
	raw := q.str(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		q.fields[key] = "must be a positive integer"
	}
	return n
}

func (q *queryReader) bool(key string) *bool {
	raw := q.str(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.fields[key] = "must be true or false"
		return nil
	}
	return &b
}

func (q *queryReader) page() service.PageParams {
	return service.PageParams{Page: q.int("page"), Limit: q.int("limit")}
}

func (q *queryReader) dateRange() service.DateRangeParams {
	return service.DateRangeParams{StartDate: q.str("startDate"), EndDate: q.str("endDate")}
}

func (q *queryReader) err() error {
	if len(q.fields) == 0 {
		return nil
	}
	return service.Invalid("Invalid query parameters", q.fields)
}
