package http

import (
	"net/http"
	"strconv"

	"github.com/timenest/timenest-backend-go/internal/pkg/validator"
)

// queryParams collects typed query values and the fields that failed to parse.
type queryParams struct {
	r    *http.Request
	errs validator.ValidationErrors
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{r: r}
}

func (q *queryParams) String(name string) *string {
	v := q.r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func (q *queryParams) Int(name string) *int {
	v := q.r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.errs = append(q.errs, validator.ValidationError{
			Field:   name,
			Message: name + " must be an integer",
		})
		return nil
	}
	return &n
}

func (q *queryParams) IntOr(name string, fallback int) int {
	if n := q.Int(name); n != nil {
		return *n
	}
	return fallback
}

func (q *queryParams) Err() error {
	if len(q.errs) > 0 {
		return q.errs
	}
	return nil
}
