package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var ErrTrailingGarbage = errors.New("trailing garbage (JSON)")

var v = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a struct against its validate tags.
func Validate(ctx context.Context, value any) error {
	return v.StructCtx(ctx, value)
}

// JSONBody decodes and validates a JSON request or response body.
// validation, when non-empty, is a var-level rule applied instead of the
// struct tags.
func JSONBody[T any](ctx context.Context, r io.ReadCloser, validation string) (T, error) {
	var value T
	if r == nil || r == http.NoBody {
		return value, WithStatus(http.StatusBadRequest, errors.New("body required"))
	}
	defer r.Close() //nolint:errcheck
	d := json.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&value); err != nil {
		return value, err
	}
	if d.More() {
		return value, ErrTrailingGarbage
	}
	var err error
	if validation == "" {
		err = v.StructCtx(ctx, value)
	} else {
		err = v.VarCtx(ctx, value, validation)
	}
	return value, err
}
