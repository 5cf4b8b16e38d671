package internal

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name string `json:"name" validate:"required"`
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestJSONBody(t *testing.T) {
	ctx := context.Background()

	t.Run("valid struct", func(t *testing.T) {
		w, err := JSONBody[widget](ctx, body(`{"name":"x"}`), "")
		require.NoError(t, err)
		assert.Equal(t, "x", w.Name)
	})
	t.Run("struct validation", func(t *testing.T) {
		_, err := JSONBody[widget](ctx, body(`{}`), "")
		assert.ErrorContains(t, err, "required")
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := JSONBody[widget](ctx, body(`{"name":"x","nope":1}`), "")
		assert.ErrorContains(t, err, "nope")
	})
	t.Run("trailing garbage", func(t *testing.T) {
		_, err := JSONBody[widget](ctx, body(`{"name":"x"} {}`), "")
		assert.ErrorIs(t, err, ErrTrailingGarbage)
	})
	t.Run("var rule", func(t *testing.T) {
		n, err := JSONBody[int](ctx, body(`42`), "omitempty")
		require.NoError(t, err)
		assert.Equal(t, 42, n)
	})
	t.Run("nil body", func(t *testing.T) {
		_, err := JSONBody[widget](ctx, nil, "")
		var sce StatusCodeErr
		require.ErrorAs(t, err, &sce)
		assert.Equal(t, 400, sce.StatusCode())
	})
}
