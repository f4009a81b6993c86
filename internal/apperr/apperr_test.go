package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:     http.StatusNotFound,
		KindBadRequest:   http.StatusBadRequest,
		KindConflict:     http.StatusConflict,
		KindForbidden:    http.StatusForbidden,
		KindUnauthorized: http.StatusUnauthorized,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading match: %w", NotFound("match %d not found", 3))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "match 3 not found", Message(err))
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal("insert sets", errors.New(`pq: relation "match_sets" does not exist`))

	assert.Equal(t, KindInternal, KindOf(err))
	assert.NotContains(t, Message(err), "match_sets")
	assert.Contains(t, err.Error(), "match_sets")
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.NotEqual(t, "boom", Message(err))
}
