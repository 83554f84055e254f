package rating

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRating(t *testing.T) {
	t.Run("creates rating with comment", func(t *testing.T) {
		r, err := NewRating(7, 3, 5, "  great  ")
		require.NoError(t, err)
		assert.Equal(t, int64(7), r.ProductID)
		assert.Equal(t, int64(3), r.UserID)
		assert.Equal(t, 5, r.Score)
		require.NotNil(t, r.Comment)
		assert.Equal(t, "great", *r.Comment)
	})

	t.Run("blank comment is nil", func(t *testing.T) {
		r, err := NewRating(7, 3, 1, "   ")
		require.NoError(t, err)
		assert.Nil(t, r.Comment)
	})

	t.Run("rejects scores outside 1..5", func(t *testing.T) {
		for _, score := range []int{0, 6, -1} {
			_, err := NewRating(7, 3, score, "")
			assert.True(t, errors.Is(err, ErrInvalidScore), "score %d", score)
		}
	})

	t.Run("rejects overlong comment", func(t *testing.T) {
		_, err := NewRating(7, 3, 4, strings.Repeat("x", MaxCommentLength+1))
		assert.True(t, errors.Is(err, ErrCommentTooLong))
	})
}
