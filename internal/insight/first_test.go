package insight

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/insight/internal/domain"
)

func TestFirstAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("처음 성공한 후보", func(t *testing.T) {
		var tried []int
		c, r, err := FirstAvailable(ctx, slices.Values([]int{1, 2, 3, 4}), func(_ context.Context, n int) (string, error) {
			tried = append(tried, n)
			if n < 3 {
				return "", domain.ErrNoData
			}
			return "hit", nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, c)
		assert.Equal(t, "hit", r)
		assert.Equal(t, []int{1, 2, 3}, tried, "성공 후에는 더 시도하지 않음")
	})

	t.Run("소진", func(t *testing.T) {
		_, _, err := FirstAvailable(ctx, slices.Values([]int{1, 2}), func(context.Context, int) (string, error) {
			return "", domain.ErrNoData
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("빈 후보", func(t *testing.T) {
		_, _, err := FirstAvailable(ctx, slices.Values([]int(nil)), func(context.Context, int) (string, error) {
			return "x", nil
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("다른 에러는 중단", func(t *testing.T) {
		boom := errors.New("boom")
		var tried int
		c, _, err := FirstAvailable(ctx, slices.Values([]int{1, 2}), func(context.Context, int) (string, error) {
			tried++
			return "", boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, c)
		assert.Equal(t, 1, tried)
	})

	t.Run("취소", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := FirstAvailable(cctx, slices.Values([]int{1}), func(context.Context, int) (string, error) {
			return "x", nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
