package insight

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/assist-by/insight/internal/domain"
)

// FirstAvailable은 후보를 순서대로 시도해 처음 성공한 결과를 반환합니다.
// domain.ErrNoData는 다음 후보로 넘어가고, 그 외 에러는 즉시 중단합니다.
// 모든 후보가 소진되면 domain.ErrNotFound를 반환합니다.
func FirstAvailable[C, R any](ctx context.Context, candidates iter.Seq[C], try func(context.Context, C) (R, error)) (C, R, error) {
	var (
		zeroC C
		zeroR R
		tried int
	)
	for candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return zeroC, zeroR, err
		}

		tried++
		result, err := try(ctx, candidate)
		if err == nil {
			return candidate, result, nil
		}
		if errors.Is(err, domain.ErrNoData) {
			continue
		}
		return candidate, zeroR, err
	}
	return zeroC, zeroR, fmt.Errorf("%w: 후보 %d개 모두 실패", domain.ErrNotFound, tried)
}
