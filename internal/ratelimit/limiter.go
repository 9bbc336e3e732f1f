package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// 기본 허용량: 60초 동안 10회
const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second
)

// Limiter는 슬라이딩 윈도우 방식의 허용 게이트입니다.
// 요청을 거절하지 않고 허용 가능할 때까지 대기시킵니다.
// 대기 순서(FIFO)는 보장하지 않습니다.
type Limiter struct {
	limit  int
	window time.Duration

	mu    sync.Mutex
	times []time.Time // 허용 시각 (오래된 순)

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option은 Limiter 생성 옵션을 정의합니다
type Option func(*Limiter)

// WithClock은 현재 시각 함수와 대기 함수를 교체합니다
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		l.now = now
		l.sleep = sleep
	}
}

// New는 새로운 Limiter를 생성합니다
func New(limit int, window time.Duration, opts ...Option) (*Limiter, error) {
	if limit < 1 {
		return nil, fmt.Errorf("허용량은 1 이상이어야 합니다: %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("윈도우는 0보다 커야 합니다: %v", window)
	}

	l := &Limiter{
		limit:  limit,
		window: window,
		times:  make([]time.Time, 0, limit),
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Acquire는 허용될 때까지 대기한 뒤 허용 시각을 기록합니다.
// 대기 중 ctx가 취소되면 ctx.Err()를 반환합니다.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		wait, ok := l.tryAcquire()
		if ok {
			return nil
		}

		// 잠금을 해제한 상태에서 대기
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAcquire는 잠금을 잡은 상태에서 만료 시각을 제거하고 허용 여부를 판단합니다.
// 허용되지 않으면 가장 오래된 기록이 윈도우를 벗어날 때까지의 대기 시간을 반환합니다.
func (l *Limiter) tryAcquire() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	expired := 0
	for expired < len(l.times) && now.Sub(l.times[expired]) >= l.window {
		expired++
	}
	if expired > 0 {
		l.times = append(l.times[:0], l.times[expired:]...)
	}

	if len(l.times) < l.limit {
		l.times = append(l.times, now)
		return 0, true
	}

	wait := l.window - now.Sub(l.times[0])
	if wait < 0 {
		wait = 0
	}
	return wait, false
}

// InFlight는 현재 윈도우에 기록된 허용 수를 반환합니다
func (l *Limiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	n := 0
	for _, t := range l.times {
		if now.Sub(t) < l.window {
			n++
		}
	}
	return n
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
