package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task는 스케줄러가 실행할 작업을 정의하는 인터페이스입니다
type Task interface {
	Execute(ctx context.Context) error
}

// TaskFunc는 함수를 Task로 사용할 수 있게 합니다
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// FailureHandler는 작업 실패 시 호출됩니다
type FailureHandler func(name string, err error)

// Scheduler는 cron 표현식에 따라 작업을 실행하는 스케줄러입니다.
// 이전 실행이 끝나지 않았으면 해당 회차는 건너뜁니다.
type Scheduler struct {
	cron      *cron.Cron
	baseCtx   context.Context
	logger    *zap.Logger
	timeout   time.Duration
	onFailure FailureHandler
}

// Option은 스케줄러 생성 옵션을 정의합니다
type Option func(*Scheduler)

// WithTaskTimeout은 작업 1회 실행의 최대 시간을 설정합니다
func WithTaskTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = timeout
	}
}

// WithFailureHandler는 작업 실패 콜백을 설정합니다
func WithFailureHandler(h FailureHandler) Option {
	return func(s *Scheduler) {
		s.onFailure = h
	}
}

// NewScheduler는 새로운 스케줄러를 생성합니다. 작업은 baseCtx에서 파생된 컨텍스트로 실행됩니다.
func NewScheduler(baseCtx context.Context, logger *zap.Logger, opts ...Option) *Scheduler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cl := cronLogger{logger.Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		baseCtx: baseCtx,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add는 cron 표현식(예: "*/10 * * * *", "@every 15m")으로 작업을 등록합니다
func (s *Scheduler) Add(name, spec string, task Task) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, task) }); err != nil {
		return fmt.Errorf("작업 %s 등록 실패 (%q): %w", name, spec, err)
	}
	s.logger.Info("작업 등록", zap.String("task", name), zap.String("spec", spec))
	return nil
}

// RunNow는 작업을 즉시 한 번 실행합니다
func (s *Scheduler) RunNow(name string, task Task) {
	s.run(name, task)
}

func (s *Scheduler) run(name string, task Task) {
	ctx := s.baseCtx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := task.Execute(ctx); err != nil {
		// 에러가 발생해도 다음 회차는 계속 실행
		s.logger.Warn("작업 실행 실패", zap.String("task", name), zap.Error(err))
		if s.onFailure != nil {
			s.onFailure(name, err)
		}
		return
	}
	s.logger.Debug("작업 실행 완료", zap.String("task", name), zap.Duration("elapsed", time.Since(start)))
}

// Start는 스케줄러를 시작합니다
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("스케줄러 시작", zap.Int("tasks", len(s.cron.Entries())))
}

// Stop은 스케줄러를 중지하고 실행 중인 작업이 끝날 때까지 기다립니다
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("스케줄러 중지")
}

// cronLogger는 cron.Logger를 zap으로 연결합니다
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
