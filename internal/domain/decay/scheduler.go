// Package decay envejece las stats de todas las mascotas en un cron.
// No evalúa escapes: eso se marca lazy en el próximo mensaje del usuario.
package decay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"petbot/internal/domain/pets"
	"petbot/internal/platform/logger"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidSchedule = errors.New("invalid decay schedule")
	ErrPartialTick     = errors.New("decay tick partially failed")
)

const (
	// DefaultSchedule: al inicio de cada hora (formato con segundos).
	DefaultSchedule    = "0 0 * * * *"
	DefaultStep        = 5
	DefaultConcurrency = 8
)

type Options struct {
	Schedule    string
	Step        int
	Concurrency int
	Logger      logger.Logger
}

// Result resume un tick.
type Result struct {
	Scanned int
	Updated int
	Failed  int
}

type Scheduler struct {
	repo   pets.Repository
	step   int
	limit  int
	log    logger.Logger
	tracer trace.Tracer

	cron  *cron.Cron
	start sync.Once
}

func New(repo pets.Repository, opts Options) (*Scheduler, error) {
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	s := &Scheduler{
		repo:   repo,
		step:   opts.Step,
		limit:  opts.Concurrency,
		log:    opts.Logger.With(map[string]any{"component": "decay"}),
		tracer: otel.Tracer("petbot/decay"),
	}

	cl := cronLogger{log: s.log}
	s.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		// Un tick lento no se encima con el siguiente.
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(opts.Schedule, s.run); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, opts.Schedule, err)
	}

	return s, nil
}

// Start arranca el cron en background. Llamadas repetidas no hacen nada.
func (s *Scheduler) Start() {
	s.start.Do(func() {
		s.log.Info("decay scheduler started", map[string]any{"step": s.step})
		s.cron.Start()
	})
}

// Stop deja de programar ticks y espera al que esté corriendo,
// o hasta que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("decay scheduler stopped", nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run() {
	res, err := s.Tick(context.Background())
	fields := map[string]any{
		"scanned": res.Scanned,
		"updated": res.Updated,
		"failed":  res.Failed,
	}
	if err != nil {
		fields["err"] = err
		s.log.Error("decay tick failed", fields)
		return
	}
	s.log.Info("decay tick", fields)
}

// Tick hace una pasada: carga todo y baja step en cada stat > 0.
// Cada registro se actualiza por separado (una escritura por registro);
// un fallo no frena al resto.
func (s *Scheduler) Tick(ctx context.Context) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "decay.Tick", trace.WithAttributes(
		attribute.Int("decay.step", s.step),
	))
	defer span.End()

	records, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("list records: %w", err)
	}

	var updated, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for id, rec := range records {
		p := pets.DecayPatch(rec, s.step)
		if p.IsEmpty() {
			continue
		}
		g.Go(func() error {
			if err := s.repo.Update(gctx, id, p); err != nil {
				failed.Add(1)
				s.log.Warn("decay update failed", map[string]any{"conversation_id": id, "err": err})
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{
		Scanned: len(records),
		Updated: int(updated.Load()),
		Failed:  int(failed.Load()),
	}
	span.SetAttributes(
		attribute.Int("decay.scanned", res.Scanned),
		attribute.Int("decay.updated", res.Updated),
		attribute.Int("decay.failed", res.Failed),
	)
	if res.Failed > 0 {
		err := fmt.Errorf("%w: %d of %d records", ErrPartialTick, res.Failed, res.Scanned)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	return res, nil
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, kv(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := kv(keysAndValues)
	fields["err"] = err
	l.log.Error("cron: "+msg, fields)
}

func kv(keysAndValues []any) map[string]any {
	out := make(map[string]any, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		k, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		out[k] = keysAndValues[i+1]
	}
	return out
}
