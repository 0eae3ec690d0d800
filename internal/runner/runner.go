// Package runner sequences one ETL run: extract and clean the three
// entities, then load the star schema in a single sink transaction.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"ecommerce-etl/internal/database"
	"ecommerce-etl/internal/logging"
	"ecommerce-etl/internal/projector"
	"ecommerce-etl/internal/transform"
)

// ErrLoad marks a failed load transaction. Nothing from the run was
// committed.
var ErrLoad = errors.New("load failed")

type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return ErrLoad.Error() + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// Source returns every document of a named collection.
type Source interface {
	FetchCollection(ctx context.Context, name string) ([]bson.Raw, error)
}

// Observer is notified of every dropped row and unmatched join.
type Observer interface {
	transform.Observer
	projector.Observer
}

type Collections struct {
	Users    string
	Products string
	Carts    string
}

type Options struct {
	Collections   Collections
	BatchSize     int
	ParallelClean bool
}

type Runner struct {
	source Source
	sink   database.Sink
	opts   Options
	logger *logrus.Logger
}

func New(source Source, sink database.Sink, opts Options, logger *logrus.Logger) *Runner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	return &Runner{source: source, sink: sink, opts: opts, logger: logger}
}

// Run executes the whole pipeline once. Either every table write of the
// run is committed or none is.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	totalStartTime := time.Now()
	report := newReport(uuid.New().String(), entityUsers, entityProducts, entityCarts)
	log := r.logger.WithField("run_id", report.RunID)
	var obs Observer = logging.NewObserver(log)

	log.Info("extracting")
	data, err := r.extract(ctx, obs, report)
	if err != nil {
		log.WithError(err).Error("extract failed")
		return nil, err
	}
	report.ExtractTime = time.Since(totalStartTime)

	loadStartTime := time.Now()
	if err := r.load(ctx, data, obs, report, log); err != nil {
		log.WithError(err).Error("load rolled back")
		return nil, err
	}
	report.LoadTime = time.Since(loadStartTime)

	report.finish(time.Since(totalStartTime))
	log.WithFields(logrus.Fields{
		"inserted":   report.Inserted,
		"total_time": report.TotalTime,
	}).Info("load committed")
	return report, nil
}

// stage runs fns concurrently when parallel cleaning is enabled, in order
// otherwise. The first error wins.
func (r *Runner) stage(ctx context.Context, fns ...func(context.Context) error) error {
	if !r.opts.ParallelClean {
		for _, fn := range fns {
			if err := fn(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		g.Go(func() error {
			return fn(gctx)
		})
	}
	return g.Wait()
}
