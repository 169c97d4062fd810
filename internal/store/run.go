package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/era-engine/fibers/internal/models"
	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

type RunStore struct {
	db QueryInterceptor
}

func NewRunStore(db QueryInterceptor) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Save(ctx context.Context, r *models.RunReport) error {
	query, args, err := sq.Insert(tableRuns).
		Columns(runColumns...).
		Values(
			r.ID,
			r.ManagerID,
			string(r.Status),
			r.StartedAt,
			int64(r.Duration),
			r.Frames,
			r.FramesRun,
			r.Substeps,
			r.AssetChain,
			r.Threads,
			r.FiberPoolSize,
			r.MinFreeFibers,
			int64(r.JobsExecuted),
			int64(r.Switches),
			int64(r.ResumedWaiters),
		).ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *RunStore) Get(ctx context.Context, id string) (*models.RunReport, error) {
	query, args, err := sq.Select(runColumns...).
		From(tableRuns).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	r, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewRunNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RunStore) List(ctx context.Context, opts ...ListOption) ([]models.RunReport, error) {
	builder := sq.Select(runColumns...).From(tableRuns)

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.RunReport
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}

	return runs, rows.Err()
}

func (s *RunStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From(tableRuns)

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.RunReport, error) {
	var (
		r        models.RunReport
		status   string
		duration int64
	)
	err := row.Scan(
		&r.ID,
		&r.ManagerID,
		&status,
		&r.StartedAt,
		&duration,
		&r.Frames,
		&r.FramesRun,
		&r.Substeps,
		&r.AssetChain,
		&r.Threads,
		&r.FiberPoolSize,
		&r.MinFreeFibers,
		&r.JobsExecuted,
		&r.Switches,
		&r.ResumedWaiters,
	)
	if err != nil {
		return nil, err
	}

	r.Status, err = models.ParseRunStatus(status)
	if err != nil {
		return nil, err
	}
	r.Duration = time.Duration(duration)
	return &r, nil
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByStatus(statuses ...models.RunStatus) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(statuses) == 0 {
			return b
		}
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		return b.Where(sq.Eq{"status": values})
	}
}

// ByMinJobs keeps runs that executed at least minJobs jobs.
func ByMinJobs(minJobs uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if minJobs == 0 {
			return b
		}
		return b.Where(sq.GtOrEq{"jobs_executed": int64(minJobs)})
	}
}

func ByManager(managerID string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if managerID == "" {
			return b
		}
		return b.Where(sq.Eq{"manager_id": managerID})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// WithDefaultSort orders runs newest first, id as tie-breaker.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("started_at DESC", "id ASC")
	}
}
