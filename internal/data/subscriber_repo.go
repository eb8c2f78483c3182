package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data/pgxutil"
	"github.com/target/reportd/internal/domain/model"
	apperrors "github.com/target/reportd/internal/errors"
)

const (
	defaultSubscriberListLimit = 100
	maxSubscriberListLimit     = 1000
)

// SubscriberRepo provides database operations for subscribers.
type SubscriberRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

var _ core.SubscriberStore = (*SubscriberRepo)(nil)

// NewSubscriberRepo creates a new SubscriberRepo instance with the given database connection.
func NewSubscriberRepo(db *sql.DB) *SubscriberRepo {
	return NewSubscriberRepoWithTimeProvider(db, &RealTimeProvider{})
}

// NewSubscriberRepoWithTimeProvider creates a SubscriberRepo with a custom TimeProvider (useful for testing).
func NewSubscriberRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *SubscriberRepo {
	return &SubscriberRepo{DB: db, timeProvider: timeProvider}
}

const subscriberColumns = `username, email, personal_report_count, project_report_count, created_at, updated_at`

type subscriberRow struct {
	Username            string    `db:"username"`
	Email               string    `db:"email"`
	PersonalReportCount int64     `db:"personal_report_count"`
	ProjectReportCount  int64     `db:"project_report_count"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func (r *subscriberRow) toDomain() *model.Subscriber {
	return &model.Subscriber{
		Username:            r.Username,
		Email:               r.Email,
		PersonalReportCount: r.PersonalReportCount,
		ProjectReportCount:  r.ProjectReportCount,
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
}

// Create inserts a subscriber with zeroed counters.
func (r *SubscriberRepo) Create(ctx context.Context, req *model.CreateSubscriberRequest) (*model.Subscriber, error) {
	if req == nil || strings.TrimSpace(req.Username) == "" {
		return nil, ErrUsernameRequired
	}
	now := r.timeProvider.Now().UTC()
	query := `
		INSERT INTO subscribers (username, email, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (username) DO NOTHING
		RETURNING ` + subscriberColumns
	row, err := pgxutil.CollectOne(ctx, r.DB, pgx.RowToStructByName[subscriberRow], query,
		strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), now)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("subscriber %s: %w", req.Username, model.ErrSubscriberAlreadyExists)
		}
		return nil, fmt.Errorf("create subscriber %s: %w", req.Username, apperrors.MapDBError(err))
	}
	return row.toDomain(), nil
}

// GetByUsername returns model.ErrSubscriberNotFound for an unknown username.
func (r *SubscriberRepo) GetByUsername(ctx context.Context, username string) (*model.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE username = $1`
	row, err := pgxutil.CollectOne(ctx, r.DB, pgx.RowToStructByName[subscriberRow], query, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("subscriber %s: %w", username, model.ErrSubscriberNotFound)
		}
		return nil, fmt.Errorf("get subscriber %s: %w", username, err)
	}
	return row.toDomain(), nil
}

// List returns subscribers ordered by username.
func (r *SubscriberRepo) List(ctx context.Context, opts model.SubscriberListOptions) ([]*model.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers ORDER BY username LIMIT $1 OFFSET $2`
	rows, err := pgxutil.Collect(ctx, r.DB, pgx.RowToStructByName[subscriberRow], query,
		clampLimit(opts.Limit, defaultSubscriberListLimit, maxSubscriberListLimit), max(opts.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	out := make([]*model.Subscriber, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// Delete removes the subscriber. Job keys and definitions cascade; logs are kept.
func (r *SubscriberRepo) Delete(ctx context.Context, username string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM subscribers WHERE username = $1`, username)
	if err != nil {
		return false, fmt.Errorf("delete subscriber %s: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return n > 0, nil
}

// Recount rebuilds both counters from SUCCESS execution logs. An empty username
// recounts every subscriber.
func (r *SubscriberRepo) Recount(ctx context.Context, username string) (int64, error) {
	query := `
		UPDATE subscribers s
		SET personal_report_count = (
				SELECT count(*) FROM personal_report_logs l
				WHERE l.owner_username = s.username AND l.upload_status = 'SUCCESS'
			),
			project_report_count = (
				SELECT count(*) FROM project_report_logs l
				WHERE l.owner_username = s.username AND l.upload_status = 'SUCCESS'
			),
			updated_at = $2
		WHERE $1 = '' OR s.username = $1
	`
	res, err := r.DB.ExecContext(ctx, query, strings.TrimSpace(username), r.timeProvider.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("recount subscribers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	if username != "" && n == 0 {
		return 0, fmt.Errorf("subscriber %s: %w", username, model.ErrSubscriberNotFound)
	}
	return n, nil
}
