package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data/pgxutil"
	"github.com/target/reportd/internal/domain/model"
)

// ActivityRepo reads the members, projects and tasks that reports summarise.
type ActivityRepo struct {
	DB *sql.DB
}

var _ core.ActivityReader = (*ActivityRepo)(nil)

// NewActivityRepo creates a new ActivityRepo instance with the given database connection.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{DB: db}
}

// taskCountsQuery is parameterised by the filter column; $2/$3 are the window bounds.
// Open counts tasks that existed at window end and were not completed by then.
const taskCountsQuery = `
	SELECT
		count(*) FILTER (WHERE completed_at >= $2 AND completed_at <= $3) AS completed,
		count(*) FILTER (WHERE created_at >= $2 AND created_at <= $3) AS created,
		count(*) FILTER (WHERE created_at <= $3 AND (completed_at IS NULL OR completed_at > $3)) AS open
	FROM tasks
	WHERE %s = $1
`

type taskCountsRow struct {
	Completed int `db:"completed"`
	Created   int `db:"created"`
	Open      int `db:"open"`
}

// GetMember returns model.ErrMemberNotFound for an unknown username.
func (r *ActivityRepo) GetMember(ctx context.Context, username string) (*model.Member, error) {
	row, err := pgxutil.CollectOne(ctx, r.DB, pgx.RowToStructByPos[model.Member],
		`SELECT username, display_name FROM members WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member %s: %w", username, model.ErrMemberNotFound)
		}
		return nil, fmt.Errorf("get member %s: %w", username, err)
	}
	return &row, nil
}

// MemberTaskCounts counts tasks assigned to the member.
func (r *ActivityRepo) MemberTaskCounts(
	ctx context.Context,
	username string,
	window model.ReportWindow,
) (model.TaskCounts, error) {
	return r.taskCounts(ctx, "assignee_username", username, window)
}

// MemberProjects lists the projects the member completed tasks in, busiest first.
// Projects the member belongs to without completed work appear with zero.
func (r *ActivityRepo) MemberProjects(
	ctx context.Context,
	username string,
	window model.ReportWindow,
) ([]model.ProjectContribution, error) {
	query := `
		SELECT p.id AS project_id, p.name AS project_name, count(t.id)::int AS tasks_completed
		FROM projects p
		LEFT JOIN tasks t
		  ON t.project_id = p.id
		 AND t.assignee_username = $1
		 AND t.completed_at >= $2 AND t.completed_at <= $3
		WHERE p.id IN (SELECT project_id FROM project_members WHERE username = $1)
		   OR t.id IS NOT NULL
		GROUP BY p.id, p.name
		ORDER BY tasks_completed DESC, p.name ASC
	`
	rows, err := pgxutil.Collect(ctx, r.DB, pgx.RowToStructByName[contributionRow], query,
		username, window.Start.UTC(), window.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("member %s projects: %w", username, err)
	}
	out := make([]model.ProjectContribution, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.ProjectContribution{
			ProjectID:      row.ProjectID,
			ProjectName:    row.ProjectName,
			TasksCompleted: row.TasksCompleted,
		})
	}
	return out, nil
}

type contributionRow struct {
	ProjectID      string `db:"project_id"`
	ProjectName    string `db:"project_name"`
	TasksCompleted int    `db:"tasks_completed"`
}

// GetProject returns model.ErrProjectNotFound for an unknown id.
func (r *ActivityRepo) GetProject(ctx context.Context, id string) (*model.ProjectInfo, error) {
	row, err := pgxutil.CollectOne(ctx, r.DB, pgx.RowToStructByPos[model.ProjectInfo],
		`SELECT id, name FROM projects WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, model.ErrProjectNotFound)
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &row, nil
}

// ProjectTaskCounts counts tasks in the project regardless of assignee.
func (r *ActivityRepo) ProjectTaskCounts(
	ctx context.Context,
	id string,
	window model.ReportWindow,
) (model.TaskCounts, error) {
	return r.taskCounts(ctx, "project_id", id, window)
}

// ProjectMembers lists project members with their completed task counts, busiest first.
func (r *ActivityRepo) ProjectMembers(
	ctx context.Context,
	id string,
	window model.ReportWindow,
) ([]model.MemberContribution, error) {
	query := `
		SELECT m.username, m.display_name, count(t.id)::int AS tasks_completed
		FROM project_members pm
		JOIN members m ON m.username = pm.username
		LEFT JOIN tasks t
		  ON t.project_id = pm.project_id
		 AND t.assignee_username = m.username
		 AND t.completed_at >= $2 AND t.completed_at <= $3
		WHERE pm.project_id = $1
		GROUP BY m.username, m.display_name
		ORDER BY tasks_completed DESC, m.username ASC
	`
	rows, err := pgxutil.Collect(ctx, r.DB, pgx.RowToStructByName[memberContributionRow], query,
		id, window.Start.UTC(), window.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("project %s members: %w", id, err)
	}
	out := make([]model.MemberContribution, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.MemberContribution(row))
	}
	return out, nil
}

type memberContributionRow struct {
	Username       string `db:"username"`
	DisplayName    string `db:"display_name"`
	TasksCompleted int    `db:"tasks_completed"`
}

// column is one of two literals supplied by this file.
func (r *ActivityRepo) taskCounts(
	ctx context.Context,
	column, value string,
	window model.ReportWindow,
) (model.TaskCounts, error) {
	row, err := pgxutil.CollectOne(ctx, r.DB, pgx.RowToStructByName[taskCountsRow],
		fmt.Sprintf(taskCountsQuery, column), value, window.Start.UTC(), window.End.UTC())
	if err != nil {
		return model.TaskCounts{}, fmt.Errorf("task counts by %s=%s: %w", column, value, err)
	}
	return model.TaskCounts(row), nil
}
