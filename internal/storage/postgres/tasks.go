package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/storage"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   name,
                   description,
                   completed,
                   due_date,
                   priority,
                   project_id,
                   completed_by,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, $9, $10)
`
	_, err := r.pool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Name,
		task.Description,
		task.Completed,
		task.DueDate,
		task.Priority,
		task.ProjectID,
		task.CompletedBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return storage.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	const selectTaskByIDQuery = `
SELECT name,
       description,
       completed,
       due_date,
       priority,
       project_id,
       COALESCE(completed_by::text, ''),
       created_at,
       updated_at
FROM tasks
WHERE id = $1
`
	task := &models.Task{ID: id}
	err := r.pool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		id,
	).Scan(
		&task.Name,
		&task.Description,
		&task.Completed,
		&task.DueDate,
		&task.Priority,
		&task.ProjectID,
		&task.CompletedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	const selectTasksByProjectQuery = `
SELECT id,
       name,
       description,
       completed,
       due_date,
       priority,
       COALESCE(completed_by::text, ''),
       created_at,
       updated_at
FROM tasks
WHERE project_id = $1
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, selectTasksByProjectQuery, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{ProjectID: projectID}
		err = rows.Scan(
			&task.ID,
			&task.Name,
			&task.Description,
			&task.Completed,
			&task.DueDate,
			&task.Priority,
			&task.CompletedBy,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	// project_id is immutable and deliberately absent here.
	const updateTaskQuery = `
UPDATE tasks
SET name = $1,
    description = $2,
    completed = $3,
    due_date = $4,
    priority = $5,
    completed_by = NULLIF($6, '')::uuid,
    updated_at = $7
WHERE id = $8
`
	tag, err := r.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Name,
		task.Description,
		task.Completed,
		task.DueDate,
		task.Priority,
		task.CompletedBy,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
       WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
