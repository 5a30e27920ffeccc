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

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	const insertProjectQuery = `
INSERT INTO projects (id,
                      name,
                      description,
                      client,
                      due_date,
                      creator_id,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.pool.Exec(
		ctx,
		insertProjectQuery,
		project.ID,
		project.Name,
		project.Description,
		project.Client,
		project.DueDate,
		project.CreatorID,
		project.CreatedAt,
		project.UpdatedAt,
	)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	const selectProjectByIDQuery = `
SELECT name,
       description,
       client,
       due_date,
       creator_id,
       created_at,
       updated_at
FROM projects
WHERE id = $1
`
	project := &models.Project{ID: id}
	err := r.pool.QueryRow(
		ctx,
		selectProjectByIDQuery,
		id,
	).Scan(
		&project.Name,
		&project.Description,
		&project.Client,
		&project.DueDate,
		&project.CreatorID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	const selectCollaboratorIDsQuery = `
SELECT user_id
FROM project_collaborators
WHERE project_id = $1
`
	rows, err := r.pool.Query(ctx, selectCollaboratorIDsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err = rows.Scan(&userID); err != nil {
			return nil, err
		}
		project.CollaboratorIDs = append(project.CollaboratorIDs, userID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) ListByMember(ctx context.Context, userID string) ([]*models.Project, error) {
	const selectProjectsByMemberQuery = `
SELECT id,
       name,
       description,
       client,
       due_date,
       creator_id,
       created_at,
       updated_at
FROM projects p
WHERE p.creator_id = $1 OR
      EXISTS (SELECT 1
              FROM project_collaborators pc
              WHERE pc.project_id = p.id AND
                    pc.user_id = $1)
ORDER BY p.created_at, p.id
`
	rows, err := r.pool.Query(ctx, selectProjectsByMemberQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := new(models.Project)
		err = rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.Client,
			&project.DueDate,
			&project.CreatorID,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	const updateProjectQuery = `
UPDATE projects
SET name = $1,
    description = $2,
    client = $3,
    due_date = $4,
    updated_at = $5
WHERE id = $6
`
	tag, err := r.pool.Exec(
		ctx,
		updateProjectQuery,
		project.Name,
		project.Description,
		project.Client,
		project.DueDate,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	// Tasks and collaborator rows ride ON DELETE CASCADE, so the
	// whole subtree goes in one atomic statement.
	const deleteProjectQuery = `
DELETE FROM projects
       WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, deleteProjectQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) AddCollaborator(ctx context.Context, projectID, userID string) error {
	const insertCollaboratorQuery = `
INSERT INTO project_collaborators (project_id,
                                   user_id,
                                   created_at)
VALUES ($1, $2, now())
`
	_, err := r.pool.Exec(ctx, insertCollaboratorQuery, projectID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return storage.ErrAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return storage.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (r *ProjectRepository) RemoveCollaborator(ctx context.Context, projectID, userID string) error {
	const deleteCollaboratorQuery = `
DELETE FROM project_collaborators
       WHERE project_id = $1 AND
             user_id = $2
`
	_, err := r.pool.Exec(ctx, deleteCollaboratorQuery, projectID, userID)
	return err
}
