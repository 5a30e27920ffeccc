// Package memory holds in-memory repository implementations used by
// the service tests. Semantics mirror the postgres package, including
// cascade on project deletion and collaborator set behavior.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/storage"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	projects      map[string]*models.Project
	tasks         map[string]*models.Task
	collaborators map[string]map[string]struct{} // project id -> user id set
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		projects:      make(map[string]*models.Project),
		tasks:         make(map[string]*models.Task),
		collaborators: make(map[string]map[string]struct{}),
	}
}

func (s *Store) Users() storage.UserRepository       { return &userRepository{store: s} }
func (s *Store) Projects() storage.ProjectRepository { return &projectRepository{store: s} }
func (s *Store) Tasks() storage.TaskRepository       { return &taskRepository{store: s} }

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return storage.ErrAlreadyExists
		}
	}
	cloned := *user
	s.users[user.ID] = &cloned
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cloned := *user
	return &cloned, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			cloned := *user
			return &cloned, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *userRepository) GetByToken(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, storage.ErrNotFound
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Token == token {
			cloned := *user
			return &cloned, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *userRepository) Update(_ context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	cloned := *user
	s.users[user.ID] = &cloned
	return nil
}

type projectRepository struct {
	store *Store
}

func (r *projectRepository) Create(_ context.Context, project *models.Project) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cloned := *project
	cloned.CollaboratorIDs = nil
	s.projects[project.ID] = &cloned
	s.collaborators[project.ID] = make(map[string]struct{})
	return nil
}

func (r *projectRepository) GetByID(_ context.Context, id string) (*models.Project, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.cloneProject(project), nil
}

func (r *projectRepository) ListByMember(_ context.Context, userID string) ([]*models.Project, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var projects []*models.Project
	for _, project := range s.projects {
		_, collaborator := s.collaborators[project.ID][userID]
		if project.CreatorID == userID || collaborator {
			projects = append(projects, s.cloneProject(project))
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID < projects[j].ID
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects, nil
}

func (r *projectRepository) Update(_ context.Context, project *models.Project) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.projects[project.ID]
	if !ok {
		return storage.ErrNotFound
	}
	existing.Name = project.Name
	existing.Description = project.Description
	existing.Client = project.Client
	existing.DueDate = project.DueDate
	existing.UpdatedAt = project.UpdatedAt
	return nil
}

func (r *projectRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.projects, id)
	delete(s.collaborators, id)
	for taskID, task := range s.tasks {
		if task.ProjectID == id {
			delete(s.tasks, taskID)
		}
	}
	return nil
}

func (r *projectRepository) AddCollaborator(_ context.Context, projectID, userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.collaborators[projectID]
	if !ok {
		return storage.ErrNotFound
	}
	if _, exists := set[userID]; exists {
		return storage.ErrAlreadyExists
	}
	set[userID] = struct{}{}
	return nil
}

func (r *projectRepository) RemoveCollaborator(_ context.Context, projectID, userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.collaborators[projectID]; ok {
		delete(set, userID)
	}
	return nil
}

func (s *Store) cloneProject(project *models.Project) *models.Project {
	cloned := *project
	cloned.CollaboratorIDs = nil
	for userID := range s.collaborators[project.ID] {
		cloned.CollaboratorIDs = append(cloned.CollaboratorIDs, userID)
	}
	sort.Strings(cloned.CollaboratorIDs)
	return &cloned
}

type taskRepository struct {
	store *Store
}

func (r *taskRepository) Create(_ context.Context, task *models.Task) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[task.ProjectID]; !ok {
		return storage.ErrNotFound
	}
	cloned := *task
	s.tasks[task.ID] = &cloned
	return nil
}

func (r *taskRepository) GetByID(_ context.Context, id string) (*models.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cloned := *task
	return &cloned, nil
}

func (r *taskRepository) ListByProject(_ context.Context, projectID string) ([]*models.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*models.Task
	for _, task := range s.tasks {
		if task.ProjectID == projectID {
			cloned := *task
			tasks = append(tasks, &cloned)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *taskRepository) Update(_ context.Context, task *models.Task) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return storage.ErrNotFound
	}
	cloned := *task
	cloned.ProjectID = existing.ProjectID
	s.tasks[task.ID] = &cloned
	return nil
}

func (r *taskRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}
