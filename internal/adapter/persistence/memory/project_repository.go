package memory

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"sync"
)

type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]entities.Project
}

var _ interfaces.IProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(seed ...entities.Project) *ProjectRepository {
	r := &ProjectRepository{projects: make(map[string]entities.Project)}
	for _, p := range seed {
		r.projects[p.ID] = p
	}
	return r
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (entities.Project, error) {
	if err := ctx.Err(); err != nil {
		return entities.Project{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.projects[id], nil
}

func (r *ProjectRepository) Save(_ context.Context, p entities.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = p
	return nil
}
