package interfaces

import (
	"client_portal/internal/domain/entities"
	"context"
)

// IProjectRepository reads projects (and their owner's client profile).
// A missing project is a zero Project and a nil error.
type IProjectRepository interface {
	GetByID(ctx context.Context, id string) (entities.Project, error)
}
