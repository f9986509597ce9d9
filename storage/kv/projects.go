package kvstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core/project"
)

const projectsKey = "projects"

// ProjectRepository stores the whole collection as one JSON array under "projects".
type ProjectRepository struct {
	store Store
}

var _ project.Repository = (*ProjectRepository)(nil)

func NewProjectRepository(store Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

func (repo *ProjectRepository) LoadAll(ctx context.Context) ([]project.Project, error) {
	projects := make([]project.Project, 0)
	data, err := repo.store.Get(ctx, projectsKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return projects, nil
		}
		return nil, err
	}
	if err = json.Unmarshal(data, &projects); err != nil {
		return nil, errors.Wrap(err, "decoding projects")
	}
	if projects == nil { // stored `null`
		projects = make([]project.Project, 0)
	}
	return projects, nil
}

func (repo *ProjectRepository) SaveAll(ctx context.Context, projects []project.Project) error {
	if projects == nil {
		projects = make([]project.Project, 0)
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return errors.Wrap(err, "encoding projects")
	}
	return repo.store.Put(ctx, projectsKey, data)
}
