package mock

// Test helpers and mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/repository"
)

// Store is an in-memory ProjectStore for tests. Error fields, when set, are
// returned by the matching operation.
type Store struct {
	Projects []models.Project
	Recorded []models.CheckOutcome

	CreateErr error
	ListErr   error
	RecordErr error

	nextID int64
}

var _ repository.ProjectStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

// Seed adds a project directly, bypassing validation, and returns its id.
func (s *Store) Seed(p models.Project) int64 {
	s.nextID++
	p.ID = s.nextID
	s.Projects = append(s.Projects, p)
	return p.ID
}

func (s *Store) Create(ctx context.Context, p repository.CreateProjectParams) (*models.Project, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	for _, existing := range s.Projects {
		if existing.Name == p.Name {
			return nil, repository.ErrDuplicateName
		}
	}
	now := time.Now().UTC().UnixMilli()
	id := s.Seed(models.Project{
		Name:        p.Name,
		EndpointURL: p.EndpointURL,
		Credential:  p.Credential,
		Method:      p.Method,
		TableName:   p.TableName,
		Enabled:     p.Enabled,
		Created:     now,
		Updated:     now,
	})
	return s.Get(ctx, id)
}

func (s *Store) Get(ctx context.Context, id int64) (*models.Project, error) {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			p := s.Projects[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) List(ctx context.Context, enabledOnly bool) ([]models.Project, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var out []models.Project
	for _, p := range s.Projects {
		if enabledOnly && !p.Enabled {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, id int64, p repository.UpdateProjectParams) (*models.Project, error) {
	for i := range s.Projects {
		if s.Projects[i].ID != id {
			continue
		}
		if p.Name != nil {
			s.Projects[i].Name = *p.Name
		}
		if p.EndpointURL != nil {
			s.Projects[i].EndpointURL = *p.EndpointURL
		}
		if p.Credential != nil {
			s.Projects[i].Credential = *p.Credential
		}
		if p.Method != nil {
			s.Projects[i].Method = *p.Method
		}
		if p.TableName != nil {
			s.Projects[i].TableName = *p.TableName
		}
		s.Projects[i].Updated = time.Now().UTC().UnixMilli()
		return s.Get(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (s *Store) SetEnabled(ctx context.Context, id int64, enabled bool) (*models.Project, error) {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			s.Projects[i].Enabled = enabled
			s.Projects[i].Updated = time.Now().UTC().UnixMilli()
			return s.Get(ctx, id)
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) RecordCheckResult(ctx context.Context, id int64, outcome models.CheckOutcome) error {
	if s.RecordErr != nil {
		return s.RecordErr
	}
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			now := time.Now().UTC().UnixMilli()
			s.Projects[i].LastStatus = outcome.StatusLabel()
			s.Projects[i].LastChecked = now
			s.Projects[i].Updated = now
			s.Recorded = append(s.Recorded, outcome)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			s.Projects = append(s.Projects[:i], s.Projects[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// FindByName is a test convenience.
func (s *Store) FindByName(name string) (*models.Project, error) {
	for i := range s.Projects {
		if s.Projects[i].Name == name {
			p := s.Projects[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("no project named %q", name)
}
