package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"ferryman/internal/models"
	"ferryman/internal/repository"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// Catalog is a declarative set of endpoints, groups and jobs. Jobs refer
// to endpoints and groups by name.
type Catalog struct {
	Endpoints []EndpointEntry    `yaml:"endpoints"`
	Groups    []*models.JobGroup `yaml:"groups"`
	Jobs      []JobEntry         `yaml:"jobs"`
}

type EndpointEntry struct {
	models.Endpoint `yaml:",inline"`
	// Password is sealed with the credential store before it is saved.
	Password string `yaml:"password"`
}

type JobEntry struct {
	models.JobSpec `yaml:",inline"`
	EndpointName   string `yaml:"endpoint"`
	TargetName     string `yaml:"target_endpoint"`
	GroupName      string `yaml:"group"`
}

// Store is what an import writes to.
type Store interface {
	GetEndpointByName(name string) (*models.Endpoint, error)
	CreateEndpoint(e *models.Endpoint) error
	UpdateEndpoint(e *models.Endpoint) error
	GetGroupByName(name string) (*models.JobGroup, error)
	CreateGroup(g *models.JobGroup) error
	UpdateGroup(g *models.JobGroup) error
	GetJobByName(name string) (*models.JobSpec, error)
	CreateJob(j *models.JobSpec) error
	UpdateJob(j *models.JobSpec) error
}

type Encrypter interface {
	Encrypt(plaintext string) (string, error)
}

type Summary struct {
	EndpointsCreated int `json:"endpoints_created"`
	EndpointsUpdated int `json:"endpoints_updated"`
	GroupsCreated    int `json:"groups_created"`
	GroupsUpdated    int `json:"groups_updated"`
	JobsCreated      int `json:"jobs_created"`
	JobsUpdated      int `json:"jobs_updated"`
}

// Load reads a catalog file, expanding environment variables first.
func Load(fs afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}

// Import upserts the catalog by name: endpoints first, then groups, then
// jobs. Existing rows keep their id and run state.
func Import(store Store, creds Encrypter, c *Catalog) (*Summary, error) {
	summary := &Summary{}
	endpoints := make(map[string]int64)
	groups := make(map[string]int64)

	for i := range c.Endpoints {
		entry := &c.Endpoints[i]
		endpoint := entry.Endpoint
		if entry.Password != "" {
			if creds == nil {
				return summary, fmt.Errorf("endpoint %q: a password needs an encryption key", endpoint.Name)
			}
			sealed, err := creds.Encrypt(entry.Password)
			if err != nil {
				return summary, fmt.Errorf("endpoint %q: %w", endpoint.Name, err)
			}
			endpoint.PasswordEncrypted = sealed
		}
		if endpoint.Port == 0 {
			endpoint.Port = endpoint.Protocol.DefaultPort()
		}
		if err := endpoint.Validate(); err != nil {
			return summary, err
		}

		created, err := upsertEndpoint(store, &endpoint)
		if err != nil {
			return summary, err
		}
		if created {
			summary.EndpointsCreated++
		} else {
			summary.EndpointsUpdated++
		}
		endpoints[endpoint.Name] = endpoint.ID
	}

	for _, group := range c.Groups {
		created, err := upsertGroup(store, group)
		if err != nil {
			return summary, err
		}
		if created {
			summary.GroupsCreated++
		} else {
			summary.GroupsUpdated++
		}
		groups[group.Name] = group.ID
	}

	for i := range c.Jobs {
		entry := &c.Jobs[i]
		job := entry.JobSpec

		id, err := resolveEndpoint(store, endpoints, entry.EndpointName)
		if err != nil {
			return summary, fmt.Errorf("job %q: %w", job.Name, err)
		}
		job.EndpointID = id

		if entry.TargetName != "" {
			target, err := resolveEndpoint(store, endpoints, entry.TargetName)
			if err != nil {
				return summary, fmt.Errorf("job %q: target %w", job.Name, err)
			}
			job.TargetEndpointID = &target
		}

		if entry.GroupName != "" {
			groupID, err := resolveGroup(store, groups, entry.GroupName)
			if err != nil {
				return summary, fmt.Errorf("job %q: %w", job.Name, err)
			}
			job.GroupID = &groupID
		}

		if err := job.Validate(); err != nil {
			return summary, err
		}

		created, err := upsertJob(store, &job)
		if err != nil {
			return summary, err
		}
		if created {
			summary.JobsCreated++
		} else {
			summary.JobsUpdated++
		}
	}

	slog.Info("catalog imported",
		"endpoints", len(c.Endpoints), "groups", len(c.Groups), "jobs", len(c.Jobs))
	return summary, nil
}

func upsertEndpoint(store Store, e *models.Endpoint) (bool, error) {
	existing, err := store.GetEndpointByName(e.Name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return true, store.CreateEndpoint(e)
	case err != nil:
		return false, err
	}

	e.ID = existing.ID
	if e.PasswordEncrypted == "" {
		e.PasswordEncrypted = existing.PasswordEncrypted
	}
	return false, store.UpdateEndpoint(e)
}

func upsertGroup(store Store, g *models.JobGroup) (bool, error) {
	existing, err := store.GetGroupByName(g.Name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return true, store.CreateGroup(g)
	case err != nil:
		return false, err
	}

	g.ID = existing.ID
	return false, store.UpdateGroup(g)
}

func upsertJob(store Store, j *models.JobSpec) (bool, error) {
	existing, err := store.GetJobByName(j.Name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return true, store.CreateJob(j)
	case err != nil:
		return false, err
	}

	j.ID = existing.ID
	return false, store.UpdateJob(j)
}

func resolveEndpoint(store Store, known map[string]int64, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("endpoint is required")
	}
	if id, ok := known[name]; ok {
		return id, nil
	}
	e, err := store.GetEndpointByName(name)
	if err != nil {
		return 0, fmt.Errorf("endpoint %q: %w", name, err)
	}
	known[name] = e.ID
	return e.ID, nil
}

func resolveGroup(store Store, known map[string]int64, name string) (int64, error) {
	if id, ok := known[name]; ok {
		return id, nil
	}
	g, err := store.GetGroupByName(name)
	if err != nil {
		return 0, fmt.Errorf("group %q: %w", name, err)
	}
	known[name] = g.ID
	return g.ID, nil
}
