package memory

import (
	"client_portal/internal/domain/entities"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadProjects reads a JSON array of projects for the in-memory backend.
// Every entry needs an id and an owner_id.
func LoadProjects(path string) ([]entities.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project seed: %w", err)
	}
	var projects []entities.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decode project seed %s: %w", path, err)
	}
	seen := make(map[string]bool, len(projects))
	for i, p := range projects {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.OwnerID) == "" {
			return nil, fmt.Errorf("project seed entry %d needs id and owner_id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("project seed has duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return projects, nil
}
