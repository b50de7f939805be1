package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/streakly/internal/models"
)

// SeedFile is the YAML document read by LoadSeedFile.
//
//	habits:
//	  - name: Read
//	    unit: time
//	    target_time: {hours: 0, minutes: 30}
type SeedFile struct {
	Habits []models.CreateHabitRequest `yaml:"habits"`
}

// ParseSeed decodes a seed document.
func ParseSeed(data []byte) (SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return SeedFile{}, fmt.Errorf("unmarshal habit seed: %w", err)
	}
	return seed, nil
}

// LoadSeedFile adds every habit listed in the YAML file at path.
// The file is only read; the catalog never writes it back.
func (c *Catalog) LoadSeedFile(path string) ([]models.Habit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read habit seed: %w", err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return nil, err
	}

	added := make([]models.Habit, 0, len(seed.Habits))
	for i, req := range seed.Habits {
		h, err := c.Add(req)
		if err != nil {
			return added, fmt.Errorf("seed habit %d (%q): %w", i+1, req.Name, err)
		}
		added = append(added, h)
	}
	return added, nil
}
