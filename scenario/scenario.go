// Package scenario loads scripted obstacle layouts and goal sequences for
// reproducible headless runs.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Obstacle places one classed obstacle cell.
type Obstacle struct {
	Cell  [2]int `yaml:"cell"`
	Class string `yaml:"class"`
}

// Scenario is a scripted session: a starting shape, an obstacle layout, and
// an ordered list of goals visited one after another.
type Scenario struct {
	Shape     string     `yaml:"shape"`
	Obstacles []Obstacle `yaml:"obstacles"`
	Goals     [][2]int   `yaml:"goals"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(sc.Goals) == 0 {
		return nil, fmt.Errorf("scenario %s: no goals", path)
	}
	for _, o := range sc.Obstacles {
		if o.Class == "" {
			return nil, fmt.Errorf("scenario %s: obstacle at %v has no class", path, o.Cell)
		}
	}
	return sc, nil
}
