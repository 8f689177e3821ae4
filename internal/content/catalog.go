package content

import (
	"slices"
	"sort"

	"github.com/abhisek/quizcore/internal/quiz"
)

// Catalog is the validated, read-only set of quiz configs.
type Catalog struct {
	configs []quiz.Config
	byID    map[string]int
}

// NewCatalog validates the configs and orders them by Order, then id.
func NewCatalog(configs []quiz.Config) (*Catalog, error) {
	if err := validateStructure(configs); err != nil {
		return nil, err
	}

	sorted := slices.Clone(configs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	c := &Catalog{configs: sorted, byID: make(map[string]int, len(sorted))}
	for i, cfg := range sorted {
		c.byID[cfg.ID] = i
	}
	return c, nil
}

// Configs returns the quiz configs in display order.
func (c *Catalog) Configs() []quiz.Config {
	return slices.Clone(c.configs)
}

// Get returns the config of one quiz.
func (c *Catalog) Get(id string) (quiz.Config, bool) {
	i, ok := c.byID[id]
	if !ok {
		return quiz.Config{}, false
	}
	return c.configs[i], true
}

// IDs returns the quiz ids in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.configs))
	for i, cfg := range c.configs {
		ids[i] = cfg.ID
	}
	return ids
}

// Len returns the number of quizzes.
func (c *Catalog) Len() int {
	return len(c.configs)
}
