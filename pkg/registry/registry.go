// Package registry holds the authored rule data: status categories,
// halachic rules with their patterns, and the interpretive disputes
// (machlokos) that gate conditionally-active rules.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/pattern"
)

// Severity orders categories from most to least restrictive.
type Severity string

const (
	SeverityBiblical Severity = "biblical"
	SeverityRabbinic Severity = "rabbinic"
	SeverityBond     Severity = "bond"
	SeverityNote     Severity = "note"
)

// Rank maps severity to a comparable level, higher = more restrictive.
func (s Severity) Rank() int {
	switch s {
	case SeverityBiblical:
		return 3
	case SeverityRabbinic:
		return 2
	case SeverityBond:
		return 1
	}
	return 0
}

// Prohibitive reports whether statuses of this severity bar a marriage.
func (s Severity) Prohibitive() bool {
	return s == SeverityBiblical || s == SeverityRabbinic
}

// Category is one named status with bilingual display names. Priority
// breaks ties and drives display order: higher = more severe. Color is
// cosmetic pass-through for the UI layer.
type Category struct {
	ID       string   `yaml:"id"`
	NameHe   string   `yaml:"nameHe"`
	NameEn   string   `yaml:"nameEn"`
	Severity Severity `yaml:"severity"`
	Priority int      `yaml:"priority"`
	Color    string   `yaml:"color,omitempty"`
}

// ActivationCond requires a specific opinion to be selected for its
// machlokas before the rule applies at all.
type ActivationCond struct {
	Machlokas string `yaml:"machlokas"`
	Opinion   string `yaml:"opinion"`
}

// Rule is one declarative prohibition (or note): a pattern, the category
// it produces when matched, and the disputes it depends on. Citations are
// opaque source strings passed through for display.
type Rule struct {
	ID         string           `yaml:"id"`
	Pattern    *pattern.Pattern `yaml:"pattern"`
	Produces   string           `yaml:"produces"`
	Display    string           `yaml:"display"`
	Disputes   []string         `yaml:"disputes,omitempty"`
	ActiveWhen []ActivationCond `yaml:"activeWhen,omitempty"`
	Citations  []string         `yaml:"citations,omitempty"`
}

// Opinion is one position within a machlokas.
type Opinion struct {
	ID       string   `yaml:"id"`
	Holders  []string `yaml:"holders,omitempty"`
	Position string   `yaml:"position,omitempty"`
}

// Machlokas is an interpretive dispute: a finite list of opinions and the
// designated default.
type Machlokas struct {
	ID       string    `yaml:"id"`
	Opinions []Opinion `yaml:"opinions"`
	Default  string    `yaml:"default"`
}

// Registry is the full authored rule set.
type Registry struct {
	Categories []Category  `yaml:"categories"`
	Rules      []Rule      `yaml:"rules"`
	Machlokos  []Machlokas `yaml:"machlokos"`

	categoryByID  map[string]*Category
	machlokasByID map[string]*Machlokas
}

// Well-known ids the status engine refers to.
const (
	CategoryForbiddenBiblical = "forbidden-biblical"
	CategoryForbiddenRabbinic = "forbidden-rabbinic"
	CategoryZikahBond         = "zikah-bond"

	// RuleBrothersWife is the one prohibition an active zikah overrides:
	// levirate marriage is the resolution mechanism for exactly it.
	RuleBrothersWife = "eishes-ach"
	RuleMarriedWoman = "eishes-ish"
)

func (r *Registry) index() {
	r.categoryByID = make(map[string]*Category, len(r.Categories))
	for i := range r.Categories {
		r.categoryByID[r.Categories[i].ID] = &r.Categories[i]
	}
	r.machlokasByID = make(map[string]*Machlokas, len(r.Machlokos))
	for i := range r.Machlokos {
		r.machlokasByID[r.Machlokos[i].ID] = &r.Machlokos[i]
	}
}

// Category looks a category up by id.
func (r *Registry) Category(id string) (Category, bool) {
	if r.categoryByID == nil {
		r.index()
	}
	c, ok := r.categoryByID[id]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

// Machlokas looks a dispute up by id.
func (r *Registry) Machlokas(id string) (Machlokas, bool) {
	if r.machlokasByID == nil {
		r.index()
	}
	m, ok := r.machlokasByID[id]
	if !ok {
		return Machlokas{}, false
	}
	return *m, true
}

// Parse decodes a YAML registry document.
func Parse(data []byte) (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	r.index()
	return &r, nil
}

// Load reads and decodes a YAML registry file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	return Parse(data)
}
