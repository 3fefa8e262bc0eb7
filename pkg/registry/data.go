package registry

import (
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/pattern"
)

// Default returns the built-in registry: the standard forbidden-relation
// rules, the zikah category, and the Beis Shammai / Beis Hillel dispute
// over co-wives. All content here is declarative data; the engine never
// special-cases individual rules beyond the well-known ids.
func Default() *Registry {
	male := pattern.GenderOf(graph.Male)
	female := pattern.GenderOf(graph.Female)
	spousal := []graph.RelationshipType{graph.RelErusin, graph.RelMarriage, graph.RelYibum}

	r := &Registry{
		Categories: []Category{
			{
				ID:       CategoryForbiddenBiblical,
				NameHe:   "ערוה",
				NameEn:   "Forbidden (Biblical)",
				Severity: SeverityBiblical,
				Priority: 100,
				Color:    "#b91c1c",
			},
			{
				ID:       CategoryForbiddenRabbinic,
				NameHe:   "שניה",
				NameEn:   "Forbidden (Rabbinic)",
				Severity: SeverityRabbinic,
				Priority: 80,
				Color:    "#ea580c",
			},
			{
				ID:       CategoryZikahBond,
				NameHe:   "זיקה",
				NameEn:   "Active levirate bond",
				Severity: SeverityBond,
				Priority: 60,
				Color:    "#7c3aed",
			},
		},

		Rules: []Rule{
			{
				ID: RuleMarriedWoman,
				Pattern: pattern.And(
					pattern.State(
						pattern.StateCond{Subject: pattern.SubjectB, Name: "female"},
						pattern.StateCond{Subject: pattern.SubjectB, Name: "married"},
					),
					pattern.NoEdge(spousal...),
				),
				Produces:  CategoryForbiddenBiblical,
				Display:   "Eishes Ish (married woman)",
				Citations: []string{"Vayikra 20:10"},
			},
			{
				ID: RuleBrothersWife,
				Pattern: &pattern.Pattern{
					Kind:             pattern.KindPath,
					Path:             "sibling.spouse",
					PathGenders:      []*graph.Gender{male, female},
					HistoricalSpouse: true,
				},
				Produces:  CategoryForbiddenBiblical,
				Display:   "Eishes Ach (brother's wife)",
				Citations: []string{"Vayikra 18:16", "Yevamos 2a"},
			},
			{
				ID:        "em",
				Pattern:   pattern.Path("parent", female),
				Produces:  CategoryForbiddenBiblical,
				Display:   "Imo (mother)",
				Citations: []string{"Vayikra 18:7"},
			},
			{
				ID:        "bas",
				Pattern:   pattern.Path("child", female),
				Produces:  CategoryForbiddenBiblical,
				Display:   "Bito (daughter)",
				Citations: []string{"Vayikra 18:17", "Yevamos 3a"},
			},
			{
				ID:        "achos",
				Pattern:   pattern.Path("sibling", female),
				Produces:  CategoryForbiddenBiblical,
				Display:   "Achoso (sister)",
				Citations: []string{"Vayikra 18:9"},
			},
			{
				// lapses with the wife's death: the spouse step resolves
				// only currently-active marriages
				ID:        "achos-ishto",
				Pattern:   pattern.Path("spouse.sibling", female, female),
				Produces:  CategoryForbiddenBiblical,
				Display:   "Achos Ishto (wife's sister)",
				Citations: []string{"Vayikra 18:18"},
			},
			{
				ID: "chamoso",
				Pattern: &pattern.Pattern{
					Kind:             pattern.KindPath,
					Path:             "spouse.parent",
					PathGenders:      []*graph.Gender{female, female},
					HistoricalSpouse: true,
				},
				Produces:  CategoryForbiddenBiblical,
				Display:   "Chamoso (mother-in-law)",
				Citations: []string{"Vayikra 18:17"},
			},
			{
				ID: "kallaso",
				Pattern: &pattern.Pattern{
					Kind:             pattern.KindPath,
					Path:             "child.spouse",
					PathGenders:      []*graph.Gender{male, female},
					HistoricalSpouse: true,
				},
				Produces:  CategoryForbiddenBiblical,
				Display:   "Kallaso (daughter-in-law)",
				Citations: []string{"Vayikra 18:15"},
			},
			{
				ID:        "savaso",
				Pattern:   pattern.Path("parent.parent", nil, female),
				Produces:  CategoryForbiddenRabbinic,
				Display:   "Grandmother (sheniya)",
				Citations: []string{"Yevamos 21a"},
			},
			{
				// co-wife of one's daughter, forbidden per Beis Hillel,
				// permitted per Beis Shammai
				ID: "tzaras-habas",
				Pattern: &pattern.Pattern{
					Kind:             pattern.KindPath,
					Path:             "child.spouse.spouse",
					PathGenders:      []*graph.Gender{female, male, female},
					HistoricalSpouse: true,
				},
				Produces:   CategoryForbiddenBiblical,
				Display:    "Tzaras Habas (co-wife of daughter)",
				Disputes:   []string{"tzaros-ervah"},
				ActiveWhen: []ActivationCond{{Machlokas: "tzaros-ervah", Opinion: "beis-hillel"}},
				Citations:  []string{"Yevamos 13a"},
			},
		},

		Machlokos: []Machlokas{
			{
				ID: "tzaros-ervah",
				Opinions: []Opinion{
					{
						ID:       "beis-shammai",
						Holders:  []string{"Beis Shammai"},
						Position: "Co-wives of an ervah are permitted to the brothers",
					},
					{
						ID:       "beis-hillel",
						Holders:  []string{"Beis Hillel"},
						Position: "Co-wives of an ervah are forbidden to the brothers",
					},
				},
				Default: "beis-hillel",
			},
		},
	}
	r.index()
	return r
}
