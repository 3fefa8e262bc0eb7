// Package status is the single entry point over the core: it combines
// rule-pattern evaluation, zikah-derived state, opinion-dependent rule
// gating, and result caching.
package status

import (
	"fmt"
	"log/slog"
	"sort"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/pattern"
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/registry"
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/zikah"
)

// Entry is one status produced by a matching rule (or by an active bond).
type Entry struct {
	RuleID    string
	Display   string
	Category  registry.Category
	Path      []graph.PersonID
	Citations []string
}

// DisputeNote records a rule whose pattern matched but which the active
// opinion profile disables -- the "alternative outcome" a UI can show.
type DisputeNote struct {
	RuleID    string
	Machlokas string
	Selected  string
	Required  string
}

// Result is the full status picture for a pair at an index. Entries are
// sorted by category priority descending; Primary is the first entry, nil
// when no status applies (a normal outcome, not an error).
type Result struct {
	A, B     graph.PersonID
	Index    int
	Entries  []Entry
	Primary  *Entry
	Disputes []DisputeNote
	Zikah    *zikah.Info
}

// HasCategory reports whether any entry produced the category.
func (r *Result) HasCategory(categoryID string) bool {
	for _, e := range r.Entries {
		if e.Category.ID == categoryID {
			return true
		}
	}
	return false
}

// Engine owns the query engine, matcher, tracker and the result cache.
// All reads are pure; the only mutable state is the cache and the
// tracker's lazily built record list, both invalidated wholesale by
// Refresh. A multi-threaded host must serialize Refresh against
// concurrent queries externally.
type Engine struct {
	timeline *graph.Timeline
	reg      *registry.Registry

	q       *graph.QueryEngine
	matcher *pattern.Matcher
	tracker *zikah.Tracker
	cache   *gocache.Cache
	log     *slog.Logger
}

// New binds an engine to a timeline and a rule registry. The registry
// defaults to the built-in rule set when nil.
func New(timeline *graph.Timeline, reg *registry.Registry) *Engine {
	if reg == nil {
		reg = registry.Default()
	}
	e := &Engine{
		timeline: timeline,
		reg:      reg,
		cache:    gocache.New(gocache.NoExpiration, 0),
		log:      slog.Default(),
	}
	e.bind()
	return e
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(log *slog.Logger) {
	if log != nil {
		e.log = log
	}
}

func (e *Engine) bind() {
	e.q = graph.NewQueryEngine(e.timeline)
	e.matcher = pattern.NewMatcher(e.q)
	// the eligibility predicate runs the prohibition rules against a
	// candidate brother, except the brother's-wife rule itself, which by
	// construction applies to every brother
	e.tracker = zikah.NewTracker(e.q, func(brother, widow graph.PersonID, index int) bool {
		entries, _ := e.ruleEntries(brother, widow, index, nil, registry.RuleBrothersWife)
		for _, entry := range entries {
			if entry.Category.Severity.Prohibitive() {
				return true
			}
		}
		return false
	})
}

// Refresh must be called after any mutation of the timeline: it flushes
// the result cache, drops the tracker's record list, and rebinds the
// query engine to the (possibly structurally changed) graph.
func (e *Engine) Refresh() {
	e.cache.Flush()
	e.bind()
	e.log.Debug("status engine refreshed", "slices", e.timeline.Len())
}

// Query returns the engine's query engine, for callers needing raw graph
// questions alongside statuses.
func (e *Engine) Query() *graph.QueryEngine { return e.q }

/*
========================
Status computation
========================
*/

// ComputeStatus evaluates every registered rule for the pair at the
// index under the opinion profile, merges in zikah-derived status, and
// ranks the outcome. Results are cached under the unordered pair, so
// (A,B) and (B,A) share one entry.
func (e *Engine) ComputeStatus(a, b graph.PersonID, index int, profile registry.OpinionProfile) *Result {
	key := cacheKey(a, b, index, profile)
	if v, ok := e.cache.Get(key); ok {
		return v.(*Result)
	}

	res := &Result{A: a, B: b, Index: index}
	res.Entries, res.Disputes = e.ruleEntries(a, b, index, profile, "")

	if info := e.tracker.ZikahBetween(a, b, index); info != nil {
		res.Zikah = info
		if info.Active {
			if cat, ok := e.reg.Category(registry.CategoryZikahBond); ok {
				res.Entries = append(res.Entries, Entry{
					RuleID:   registry.CategoryZikahBond,
					Display:  "Zikah (awaiting yibum or chalitza)",
					Category: cat,
				})
			}
		}
	}

	sort.SliceStable(res.Entries, func(i, j int) bool {
		return res.Entries[i].Category.Priority > res.Entries[j].Category.Priority
	})
	if len(res.Entries) > 0 {
		res.Primary = &res.Entries[0]
	}

	e.cache.Set(key, res, gocache.NoExpiration)
	return res
}

// ruleEntries runs every rule except skipRule. A rule's pattern is tried
// in both orientations of the pair: prohibitions attach to the pair, not
// to the argument order. Rules disabled by the profile still get their
// pattern evaluated so a matching-but-inactive rule can be reported as a
// dispute note.
func (e *Engine) ruleEntries(
	a, b graph.PersonID,
	index int,
	profile registry.OpinionProfile,
	skipRule string,
) ([]Entry, []DisputeNote) {

	var entries []Entry
	var notes []DisputeNote

	for i := range e.reg.Rules {
		rule := &e.reg.Rules[i]
		if rule.ID == skipRule {
			continue
		}

		match := e.matcher.Eval(rule.Pattern, a, b, index)
		if !match.Matched {
			match = e.matcher.Eval(rule.Pattern, b, a, index)
		}
		if !match.Matched {
			continue
		}

		if !e.reg.RuleActive(rule, profile) {
			for _, cond := range rule.ActiveWhen {
				selected := e.reg.SelectedOpinion(profile, cond.Machlokas)
				if selected == cond.Opinion {
					continue
				}
				notes = append(notes, DisputeNote{
					RuleID:    rule.ID,
					Machlokas: cond.Machlokas,
					Selected:  selected,
					Required:  cond.Opinion,
				})
			}
			continue
		}

		cat, ok := e.reg.Category(rule.Produces)
		if !ok {
			// unknown category: the rule contributes nothing
			e.log.Debug("rule produces unknown category", "rule", rule.ID, "category", rule.Produces)
			continue
		}
		entries = append(entries, Entry{
			RuleID:    rule.ID,
			Display:   rule.Display,
			Category:  cat,
			Path:      match.Path,
			Citations: rule.Citations,
		})
	}
	return entries, notes
}

func cacheKey(a, b graph.PersonID, index int, profile registry.OpinionProfile) string {
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s|%s|%d|%s", lo, hi, index, profile.Key())
}

/*
========================
Convenience queries
========================
*/

// IsMarriagePermitted reports whether no prohibitive status bars a
// marriage between the pair at the index. One deliberate exception: when
// every prohibitive status stems from the brother's-wife rule AND an
// active levirate bond links the pair, the bond overrides that specific
// prohibition -- yibum is its resolution mechanism. No other prohibition
// is ever overridden.
func (e *Engine) IsMarriagePermitted(a, b graph.PersonID, index int, profile registry.OpinionProfile) bool {
	res := e.ComputeStatus(a, b, index, profile)

	prohibitive := 0
	onlyBrothersWife := true
	for _, entry := range res.Entries {
		if !entry.Category.Severity.Prohibitive() {
			continue
		}
		prohibitive++
		if entry.RuleID != registry.RuleBrothersWife {
			onlyBrothersWife = false
		}
	}
	if prohibitive == 0 {
		return true
	}
	if onlyBrothersWife && res.Zikah != nil && res.Zikah.Active {
		return true
	}
	return false
}

// PrimaryCategory returns the highest-priority category for the pair.
func (e *Engine) PrimaryCategory(a, b graph.PersonID, index int, profile registry.OpinionProfile) (registry.Category, bool) {
	res := e.ComputeStatus(a, b, index, profile)
	if res.Primary == nil {
		return registry.Category{}, false
	}
	return res.Primary.Category, true
}

// HasStatus reports whether the pair carries the category at the index.
func (e *Engine) HasStatus(a, b graph.PersonID, categoryID string, index int, profile registry.OpinionProfile) bool {
	return e.ComputeStatus(a, b, index, profile).HasCategory(categoryID)
}

// ComputeAllStatuses evaluates p against every other person alive at the
// index.
func (e *Engine) ComputeAllStatuses(p graph.PersonID, index int, profile registry.OpinionProfile) map[graph.PersonID]*Result {
	out := map[graph.PersonID]*Result{}
	for id, person := range e.q.StateAt(index).People {
		if id == p || !person.Alive(index) {
			continue
		}
		out[id] = e.ComputeStatus(p, id, index, profile)
	}
	return out
}

// PeopleWithStatus lists everyone alive at the index who holds the
// category relative to p.
func (e *Engine) PeopleWithStatus(p graph.PersonID, categoryID string, index int, profile registry.OpinionProfile) []graph.PersonID {
	var out []graph.PersonID
	for id, res := range e.ComputeAllStatuses(p, index, profile) {
		if res.HasCategory(categoryID) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Yevamos lists the widows under an active bond at the index.
func (e *Engine) Yevamos(index int) []graph.PersonID {
	return e.tracker.YevamosAt(index)
}

// YevamimFor lists the living brothers bound to the widow at the index.
func (e *Engine) YevamimFor(widow graph.PersonID, index int) []graph.PersonID {
	return e.tracker.YevamimFor(widow, index)
}
