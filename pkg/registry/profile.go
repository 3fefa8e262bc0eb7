package registry

import (
	"sort"
	"strings"
)

// OpinionProfile maps machlokas id to the selected opinion id. Disputes
// not present fall back to their machlokas's default opinion. Profiles
// are always passed explicitly; there is no global selection.
type OpinionProfile map[string]string

// Key is the canonical serialization of the profile, usable as part of a
// cache key: selections sorted by machlokas id.
func (p OpinionProfile) Key() string {
	if len(p) == 0 {
		return ""
	}
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(p[id])
	}
	return b.String()
}

// With returns a copy of the profile with one selection replaced.
func (p OpinionProfile) With(machlokas, opinion string) OpinionProfile {
	out := make(OpinionProfile, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[machlokas] = opinion
	return out
}

// SelectedOpinion resolves the opinion chosen for a machlokas: the
// profile's explicit selection, else the machlokas's default, else "".
func (r *Registry) SelectedOpinion(profile OpinionProfile, machlokasID string) string {
	if opinion, ok := profile[machlokasID]; ok {
		return opinion
	}
	if m, ok := r.Machlokas(machlokasID); ok {
		return m.Default
	}
	return ""
}

// RuleActive reports whether the rule's activation conditions are all
// satisfied by the profile. Rules with no conditions are always active.
func (r *Registry) RuleActive(rule *Rule, profile OpinionProfile) bool {
	for _, cond := range rule.ActiveWhen {
		if r.SelectedOpinion(profile, cond.Machlokas) != cond.Opinion {
			return false
		}
	}
	return true
}
