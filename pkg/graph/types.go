package graph

type PersonID = string
type EdgeID = string

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Person is an immutable description of one individual on the timeline.
// IntroducedAt / DiedAt are slice indices; DiedAt == nil means the person
// never dies within the observed timeline.
type Person struct {
	ID           PersonID `yaml:"id"`
	Name         string   `yaml:"name,omitempty"`
	Gender       Gender   `yaml:"gender"`
	IntroducedAt int      `yaml:"introducedAt"`
	DiedAt       *int     `yaml:"diedAt,omitempty"`
}

// Alive reports slice-level liveness: introduced at or before index, and
// death index (if any) strictly after it.
func (p Person) Alive(index int) bool {
	if index < p.IntroducedAt {
		return false
	}
	return p.DiedAt == nil || *p.DiedAt > index
}

type RelationshipType string

const (
	RelErusin   RelationshipType = "erusin"   // betrothal-stage marriage
	RelMarriage RelationshipType = "marriage" // full marriage (nisuin)
	RelDivorce  RelationshipType = "divorce"
	RelYibum    RelationshipType = "yibum"    // levirate marriage
	RelMaamar   RelationshipType = "maamar"   // partial levirate act
	RelChalitza RelationshipType = "chalitza" // release rite
	RelParent   RelationshipType = "parent"   // From = parent, To = child
	RelSibling  RelationshipType = "sibling"
	RelUnion    RelationshipType = "union" // non-marital union
)

// IsSpousal reports whether an edge of this type makes its endpoints
// spouses. Divorce and chalitza edges record that a bond ENDED; they are
// not spousal themselves. Maamar is a partial act and does not bind yet.
func (t RelationshipType) IsSpousal() bool {
	switch t {
	case RelErusin, RelMarriage, RelYibum:
		return true
	}
	return false
}

// Relationship is a typed edge between two people. Children is only
// meaningful for union-type edges (marriage, union, ...); Hidden marks
// structural edges the UI layer does not display independently.
type Relationship struct {
	ID           EdgeID           `yaml:"id"`
	Type         RelationshipType `yaml:"type"`
	From         PersonID         `yaml:"from"`
	To           PersonID         `yaml:"to"`
	IntroducedAt int              `yaml:"introducedAt"`
	Children     []PersonID       `yaml:"children,omitempty"`
	Hidden       bool             `yaml:"hidden,omitempty"`
}

// Touches reports whether p is one of the edge's endpoints.
func (r Relationship) Touches(p PersonID) bool {
	return r.From == p || r.To == p
}

// Other returns the endpoint opposite p, or "" when p is not an endpoint.
func (r Relationship) Other(p PersonID) PersonID {
	switch p {
	case r.From:
		return r.To
	case r.To:
		return r.From
	}
	return ""
}

// Between reports whether the edge connects a and b in either direction.
func (r Relationship) Between(a, b PersonID) bool {
	return (r.From == a && r.To == b) || (r.From == b && r.To == a)
}
