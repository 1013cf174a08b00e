package selfcollision

import (
	"github.com/samber/lo"

	"go.viam.com/sdfcollision/referenceframe"
)

// AllowedCollisionType says whether a pair of links may touch.
type AllowedCollisionType int

// Never means the pair must be checked, Always means it is skipped.
const (
	Never AllowedCollisionType = iota
	Always
)

func (t AllowedCollisionType) String() string {
	if t == Always {
		return "always"
	}
	return "never"
}

type linkPair struct {
	a, b string
}

// AllowedCollisionMatrix records, per pair of links, whether their collisions are allowed. Entries are
// symmetric.
type AllowedCollisionMatrix struct {
	entries map[linkPair]AllowedCollisionType
}

// NewAllowedCollisionMatrix returns an empty matrix.
func NewAllowedCollisionMatrix() *AllowedCollisionMatrix {
	return &AllowedCollisionMatrix{entries: map[linkPair]AllowedCollisionType{}}
}

// DefaultAllowedCollisionMatrix returns the matrix with every pair of links with geometry set to Never and
// the model default disabled pairs set to Always.
func DefaultAllowedCollisionMatrix(model *referenceframe.Model) *AllowedCollisionMatrix {
	acm := NewAllowedCollisionMatrix()
	links := model.LinksWithCollisionGeometry()
	for i, a := range links {
		for _, b := range links[i+1:] {
			acm.SetEntry(a, b, Never)
		}
	}
	for _, dc := range model.DisabledCollisionPairs() {
		acm.SetEntry(dc.Link1, dc.Link2, Always)
	}
	return acm
}

// SetEntry sets the entry for both orderings of the pair.
func (acm *AllowedCollisionMatrix) SetEntry(a, b string, t AllowedCollisionType) {
	acm.entries[linkPair{a, b}] = t
	acm.entries[linkPair{b, a}] = t
}

// GetEntry returns the entry for the pair, if there is one.
func (acm *AllowedCollisionMatrix) GetEntry(a, b string) (AllowedCollisionType, bool) {
	t, ok := acm.entries[linkPair{a, b}]
	return t, ok
}

// RemoveEntry deletes the entry for both orderings of the pair.
func (acm *AllowedCollisionMatrix) RemoveEntry(a, b string) {
	delete(acm.entries, linkPair{a, b})
	delete(acm.entries, linkPair{b, a})
}

// Size returns the number of unordered pairs with an entry.
func (acm *AllowedCollisionMatrix) Size() int {
	return len(lo.Filter(lo.Keys(acm.entries), func(p linkPair, _ int) bool { return p.a <= p.b }))
}

func (acm *AllowedCollisionMatrix) clone() *AllowedCollisionMatrix {
	return &AllowedCollisionMatrix{entries: lo.Assign(acm.entries)}
}

// IsCollisionAllowed reports whether the pair may be skipped. Only an explicit Always entry allows a
// collision; a nil matrix or a missing entry means the pair must be checked.
func IsCollisionAllowed(a, b string, acm *AllowedCollisionMatrix) bool {
	if acm == nil {
		return false
	}
	t, ok := acm.GetEntry(a, b)
	return ok && t == Always
}
