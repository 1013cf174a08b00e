package selfcollision

// candidate is a link checked against the probe spheres of an active link.
type candidate struct {
	link string
	ref  LinkRef
}

// queryRecord lists, for one active link, the links its probe spheres are checked against.
type queryRecord struct {
	parent     string
	parentRef  LinkRef
	empty      bool
	candidates []candidate
}

// planQueries builds one record per active link, in active order. Candidates are the other active links,
// then the dynamic links, then the static links, minus the pairs the matrix allows to collide.
func planQueries(recs *records, acm *AllowedCollisionMatrix) []queryRecord {
	queries := make([]queryRecord, 0, len(recs[Active]))
	for j, parent := range recs[Active] {
		q := queryRecord{
			parent:    parent.link,
			parentRef: LinkRef{Active, j},
			empty:     len(parent.spheres) == 0,
		}
		if !q.empty {
			for _, cat := range []Category{Active, Dynamic, Static} {
				for i, child := range recs[cat] {
					if cat == Active && i == j {
						continue
					}
					if IsCollisionAllowed(child.link, parent.link, acm) {
						continue
					}
					q.candidates = append(q.candidates, candidate{child.link, LinkRef{cat, i}})
				}
			}
		}
		queries = append(queries, q)
	}
	return queries
}
