package selfcollision

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/sdfcollision/distancefield"
)

func TestPlanQueries(t *testing.T) {
	probe := []distancefield.Sphere{{Radius: 0.01}}
	var recs records
	recs[Active] = []*linkRecord{
		{link: "upper", spheres: probe},
		{link: "lower", spheres: probe},
		{link: "hollow"},
	}
	recs[Dynamic] = []*linkRecord{{link: "cart"}}
	recs[Static] = []*linkRecord{{link: "base"}, {link: "mast"}}

	acm := NewAllowedCollisionMatrix()
	acm.SetEntry("upper", "base", Always)
	acm.SetEntry("lower", "upper", Always)
	acm.SetEntry("lower", "mast", Never)

	queries := planQueries(&recs, acm)
	test.That(t, len(queries), test.ShouldEqual, 3)

	test.That(t, queries[0].parent, test.ShouldEqual, "upper")
	test.That(t, queries[0].parentRef, test.ShouldResemble, LinkRef{Active, 0})
	test.That(t, queries[0].empty, test.ShouldBeFalse)
	test.That(t, queries[0].candidates, test.ShouldResemble, []candidate{
		{"hollow", LinkRef{Active, 2}},
		{"cart", LinkRef{Dynamic, 0}},
		{"mast", LinkRef{Static, 1}},
	})

	test.That(t, queries[1].candidates, test.ShouldResemble, []candidate{
		{"hollow", LinkRef{Active, 2}},
		{"cart", LinkRef{Dynamic, 0}},
		{"base", LinkRef{Static, 0}},
		{"mast", LinkRef{Static, 1}},
	})

	test.That(t, queries[2].empty, test.ShouldBeTrue)
	test.That(t, queries[2].candidates, test.ShouldBeEmpty)

	for _, q := range queries {
		for _, c := range q.candidates {
			test.That(t, recs.get(c.ref).link, test.ShouldEqual, c.link)
			test.That(t, c.link, test.ShouldNotEqual, q.parent)
		}
	}
}

func TestPlanQueriesNilMatrix(t *testing.T) {
	var recs records
	recs[Active] = []*linkRecord{{link: "a", spheres: []distancefield.Sphere{{Radius: 1}}}, {link: "b"}}
	recs[Static] = []*linkRecord{{link: "s"}}

	queries := planQueries(&recs, nil)
	test.That(t, queries[0].candidates, test.ShouldResemble, []candidate{
		{"b", LinkRef{Active, 1}},
		{"s", LinkRef{Static, 0}},
	})
}
