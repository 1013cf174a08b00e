package selfcollision

import (
	"fmt"

	"go.viam.com/sdfcollision/distancefield"
	"go.viam.com/sdfcollision/spatialmath"
)

// Category is the role of a link with geometry in self distance queries.
type Category int

// Static links are rigidly attached to the root, Active links belong to a movable group and Dynamic
// links are every other link with geometry.
const (
	Static Category = iota
	Active
	Dynamic
)

var categoryNames = [...]string{"static", "active", "dynamic"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// LinkRef points at a link record within its category.
type LinkRef struct {
	Category Category
	Index    int
}

// linkRecord owns everything built for one link. It is never modified after construction.
type linkRecord struct {
	link string
	// offset is the pose of a static link in the root frame, identity for the other categories.
	offset  spatialmath.Pose
	field   *distancefield.Field
	spheres []distancefield.Sphere
}

// records holds one slice of link records per category.
type records [3][]*linkRecord

func (r *records) get(ref LinkRef) *linkRecord {
	return r[ref.Category][ref.Index]
}
