package selfcollision

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/referenceframe"
	"go.viam.com/sdfcollision/spatialmath"
)

// DistanceResultsData is the closest contact of one active link.
type DistanceResultsData struct {
	MinDistance float64
	// LinkNames holds the active link and the link that produced the minimum, empty when no candidate
	// came within the narrow band.
	LinkNames        [2]string
	HasNearestPoints bool
	NearestPoints    [2]r3.Vector
	HasGradient      bool
	// Gradient is the unit world direction in which the distance grows fastest.
	Gradient r3.Vector
}

func (d DistanceResultsData) String() string {
	return fmt.Sprintf("%s <-> %s: %.4f", d.LinkNames[0], d.LinkNames[1], d.MinDistance)
}

// DistanceResult is the outcome of one self distance query.
type DistanceResult struct {
	// Entries has one entry per evaluated active link, in active link order.
	Entries []DistanceResultsData
	// Minimum is the entry with the smallest distance, the first one on ties.
	Minimum DistanceResultsData
}

// Entry returns the entry of the given active link.
func (r *DistanceResult) Entry(link string) (DistanceResultsData, bool) {
	for _, e := range r.Entries {
		if e.LinkNames[0] == link {
			return e, true
		}
	}
	return DistanceResultsData{}, false
}

// DistanceInfo is the nearest obstacle of one link, in the form consumed by motion controllers.
type DistanceInfo struct {
	Link        string
	NearestLink string
	Distance    float64
	// LinkPoint and ObstaclePoint are the nearest points in the frame given to DistanceInfoMap, set only
	// when the result carries nearest points.
	HasPoints     bool
	LinkPoint     r3.Vector
	ObstaclePoint r3.Vector
	HasAvoidance  bool
	// AvoidanceVector is a unit vector pointing away from the nearest link.
	AvoidanceVector r3.Vector
}

// NewDistanceInfo returns the distance information of link taken from d, in the frame given by tf. The link
// may be either side of the result.
func NewDistanceInfo(link string, d DistanceResultsData, tf spatialmath.Pose) (DistanceInfo, error) {
	if tf == nil {
		tf = spatialmath.NewZeroPose()
	}
	var self, other int
	switch link {
	case d.LinkNames[0]:
		self, other = 0, 1
	case d.LinkNames[1]:
		self, other = 1, 0
	default:
		return DistanceInfo{}, errors.Errorf("link %q is not part of the distance result %s", link, d.String())
	}
	info := DistanceInfo{Link: link, NearestLink: d.LinkNames[other], Distance: d.MinDistance}

	var dir r3.Vector
	switch {
	case d.HasNearestPoints:
		info.HasPoints = true
		info.LinkPoint = spatialmath.TransformPoint(tf, d.NearestPoints[self])
		info.ObstaclePoint = spatialmath.TransformPoint(tf, d.NearestPoints[other])
		dir = info.LinkPoint.Sub(info.ObstaclePoint)
	case d.HasGradient:
		// a direction only turns with the frame
		dir = spatialmath.TransformPoint(spatialmath.NewPoseFromOrientation(tf.Orientation()), d.Gradient)
		if self == 1 {
			dir = dir.Mul(-1)
		}
	}
	if n := dir.Norm(); n > 0 {
		info.HasAvoidance = true
		info.AvoidanceVector = dir.Mul(1 / n)
	}
	return info, nil
}

// DistanceInfoMap converts a result to per-link distance information keyed by the active link of every entry.
// The avoidance vector is the difference of the nearest points when those exist, the gradient otherwise.
func DistanceInfoMap(res *DistanceResult, tf spatialmath.Pose) map[string]DistanceInfo {
	infos := make(map[string]DistanceInfo, len(res.Entries))
	for _, e := range res.Entries {
		// the active link always names the entry
		info, _ := NewDistanceInfo(e.LinkNames[0], e, tf)
		infos[info.Link] = info
	}
	return infos
}

// DistanceRequest selects what a self distance query computes.
type DistanceRequest struct {
	// Group is the movable group being moved. Empty means the whole body.
	Group string
	// Gradient requests the avoidance gradient of every entry.
	Gradient bool
	// ActiveComponentsOnly restricts the query to the active links moved by Group.
	ActiveComponentsOnly bool
}

// LinkInfo describes how the engine treats a link.
type LinkInfo struct {
	Name     string
	Category Category
	Spheres  int
	// ParentJoint is empty for the root link.
	ParentJoint string
}

func newLinkInfo(model *referenceframe.Model, rec *linkRecord, cat Category) LinkInfo {
	info := LinkInfo{Name: rec.link, Category: cat, Spheres: len(rec.spheres)}
	if j, ok := model.ParentJoint(rec.link); ok {
		info.ParentJoint = j.Name
	}
	return info
}
