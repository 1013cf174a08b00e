package distancefield

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sdfcollision/spatialmath"
)

func TestIndexMap(t *testing.T) {
	pose := spatialmath.NewPose(r3.Vector{X: 0.5, Y: -0.25, Z: 1}, &spatialmath.EulerAngles{Roll: 0.2, Pitch: -0.4, Yaw: math.Pi / 2})
	voxel := 0.01

	affine := NewIndexMap(voxel, spatialmath.PoseToAffineMat4(pose))
	transposed := NewIndexMap(voxel, spatialmath.PoseToMat4(pose).Transpose())
	test.That(t, affine.Affine().ApproxEqualThreshold(transposed.Affine(), 1e-12), test.ShouldBeTrue)
	test.That(t, affine.VoxelSize(), test.ShouldEqual, voxel)

	for _, c := range []Coord{{0, 0, 0}, {10, -3, 7}, {-25, 40, 1}} {
		world := affine.IndexToWorld(c)
		expected := spatialmath.TransformPoint(pose, c.Vector().Mul(voxel))
		test.That(t, spatialmath.R3VectorAlmostEqual(world, expected, 1e-9), test.ShouldBeTrue)
		test.That(t, affine.WorldToIndexNodeCentered(world), test.ShouldResemble, c)
		test.That(t, transposed.WorldToIndexNodeCentered(world), test.ShouldResemble, c)

		// within half a voxel the same node is found
		nudged := world.Add(r3.Vector{X: 0.3 * voxel, Y: -0.3 * voxel})
		test.That(t, affine.WorldToIndexNodeCentered(nudged), test.ShouldResemble, c)
	}

	// An index-space +X gradient points along the rotated X axis, scaled by the inverse voxel size.
	g := affine.ApplyIJT(r3.Vector{X: 1})
	axis := spatialmath.TransformPoint(spatialmath.NewPoseFromOrientation(pose.Orientation()), r3.Vector{X: 1})
	test.That(t, spatialmath.R3VectorAlmostEqual(g.Mul(voxel), axis, 1e-9), test.ShouldBeTrue)
}

func TestScaleMap(t *testing.T) {
	m := NewScaleMap(0.05)
	test.That(t, m.Affine(), test.ShouldResemble, mgl64.Ident4())
	test.That(t, m.WorldToIndexNodeCentered(r3.Vector{X: 0.5, Y: -0.024, Z: 0.026}), test.ShouldResemble, Coord{10, 0, 1})
	test.That(t, spatialmath.R3VectorAlmostEqual(m.IndexToWorld(Coord{2, 4, -6}), r3.Vector{X: 0.1, Y: 0.2, Z: -0.3}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(m.WorldToIndex(r3.Vector{X: 0.125, Y: 0, Z: 0}), r3.Vector{X: 2.5, Y: 0, Z: 0}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(m.ApplyIJT(r3.Vector{X: 1, Y: 2, Z: 3}), r3.Vector{X: 20, Y: 40, Z: 60}, 1e-9), test.ShouldBeTrue)
}
