package selfcollision

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sdfcollision/distancefield"
	"go.viam.com/sdfcollision/logging"
	"go.viam.com/sdfcollision/referenceframe"
	"go.viam.com/sdfcollision/spatialmath"
)

// probeModel is a cube at the root with a ball on a slide along X.
const probeModel = `{
  "name": "probe",
  "links": [
    {"id": "cube", "geometry": [{"type": "box", "x": %[1]v, "y": %[1]v, "z": %[1]v}]},
    {"id": "ball", "geometry": [{"type": "sphere", "r": %[2]v}]}
  ],
  "joints": [
    {"id": "slide", "type": "prismatic", "parent": "cube", "child": "ball",
     "translation": {"x": %[3]v, "y": 0, "z": 0}, "axis": {"x": 1, "y": 0, "z": 0}, "min": -1, "max": 1}
  ],
  "groups": [{"name": "probe", "joints": ["slide"]}]
}`

// twinModel has two balls on their own revolute joints, each in its own group.
const twinModel = `{
  "name": "twin",
  "links": [
    {"id": "base", "geometry": [{"type": "box", "x": 0.2, "y": 0.2, "z": 0.2}]},
    {"id": "left", "geometry": [{"type": "sphere", "r": 0.05}]},
    {"id": "right", "geometry": [{"type": "sphere", "r": 0.05}]},
    {"id": "tool", "geometry": [{"type": "mesh", "mesh_path": "tool.stl"}]}
  ],
  "joints": [
    {"id": "left_joint", "type": "revolute", "parent": "base", "child": "left",
     "translation": {"x": 0.12, "y": 0, "z": 0}, "axis": {"x": 0, "y": 0, "z": 1}, "min": -3, "max": 3},
    {"id": "right_joint", "type": "revolute", "parent": "base", "child": "right",
     "translation": {"x": -0.12, "y": 0, "z": 0}, "axis": {"x": 0, "y": 0, "z": 1}, "min": -3, "max": 3},
    {"id": "tool_joint", "type": "continuous", "parent": "right", "child": "tool", "axis": {"x": 0, "y": 0, "z": 1}}
  ],
  "groups": [
    {"name": "left_arm", "joints": ["left_joint"]},
    {"name": "right_arm", "joints": ["right_joint", "tool_joint"]}
  ]
}`

func parseModel(t *testing.T, data string) *referenceframe.Model {
	t.Helper()
	m, err := referenceframe.UnmarshalModelJSON([]byte(data), "")
	test.That(t, err, test.ShouldBeNil)
	return m
}

func newProbeModel(t *testing.T, cube, radius, offset float64) *referenceframe.Model {
	t.Helper()
	return parseModel(t, fmt.Sprintf(probeModel, cube, radius, offset))
}

// centerFitter fits a single sphere of the given radius at the link origin of every non-empty field.
func centerFitter(radius float64) SphereFitter {
	return SphereFitterFunc(func(
		ctx context.Context,
		f *distancefield.Field,
		_ distancefield.SphereFitOptions,
	) ([]distancefield.Sphere, error) {
		if f.Empty() {
			return nil, nil
		}
		return []distancefield.Sphere{{Radius: radius}}, nil
	})
}

func zeroState(t *testing.T, m *referenceframe.Model) referenceframe.BodyState {
	t.Helper()
	state, err := referenceframe.NewBodyStateFromInputs(m, nil)
	test.That(t, err, test.ShouldBeNil)
	return state
}

func TestCubeAndSphere(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	m := newProbeModel(t, 1, 0.1, 0.5)
	cfg := DefaultConfig()
	cfg.MaxVoxelsPerField = 1 << 21

	e, err := NewEngine(context.Background(), m, cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e.Links(Static), test.ShouldResemble, []string{"cube"})
	test.That(t, e.Links(Active), test.ShouldResemble, []string{"ball"})
	test.That(t, e.Links(Dynamic), test.ShouldBeEmpty)

	reports := e.FitReports()
	test.That(t, len(reports), test.ShouldEqual, 1)
	test.That(t, reports[0].Spheres, test.ShouldEqual, 1)
	test.That(t, reports[0].Attempts, test.ShouldEqual, 3)
	test.That(t, reports[0].VoxelSize, test.ShouldAlmostEqual, 0.0025)
	test.That(t, logs.FilterMessageSnippet("stopping sphere refinement").Len(), test.ShouldEqual, 1)

	res, err := e.DistanceSelf(context.Background(), DistanceRequest{Gradient: true}, zeroState(t, m))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(res.Entries), test.ShouldEqual, 1)
	closest := res.Minimum
	test.That(t, closest.LinkNames, test.ShouldResemble, [2]string{"ball", "cube"})
	test.That(t, closest.MinDistance, test.ShouldAlmostEqual, -0.1, 0.02)
	test.That(t, closest.HasGradient, test.ShouldBeTrue)
	test.That(t, closest.Gradient.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, closest.Gradient.X, test.ShouldBeGreaterThan, 0.99)
	test.That(t, closest.HasNearestPoints, test.ShouldBeFalse)
}

func TestDisabledPair(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := newProbeModel(t, 0.2, 0.05, 0.12)
	cfg := DefaultConfig()

	e, err := NewEngine(context.Background(), m, cfg, logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldBeNil)
	res, err := e.DistanceSelf(context.Background(), DistanceRequest{}, zeroState(t, m))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Minimum.MinDistance, test.ShouldAlmostEqual, -0.03, 1e-6)
	test.That(t, res.Minimum.LinkNames[1], test.ShouldEqual, "cube")
	test.That(t, res.Minimum.HasGradient, test.ShouldBeFalse)

	e, err = NewEngine(context.Background(), m, cfg, logger,
		WithSphereFitter(centerFitter(0.05)),
		WithAllowedCollisions(referenceframe.DisabledCollision{Link1: "cube", Link2: "ball"}),
	)
	test.That(t, err, test.ShouldBeNil)
	allowed, ok := e.AllowedCollisionMatrix().GetEntry("ball", "cube")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, allowed, test.ShouldEqual, Always)

	res, err = e.DistanceSelf(context.Background(), DistanceRequest{Gradient: true}, zeroState(t, m))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(res.Entries), test.ShouldEqual, 1)
	test.That(t, res.Minimum.MinDistance, test.ShouldEqual, cfg.Background)
	test.That(t, res.Minimum.LinkNames, test.ShouldResemble, [2]string{"ball", ""})
	test.That(t, res.Minimum.HasGradient, test.ShouldBeFalse)
}

func TestAllowedCollisionMatrixOption(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := newProbeModel(t, 0.2, 0.05, 0.12)

	acm := NewAllowedCollisionMatrix()
	acm.SetEntry("cube", "ball", Always)
	e, err := NewEngine(context.Background(), m, DefaultConfig(), logger,
		WithSphereFitter(centerFitter(0.05)), WithAllowedCollisionMatrix(acm))
	test.That(t, err, test.ShouldBeNil)
	// later changes to the caller's matrix do not leak into the engine
	acm.SetEntry("cube", "ball", Never)

	res, err := e.DistanceSelf(context.Background(), DistanceRequest{}, zeroState(t, m))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Minimum.LinkNames[1], test.ShouldEqual, "")
}

func TestRefinementStall(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	m := parseModel(t, twinModel)
	cfg := DefaultConfig()
	cfg.SphereFit.RefinementFactor = 0.9

	e, err := NewEngine(context.Background(), m, cfg, logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e.Links(Active), test.ShouldResemble, []string{"left", "right", "tool"})

	reports := e.FitReports()
	test.That(t, len(reports), test.ShouldEqual, 3)
	for _, r := range reports[:2] {
		test.That(t, r.Spheres, test.ShouldEqual, 1)
		test.That(t, r.Attempts, test.ShouldEqual, 10)
		test.That(t, r.VoxelSize, test.ShouldAlmostEqual, 0.01*math.Pow(0.9, 9), 1e-12)
	}
	test.That(t, reports[2].Link, test.ShouldEqual, "tool")
	test.That(t, reports[2].Spheres, test.ShouldEqual, 0)
	test.That(t, reports[2].Attempts, test.ShouldEqual, 1)
	test.That(t, logs.FilterMessageSnippet("excluded from self distance queries").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessageSnippet("skipping degenerate geometry").Len(), test.ShouldBeGreaterThan, 0)
	test.That(t, e.Spheres("left"), test.ShouldHaveLength, 1)
	test.That(t, e.Spheres("tool"), test.ShouldBeEmpty)
	test.That(t, e.Spheres("base"), test.ShouldBeNil)

	res, err := e.DistanceSelf(context.Background(), DistanceRequest{}, zeroState(t, m))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(res.Entries), test.ShouldEqual, 2)
	_, ok := res.Entry("tool")
	test.That(t, ok, test.ShouldBeFalse)
	left, ok := res.Entry("left")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, left.MinDistance, test.ShouldAlmostEqual, -0.03, 1e-3)
	right, ok := res.Entry("right")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, right.MinDistance, test.ShouldAlmostEqual, -0.03, 1e-3)
	// ties go to the first entry
	test.That(t, res.Minimum.LinkNames[0], test.ShouldEqual, "left")
}

func TestNoDistanceRecords(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := parseModel(t, twinModel)
	none := SphereFitterFunc(func(context.Context, *distancefield.Field, distancefield.SphereFitOptions) (
		[]distancefield.Sphere, error,
	) {
		return nil, nil
	})
	e, err := NewEngine(context.Background(), m, DefaultConfig(), logger, WithSphereFitter(none))
	test.That(t, err, test.ShouldBeNil)
	_, err = e.DistanceSelf(context.Background(), DistanceRequest{}, zeroState(t, m))
	test.That(t, err, test.ShouldBeError, ErrNoDistanceRecords)
}

func TestGroupRequests(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := parseModel(t, twinModel)
	e, err := NewEngine(context.Background(), m, DefaultConfig(), logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldBeNil)
	state := zeroState(t, m)

	res, err := e.DistanceSelf(context.Background(), DistanceRequest{Group: "left_arm", ActiveComponentsOnly: true}, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(res.Entries), test.ShouldEqual, 1)
	test.That(t, res.Entries[0].LinkNames[0], test.ShouldEqual, "left")

	res, err = e.DistanceSelf(context.Background(), DistanceRequest{Group: "right_arm", ActiveComponentsOnly: true}, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(res.Entries), test.ShouldEqual, 1)
	test.That(t, res.Entries[0].LinkNames[0], test.ShouldEqual, "right")

	res, err = e.DistanceSelf(context.Background(), DistanceRequest{Group: "left_arm"}, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(res.Entries), test.ShouldEqual, 2)

	_, err = e.DistanceSelf(context.Background(), DistanceRequest{Group: "legs"}, state)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsConfigurationError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "legs")

	_, err = e.DistanceSelf(context.Background(), DistanceRequest{ActiveComponentsOnly: true}, state)
	test.That(t, IsConfigurationError(err), test.ShouldBeTrue)

	_, err = e.DistanceSelf(context.Background(), DistanceRequest{}, nil)
	test.That(t, IsConfigurationError(err), test.ShouldBeTrue)
}

func TestMovingApart(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := newProbeModel(t, 0.2, 0.05, 0.12)
	e, err := NewEngine(context.Background(), m, DefaultConfig(), logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldBeNil)

	last := -1.0
	for _, slide := range []float64{-0.02, -0.01, 0} {
		state, err := referenceframe.NewBodyStateFromInputs(m, referenceframe.JointInputs{"slide": {Value: slide}})
		test.That(t, err, test.ShouldBeNil)
		res, err := e.DistanceSelf(context.Background(), DistanceRequest{Gradient: true}, state)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res.Minimum.MinDistance, test.ShouldAlmostEqual, 0.02+slide-0.05, 1e-5)
		test.That(t, res.Minimum.MinDistance, test.ShouldBeGreaterThan, last)
		test.That(t, res.Minimum.HasGradient, test.ShouldBeTrue)
		test.That(t, res.Minimum.Gradient.X, test.ShouldAlmostEqual, 1, 1e-9)
		last = res.Minimum.MinDistance
	}

	// beyond the exterior band the cube reports nothing
	state, err := referenceframe.NewBodyStateFromInputs(m, referenceframe.JointInputs{"slide": {Value: 0.5}})
	test.That(t, err, test.ShouldBeNil)
	res, err := e.DistanceSelf(context.Background(), DistanceRequest{Gradient: true}, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Minimum.MinDistance, test.ShouldEqual, DefaultConfig().Background)
	test.That(t, res.Minimum.HasGradient, test.ShouldBeFalse)
}

func TestBodyStateFromPoses(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := newProbeModel(t, 0.2, 0.05, 0.12)
	e, err := NewEngine(context.Background(), m, DefaultConfig(), logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldBeNil)

	state := referenceframe.NewBodyStateFromPoses(map[string]spatialmath.Pose{
		"cube": spatialmath.NewZeroPose(),
		"ball": spatialmath.NewPoseFromPoint(r3.Vector{Y: 0.12}),
	})
	res, err := e.DistanceSelf(context.Background(), DistanceRequest{Gradient: true}, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Minimum.MinDistance, test.ShouldAlmostEqual, -0.03, 1e-5)
	test.That(t, res.Minimum.Gradient.Y, test.ShouldAlmostEqual, 1, 1e-9)

	_, err = e.DistanceSelf(context.Background(), DistanceRequest{},
		referenceframe.NewBodyStateFromPoses(map[string]spatialmath.Pose{"cube": spatialmath.NewZeroPose()}))
	test.That(t, err, test.ShouldNotBeNil)
}

// placedModel has a slab on a revolute joint one meter out along X and Y, and a ball on a slide beside it.
// The slab box is offset from its link origin so the joint rotation decides where it ends up.
const placedModel = `{
  "name": "placed",
  "links": [
    {"id": "world"},
    {"id": "slab", "geometry": [{"type": "box", "x": 0.2, "y": 0.2, "z": 0.2, "translation": {"x": 0.2, "y": 0, "z": 0}}]},
    {"id": "ball", "geometry": [{"type": "sphere", "r": 0.05}]}
  ],
  "joints": [
    {"id": "slab_joint", "type": "revolute", "parent": "world", "child": "slab",
     "translation": {"x": 1, "y": 1, "z": 0}, "axis": {"x": 0, "y": 0, "z": 1}, "min": -3, "max": 3},
    {"id": "reach", "type": "prismatic", "parent": "world", "child": "ball",
     "translation": {"x": 1.12, "y": 1.2, "z": 0}, "axis": {"x": 1, "y": 0, "z": 0}, "min": -1, "max": 1}
  ],
  "groups": [%s]
}`

func TestPlacedCandidates(t *testing.T) {
	for _, tc := range []struct {
		name   string
		groups string
		slab   Category
	}{
		{"dynamic", `{"name": "probe", "joints": ["reach"]}`, Dynamic},
		{
			"active",
			`{"name": "probe", "joints": ["reach"]}, {"name": "swing", "joints": ["slab_joint"]}`,
			Active,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			logger := logging.NewTestLogger(t)
			m := parseModel(t, fmt.Sprintf(placedModel, tc.groups))
			cfg := DefaultConfig()
			// refinement stops at a 0.005 voxel
			cfg.MaxVoxelsPerField = 1 << 18
			e, err := NewEngine(context.Background(), m, cfg, logger, WithSphereFitter(centerFitter(0.05)))
			test.That(t, err, test.ShouldBeNil)
			cat, ok := e.Category("slab")
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, cat, test.ShouldEqual, tc.slab)

			// a quarter turn swings the slab box to x in [0.9, 1.1], y in [1.1, 1.3]
			state, err := referenceframe.NewBodyStateFromInputs(m, referenceframe.JointInputs{
				"slab_joint": {Value: math.Pi / 2},
			})
			test.That(t, err, test.ShouldBeNil)
			res, err := e.DistanceSelf(context.Background(), DistanceRequest{Gradient: true}, state)
			test.That(t, err, test.ShouldBeNil)
			ball, ok := res.Entry("ball")
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, ball.LinkNames, test.ShouldResemble, [2]string{"ball", "slab"})
			test.That(t, ball.MinDistance, test.ShouldAlmostEqual, -0.03, 1e-5)
			test.That(t, ball.HasGradient, test.ShouldBeTrue)
			test.That(t, ball.Gradient.X, test.ShouldAlmostEqual, 1, 1e-6)
			test.That(t, res.Minimum.LinkNames, test.ShouldResemble, [2]string{"ball", "slab"})

			// unturned, the box lies along X below the ball and out of the band
			res, err = e.DistanceSelf(context.Background(), DistanceRequest{}, zeroState(t, m))
			test.That(t, err, test.ShouldBeNil)
			ball, ok = res.Entry("ball")
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, ball.MinDistance, test.ShouldEqual, DefaultConfig().Background)
			test.That(t, ball.LinkNames[1], test.ShouldEqual, "")
		})
	}
}

func TestConcurrentQueries(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := parseModel(t, twinModel)
	e, err := NewEngine(context.Background(), m, DefaultConfig(), logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldBeNil)

	angles := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, -1}
	expected := make([]*DistanceResult, len(angles))
	states := make([]referenceframe.BodyState, len(angles))
	for i, a := range angles {
		states[i], err = referenceframe.NewBodyStateFromInputs(m, referenceframe.JointInputs{
			"left_joint":  {Value: a},
			"right_joint": {Value: -a},
		})
		test.That(t, err, test.ShouldBeNil)
		expected[i], err = e.DistanceSelf(context.Background(), DistanceRequest{Gradient: true}, states[i])
		test.That(t, err, test.ShouldBeNil)
	}

	got := make([]*DistanceResult, len(angles))
	errs := make([]error, len(angles))
	var wg sync.WaitGroup
	for i := range angles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], errs[i] = e.DistanceSelf(context.Background(), DistanceRequest{Gradient: true}, states[i])
		}()
	}
	wg.Wait()
	for i := range angles {
		test.That(t, errs[i], test.ShouldBeNil)
		test.That(t, got[i], test.ShouldResemble, expected[i])
	}
}

func TestCancellation(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := newProbeModel(t, 0.2, 0.05, 0.12)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(ctx, m, DefaultConfig(), logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldNotBeNil)

	e, err := NewEngine(context.Background(), m, DefaultConfig(), logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldBeNil)
	_, err = e.DistanceSelf(ctx, DistanceRequest{}, zeroState(t, m))
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestEngineConfigErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := NewEngine(context.Background(), nil, DefaultConfig(), logger)
	test.That(t, IsConfigurationError(err), test.ShouldBeTrue)

	cfg := DefaultConfig()
	cfg.VoxelSize = 0
	_, err = NewEngine(context.Background(), newProbeModel(t, 0.2, 0.05, 0.12), cfg, logger)
	test.That(t, IsConfigurationError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "voxel_size")
}

func TestEngineIntrospection(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := parseModel(t, twinModel)
	e, err := NewEngine(context.Background(), m, DefaultConfig(), logger, WithSphereFitter(centerFitter(0.05)))
	test.That(t, err, test.ShouldBeNil)

	cat, ok := e.Category("right")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cat, test.ShouldEqual, Active)
	cat, ok = e.Category("base")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cat, test.ShouldEqual, Static)
	_, ok = e.Category("nowhere")
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, e.Links(Category(7)), test.ShouldBeNil)

	infos := e.LinkInfos()
	test.That(t, len(infos), test.ShouldEqual, 4)
	test.That(t, infos[0], test.ShouldResemble, LinkInfo{Name: "base", Category: Static})
	test.That(t, infos[1], test.ShouldResemble, LinkInfo{Name: "left", Category: Active, Spheres: 1, ParentJoint: "left_joint"})

	var expected int64
	for _, recs := range e.recs {
		for _, rec := range recs {
			expected += rec.field.MemUsage()
		}
	}
	test.That(t, e.MemUsage(), test.ShouldEqual, expected)
	test.That(t, e.MemUsage(), test.ShouldBeGreaterThan, 4*96)
}

func TestDistanceInfoMap(t *testing.T) {
	res := &DistanceResult{Entries: []DistanceResultsData{
		{MinDistance: 0.1, LinkNames: [2]string{"a", "b"}, HasGradient: true, Gradient: r3.Vector{X: 1}},
		{
			MinDistance: -0.05, LinkNames: [2]string{"c", "d"}, HasNearestPoints: true,
			NearestPoints: [2]r3.Vector{{X: 1}, {X: 1, Y: 2}},
		},
		{MinDistance: 0.2, LinkNames: [2]string{"e", ""}},
	}}

	infos := DistanceInfoMap(res, nil)
	test.That(t, len(infos), test.ShouldEqual, 3)
	test.That(t, infos["a"].HasAvoidance, test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(infos["a"].AvoidanceVector, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, infos["c"].NearestLink, test.ShouldEqual, "d")
	test.That(t, infos["c"].HasPoints, test.ShouldBeTrue)
	// penetrating points keep the link minus obstacle direction
	test.That(t, spatialmath.R3VectorAlmostEqual(infos["c"].AvoidanceVector, r3.Vector{Y: -1}, 1e-9), test.ShouldBeTrue)
	test.That(t, infos["e"].HasAvoidance, test.ShouldBeFalse)
	test.That(t, infos["e"].HasPoints, test.ShouldBeFalse)

	quarter := spatialmath.NewPose(r3.Vector{X: 5}, &spatialmath.R4AA{Theta: math.Pi / 2, RZ: 1})
	infos = DistanceInfoMap(res, quarter)
	test.That(t, spatialmath.R3VectorAlmostEqual(infos["a"].AvoidanceVector, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(infos["c"].LinkPoint, r3.Vector{X: 5, Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(infos["c"].ObstaclePoint, r3.Vector{X: 3, Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(infos["c"].AvoidanceVector, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)

	// seen from the obstacle side the points swap
	info, err := NewDistanceInfo("d", res.Entries[1], quarter)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.NearestLink, test.ShouldEqual, "c")
	test.That(t, spatialmath.R3VectorAlmostEqual(info.LinkPoint, r3.Vector{X: 3, Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(info.AvoidanceVector, r3.Vector{X: -1}, 1e-9), test.ShouldBeTrue)
	info, err = NewDistanceInfo("b", res.Entries[0], nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(info.AvoidanceVector, r3.Vector{X: -1}, 1e-9), test.ShouldBeTrue)

	_, err = NewDistanceInfo("z", res.Entries[0], nil)
	test.That(t, err, test.ShouldNotBeNil)
}
