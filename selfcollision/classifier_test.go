package selfcollision

import (
	"fmt"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sdfcollision/logging"
	"go.viam.com/sdfcollision/referenceframe"
	"go.viam.com/sdfcollision/spatialmath"
)

func recordNames(recs []*linkRecord) []string {
	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.link)
	}
	return names
}

func parseTestArm(t *testing.T) *referenceframe.Model {
	t.Helper()
	m, err := referenceframe.ParseURDFAndSRDFFiles(
		"../referenceframe/testdata/arm.urdf", "../referenceframe/testdata/arm.srdf", "")
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestClassifyArm(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	m := parseTestArm(t)
	c := classifyLinks(m, logger)

	test.That(t, recordNames(c.static), test.ShouldResemble, []string{"base_link", "pedestal"})
	test.That(t, recordNames(c.active), test.ShouldResemble, []string{"link1", "link2", "tool"})
	test.That(t, c.dynamic, test.ShouldBeEmpty)
	test.That(t, logs.Len(), test.ShouldEqual, 0)

	test.That(t, spatialmath.PoseAlmostEqual(c.static[0].offset, spatialmath.NewZeroPose()), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(c.static[1].offset.Point(), r3.Vector{X: 0.3, Z: 0.1}, 1e-9),
		test.ShouldBeTrue)
	for _, r := range c.active {
		test.That(t, spatialmath.PoseAlmostEqual(r.offset, spatialmath.NewZeroPose()), test.ShouldBeTrue)
	}
}

const partitionModel = `{
  "name": "partition",
  "links": [
    {"id": "root"},
    {"id": "frame", "geometry": [{"type": "box", "x": 0.1, "y": 0.1, "z": 0.1}]},
    {"id": "bracket", "geometry": [{"type": "sphere", "r": 0.02}]},
    {"id": "arm", "geometry": [{"type": "capsule", "r": 0.02, "l": 0.2}]},
    {"id": "hand", "geometry": [{"type": "sphere", "r": 0.03}]},
    {"id": "sensor", "geometry": [{"type": "cylinder", "r": 0.01, "l": 0.05}]},
    {"id": "cable"}
  ],
  "joints": [
    {"id": "frame_mount", "type": "fixed", "parent": "root", "child": "frame", "translation": {"x": 0.1, "y": 0, "z": 0}},
    {"id": "bracket_mount", "type": "fixed", "parent": "frame", "child": "bracket", "translation": {"x": 0, "y": 0.2, "z": 0}},
    {"id": "shoulder", "type": "revolute", "parent": "root", "child": "arm", "axis": {"x": 0, "y": 0, "z": 1}},
    {"id": "wrist", "type": "revolute", "parent": "arm", "child": "hand", "translation": {"x": 0, "y": 0, "z": 0.2}},
    {"id": "sensor_mount", "type": "fixed", "parent": "hand", "child": "sensor"},
    {"id": "cable_mount", "type": "fixed", "parent": "root", "child": "cable"}
  ],
  "groups": [
    {"name": "arm", "joints": ["shoulder"]},
    {"name": "stiff", "links": ["bracket", "arm"]}
  ]
}`

func TestClassifyPartition(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	m := parseModel(t, partitionModel)
	c := classifyLinks(m, logger)

	test.That(t, recordNames(c.static), test.ShouldResemble, []string{"frame", "bracket"})
	test.That(t, recordNames(c.active), test.ShouldResemble, []string{"arm"})
	test.That(t, recordNames(c.dynamic), test.ShouldResemble, []string{"hand", "sensor"})

	// static offsets compose along the fixed chain
	test.That(t, spatialmath.R3VectorAlmostEqual(c.static[1].offset.Point(), r3.Vector{X: 0.1, Y: 0.2}, 1e-9),
		test.ShouldBeTrue)

	warnings := logs.FilterMessageSnippet("rigidly attached")
	test.That(t, warnings.Len(), test.ShouldEqual, 1)
	test.That(t, warnings.All()[0].ContextMap()["link"], test.ShouldEqual, "bracket")

	// every link with geometry is in exactly one category
	seen := map[string]int{}
	for _, recs := range [][]*linkRecord{c.static, c.active, c.dynamic} {
		for _, r := range recs {
			seen[r.link]++
		}
	}
	for _, name := range m.LinksWithCollisionGeometry() {
		test.That(t, seen[name], test.ShouldEqual, 1)
	}
	test.That(t, len(seen), test.ShouldEqual, len(m.LinksWithCollisionGeometry()))
}

func TestClassifyDeepFixedChain(t *testing.T) {
	cfg := &referenceframe.ModelConfig{Name: "chain"}
	const depth = 5000
	for i := 0; i < depth; i++ {
		cfg.Links = append(cfg.Links, referenceframe.LinkConfig{
			ID:       linkName(i),
			Geometry: []spatialmath.GeometryConfig{{Type: spatialmath.SphereType, R: 0.01}},
		})
		if i > 0 {
			cfg.Joints = append(cfg.Joints, referenceframe.JointConfig{
				ID:          "j" + linkName(i),
				Type:        referenceframe.FixedJoint,
				Parent:      linkName(i - 1),
				Child:       linkName(i),
				Translation: r3.Vector{X: 0.001},
			})
		}
	}
	m, err := cfg.ParseConfig("")
	test.That(t, err, test.ShouldBeNil)

	static := identifyStatic(m)
	test.That(t, len(static), test.ShouldEqual, depth)
	test.That(t, static[depth-1].offset.Point().X, test.ShouldAlmostEqual, 0.001*(depth-1), 1e-6)
}

func linkName(i int) string {
	return fmt.Sprintf("link_%d", i)
}
