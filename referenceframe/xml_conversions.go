package referenceframe

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/spatialmath"
)

// collision is a struct which details the XML used in a URDF collision geometry.
type collision struct {
	XMLName  xml.Name `xml:"collision"`
	Name     string   `xml:"name,attr"`
	Origin   *pose    `xml:"origin"`
	Geometry struct {
		XMLName  xml.Name  `xml:"geometry"`
		Box      *box      `xml:"box,omitempty"`
		Sphere   *sphere   `xml:"sphere,omitempty"`
		Cylinder *cylinder `xml:"cylinder,omitempty"`
		Mesh     *mesh     `xml:"mesh,omitempty"`
	} `xml:"geometry"`
}

type box struct {
	XMLName xml.Name `xml:"box"`
	Size    string   `xml:"size,attr"` // "x y z" format, in meters
}

type sphere struct {
	XMLName xml.Name `xml:"sphere"`
	Radius  float64  `xml:"radius,attr"` // in meters
}

type cylinder struct {
	XMLName xml.Name `xml:"cylinder"`
	Radius  float64  `xml:"radius,attr"`
	Length  float64  `xml:"length,attr"`
}

type mesh struct {
	XMLName  xml.Name `xml:"mesh"`
	Filename string   `xml:"filename,attr"`
}

// toGeometryConfig does not validate dimensions; degenerate shapes are kept on the link.
func (c *collision) toGeometryConfig() (spatialmath.GeometryConfig, error) {
	cfg := spatialmath.GeometryConfig{Label: c.Name}
	switch {
	case c.Geometry.Box != nil:
		dims := spaceDelimitedStringToFloatSlice(c.Geometry.Box.Size)
		if len(dims) != 3 {
			return cfg, errors.Errorf("box size %q must have three values", c.Geometry.Box.Size)
		}
		cfg.Type = spatialmath.BoxType
		cfg.X, cfg.Y, cfg.Z = dims[0], dims[1], dims[2]
	case c.Geometry.Sphere != nil:
		cfg.Type = spatialmath.SphereType
		cfg.R = c.Geometry.Sphere.Radius
	case c.Geometry.Cylinder != nil:
		cfg.Type = spatialmath.CylinderType
		cfg.R = c.Geometry.Cylinder.Radius
		cfg.L = c.Geometry.Cylinder.Length
	case c.Geometry.Mesh != nil:
		cfg.Type = spatialmath.MeshType
		cfg.MeshPath = c.Geometry.Mesh.Filename
	default:
		return cfg, errors.New("couldn't parse xml: no geometry defined")
	}

	offset, err := c.Origin.Parse()
	if err != nil {
		return cfg, err
	}
	orientation, err := spatialmath.NewOrientationConfig(offset.Orientation())
	if err != nil {
		return cfg, err
	}
	cfg.TranslationOffset = offset.Point()
	cfg.OrientationOffset = *orientation
	return cfg, nil
}

type frame struct {
	Link string `xml:"link,attr"`
}

type limit struct {
	XMLName xml.Name `xml:"limit"`
	Lower   float64  `xml:"lower,attr"` // translation limits are in meters, revolute limits are in radians
	Upper   float64  `xml:"upper,attr"` // translation limits are in meters, revolute limits are in radians
}

type axis struct {
	XMLName xml.Name `xml:"axis"`
	XYZ     string   `xml:"xyz,attr"`
}

func (a *axis) Parse() r3.Vector {
	if a == nil {
		return r3.Vector{X: 1}
	}
	jointAxes := spaceDelimitedStringToFloatSlice(a.XYZ)
	if len(jointAxes) != 3 {
		return r3.Vector{X: 1}
	}
	return normalizedAxis(r3.Vector{X: jointAxes[0], Y: jointAxes[1], Z: jointAxes[2]})
}

type pose struct {
	XMLName xml.Name `xml:"origin"`
	RPY     string   `xml:"rpy,attr"` // Fixed frame angle "r p y" format, in radians
	XYZ     string   `xml:"xyz,attr"` // "x y z" format, in meters
}

// Parse returns the identity for a missing origin or missing attributes.
func (p *pose) Parse() (spatialmath.Pose, error) {
	if p == nil {
		return spatialmath.NewZeroPose(), nil
	}
	xyz, err := triple(p.XYZ, "xyz")
	if err != nil {
		return nil, err
	}
	rpy, err := triple(p.RPY, "rpy")
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPose(
		r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]},
		&spatialmath.EulerAngles{Roll: rpy[0], Pitch: rpy[1], Yaw: rpy[2]},
	), nil
}

func triple(s, attr string) ([]float64, error) {
	values := spaceDelimitedStringToFloatSlice(s)
	switch {
	case len(values) == 0:
		return []float64{0, 0, 0}, nil
	case len(values) != 3:
		return nil, errors.Errorf("origin %s %q must have three values", attr, s)
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return nil, errors.Errorf("origin %s %q is not numeric", attr, s)
		}
	}
	return values, nil
}

// spaceDelimitedStringToFloatSlice is a helper method to split up space-delimited fields in a string and converts them to floats.
func spaceDelimitedStringToFloatSlice(s string) []float64 {
	var converted []float64
	slice := strings.Fields(s)
	for _, value := range slice {
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			value = math.NaN()
		}
		converted = append(converted, value)
	}
	return converted
}
