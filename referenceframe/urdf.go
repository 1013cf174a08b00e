package referenceframe

import (
	"encoding/xml"
	"os"

	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/spatialmath"
)

// URDFConfig represents all supported fields in a Universal Robot Description Format (URDF) file.
type URDFConfig struct {
	XMLName xml.Name    `xml:"robot"`
	Name    string      `xml:"name,attr"`
	Links   []URDFLink  `xml:"link"`
	Joints  []URDFJoint `xml:"joint"`
}

// URDFLink is a struct which details the XML used in a URDF link element.
type URDFLink struct {
	XMLName   xml.Name    `xml:"link"`
	Name      string      `xml:"name,attr"`
	Collision []collision `xml:"collision"`
}

// URDFJoint is a struct which details the XML used in a URDF joint element.
type URDFJoint struct {
	XMLName xml.Name `xml:"joint"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Parent  frame    `xml:"parent"`
	Child   frame    `xml:"child"`
	Origin  *pose    `xml:"origin,omitempty"`
	Axis    *axis    `xml:"axis,omitempty"`
	Limit   *limit   `xml:"limit,omitempty"`
}

// ParseURDFFile will read a given file and parse the contained URDF XML data into a Model.
func ParseURDFFile(filename, modelName string) (*Model, error) {
	mc, err := ReadURDFConfigFile(filename, modelName)
	if err != nil {
		return nil, err
	}
	return mc.ParseConfig(modelName)
}

// ReadURDFConfigFile reads a URDF file into a ModelConfig, which an SRDF can then extend.
func ReadURDFConfigFile(filename, modelName string) (*ModelConfig, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return ConvertURDFToConfig(xmlData, modelName)
}

// ConvertURDFToConfig will transfer the given URDF XML data into an equivalent ModelConfig. A "world" link is
// dropped, and the child of a joint from it becomes a root link. Every collision element of a link is kept.
func ConvertURDFToConfig(xmlData []byte, modelName string) (*ModelConfig, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}

	urdf := &URDFConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent URDFConfig struct")
	}
	if modelName == "" {
		modelName = urdf.Name
	}
	mc := &ModelConfig{Name: modelName}

	for _, linkElem := range urdf.Links {
		if linkElem.Name == World {
			continue
		}
		link := LinkConfig{ID: linkElem.Name}
		for i := range linkElem.Collision {
			geoCfg, err := linkElem.Collision[i].toGeometryConfig()
			if err != nil {
				return nil, errors.Wrapf(err, "link %q collision %d", linkElem.Name, i)
			}
			link.Geometry = append(link.Geometry, geoCfg)
		}
		mc.Links = append(mc.Links, link)
	}

	for _, jointElem := range urdf.Joints {
		if jointElem.Name == World {
			return nil, NewReservedWordError("joint", World)
		}
		if jointElem.Parent.Link == World {
			continue
		}

		thisJoint := JointConfig{
			ID:     jointElem.Name,
			Type:   JointType(jointElem.Type),
			Parent: jointElem.Parent.Link,
			Child:  jointElem.Child.Link,
		}
		switch thisJoint.Type {
		case RevoluteJoint, PrismaticJoint:
			if jointElem.Limit != nil {
				thisJoint.Min, thisJoint.Max = jointElem.Limit.Lower, jointElem.Limit.Upper
			}
			thisJoint.Axis = jointElem.Axis.Parse()
		case ContinuousJoint:
			thisJoint.Axis = jointElem.Axis.Parse()
		case FixedJoint:
		default:
			return nil, NewUnsupportedJointTypeError(jointElem.Type)
		}

		// The joint origin holds the child link translation and orientation per the URDF design
		origin, err := jointElem.Origin.Parse()
		if err != nil {
			return nil, errors.Wrapf(err, "joint %q", jointElem.Name)
		}
		orientation, err := spatialmath.NewOrientationConfig(origin.Orientation())
		if err != nil {
			return nil, err
		}
		thisJoint.Translation = origin.Point()
		thisJoint.Orientation = orientation

		mc.Joints = append(mc.Joints, thisJoint)
	}
	return mc, nil
}
