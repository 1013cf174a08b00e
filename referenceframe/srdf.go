package referenceframe

import (
	"encoding/xml"
	"os"

	"github.com/pkg/errors"
)

// SRDFConfig represents the supported fields of a Semantic Robot Description Format (SRDF) file.
type SRDFConfig struct {
	XMLName           xml.Name                `xml:"robot"`
	Name              string                  `xml:"name,attr"`
	Groups            []SRDFGroup             `xml:"group"`
	DisableCollisions []SRDFDisableCollisions `xml:"disable_collisions"`
}

// SRDFGroup is a movable group. Nested group elements name subgroups.
type SRDFGroup struct {
	Name   string      `xml:"name,attr"`
	Links  []named     `xml:"link"`
	Joints []named     `xml:"joint"`
	Chains []srdfChain `xml:"chain"`
	Groups []named     `xml:"group"`
}

// SRDFDisableCollisions is a link pair that never needs collision checking.
type SRDFDisableCollisions struct {
	Link1  string `xml:"link1,attr"`
	Link2  string `xml:"link2,attr"`
	Reason string `xml:"reason,attr"`
}

type named struct {
	Name string `xml:"name,attr"`
}

type srdfChain struct {
	Base string `xml:"base_link,attr"`
	Tip  string `xml:"tip_link,attr"`
}

// ApplySRDF adds the groups and disabled collision pairs of the given SRDF data to the config.
func ApplySRDF(mc *ModelConfig, xmlData []byte) error {
	if len(xmlData) == 0 {
		return errors.New("empty SRDF data")
	}
	srdf := &SRDFConfig{}
	if err := xml.Unmarshal(xmlData, srdf); err != nil {
		return errors.Wrap(err, "failed to convert SRDF data to equivalent SRDFConfig struct")
	}
	for _, g := range srdf.Groups {
		gc := GroupConfig{Name: g.Name}
		for _, l := range g.Links {
			gc.Links = append(gc.Links, l.Name)
		}
		for _, j := range g.Joints {
			gc.Joints = append(gc.Joints, j.Name)
		}
		for _, c := range g.Chains {
			gc.Chains = append(gc.Chains, ChainConfig(c))
		}
		for _, sub := range g.Groups {
			gc.Subgroups = append(gc.Subgroups, sub.Name)
		}
		mc.Groups = append(mc.Groups, gc)
	}
	for _, dc := range srdf.DisableCollisions {
		mc.DisabledCollisions = append(mc.DisabledCollisions, DisabledCollisionConfig(dc))
	}
	return nil
}

// ApplySRDFFile reads an SRDF file and applies it to the config.
func ApplySRDFFile(mc *ModelConfig, filename string) error {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "failed to read SRDF file")
	}
	return ApplySRDF(mc, xmlData)
}

// ParseURDFAndSRDFFiles builds a model from a URDF file and an optional SRDF file.
func ParseURDFAndSRDFFiles(urdfFile, srdfFile, modelName string) (*Model, error) {
	mc, err := ReadURDFConfigFile(urdfFile, modelName)
	if err != nil {
		return nil, err
	}
	if srdfFile != "" {
		if err := ApplySRDFFile(mc, srdfFile); err != nil {
			return nil, err
		}
	}
	return mc.ParseConfig(modelName)
}
