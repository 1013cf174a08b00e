// Package cli contains the selfdistance command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagModel             = "model"
	flagSRDF              = "srdf"
	flagConfig            = "config"
	flagVoxelSize         = "voxel-size"
	flagBackground        = "background"
	flagExteriorBandwidth = "exterior-bandwidth"
	flagInteriorBandwidth = "interior-bandwidth"
	flagGroup             = "group"
	flagJoint             = "joint"
	flagPositions         = "positions"
	flagGradient          = "gradient"
	flagActiveOnly        = "active-only"
	flagTimeout           = "timeout"
	flagLogLevel          = "log-level"
	flagDebug             = "debug"
)

var engineFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     flagModel,
		Aliases:  []string{"m"},
		Required: true,
		Usage:    "kinematic model `FILE` (.urdf, .xml or .json)",
	},
	&cli.StringFlag{
		Name:  flagSRDF,
		Usage: "semantic description `FILE` with groups and disabled collisions, for URDF models",
	},
	&cli.StringFlag{
		Name:    flagConfig,
		Aliases: []string{"c"},
		Usage:   "load the field configuration from a JSON `FILE`",
	},
	&cli.Float64Flag{
		Name:  flagVoxelSize,
		Usage: "voxel edge length in meters",
	},
	&cli.Float64Flag{
		Name:  flagBackground,
		Usage: "distance reported outside the narrow band, in meters",
	},
	&cli.Float64Flag{
		Name:  flagExteriorBandwidth,
		Usage: "exterior half-width of the narrow band, in voxels",
	},
	&cli.Float64Flag{
		Name:  flagInteriorBandwidth,
		Usage: "interior half-width of the narrow band, in voxels",
	},
	&cli.StringFlag{
		Name:  flagLogLevel,
		Value: "warn",
		Usage: "one of debug, info, warn or error",
	},
	&cli.BoolFlag{
		Name:    flagDebug,
		Aliases: []string{"vvv"},
		Usage:   "enable debug logging",
	},
	&cli.DurationFlag{
		Name:  flagTimeout,
		Usage: "give up after this long",
	},
}

var app = &cli.App{
	Name:            "selfdistance",
	Usage:           "compute the self collision distance of an articulated body",
	HideHelpCommand: true,
	Commands: []*cli.Command{
		{
			Name:      "distance",
			Usage:     "compute the minimum self distance at a joint configuration",
			UsageText: "selfdistance distance --model <file> [--joint name=value ...] [other options]",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    flagGroup,
					Aliases: []string{"g"},
					Usage:   "movable group being moved, the whole body when empty",
				},
				&cli.StringSliceFlag{
					Name:  flagJoint,
					Usage: "joint value as name=value, repeatable",
				},
				&cli.Float64SliceFlag{
					Name:  flagPositions,
					Usage: "values of the movable joints of the group, in group order",
				},
				&cli.BoolFlag{
					Name:  flagGradient,
					Usage: "also compute the avoidance gradient",
				},
				&cli.BoolFlag{
					Name:  flagActiveOnly,
					Usage: "only evaluate the links moved by the group",
				},
			}, engineFlags...),
			Action: DistanceAction,
		},
		{
			Name:      "links",
			Usage:     "print how every link with geometry is treated",
			UsageText: "selfdistance links --model <file> [other options]",
			Flags:     engineFlags,
			Action:    LinksAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
