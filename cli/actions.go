package cli

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/sdfcollision/logging"
	"go.viam.com/sdfcollision/referenceframe"
	"go.viam.com/sdfcollision/selfcollision"
)

// DistanceAction builds the engine for a model and prints the self distance at the requested joint values.
func DistanceAction(c *cli.Context) error {
	ctx, cancel := commandContext(c)
	defer cancel()
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	e, err := newEngine(ctx, c, logger)
	if err != nil {
		return err
	}

	inputs, err := jointInputs(c, e.Model())
	if err != nil {
		return err
	}
	state, err := referenceframe.NewBodyStateFromInputs(e.Model(), inputs)
	if err != nil {
		return err
	}
	req := selfcollision.DistanceRequest{
		Group:                c.String(flagGroup),
		Gradient:             c.Bool(flagGradient),
		ActiveComponentsOnly: c.Bool(flagActiveOnly),
	}
	res, err := e.DistanceSelf(ctx, req, state)
	if err != nil {
		return err
	}

	printf(c.App.Writer, "%s", distanceTable(res, e.Config().Background))
	printf(c.App.Writer, "minimum: %s", formatDistance(res.Minimum, e.Config().Background))
	return nil
}

// LinksAction prints the category and probe spheres of every link with geometry.
func LinksAction(c *cli.Context) error {
	ctx, cancel := commandContext(c)
	defer cancel()
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	e, err := newEngine(ctx, c, logger)
	if err != nil {
		return err
	}

	printf(c.App.Writer, "%s", linkTable(e.LinkInfos()))
	for _, r := range e.FitReports() {
		printf(c.App.Writer, "%s", r.String())
	}
	printf(c.App.Writer, "distance fields use %s", formatBytes(e.MemUsage()))
	return nil
}

func commandContext(c *cli.Context) (context.Context, context.CancelFunc) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := c.Duration(flagTimeout); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func newLogger(c *cli.Context) (logging.Logger, error) {
	level, err := logging.LevelFromString(c.String(flagLogLevel))
	if err != nil {
		return nil, err
	}
	if c.Bool(flagDebug) {
		level = logging.DEBUG
	}
	logger := logging.NewBlankLogger("selfdistance")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(level)
	return logger, nil
}

func loadModel(c *cli.Context) (*referenceframe.Model, error) {
	modelFile := c.String(flagModel)
	if srdf := c.String(flagSRDF); srdf != "" {
		switch filepath.Ext(modelFile) {
		case ".urdf", ".xml":
		default:
			return nil, errors.Errorf("an SRDF file can only be applied to a URDF model, got %q", modelFile)
		}
		return referenceframe.ParseURDFAndSRDFFiles(modelFile, srdf, "")
	}
	return referenceframe.ParseModelFile(modelFile, "")
}

func loadConfig(c *cli.Context) (selfcollision.Config, error) {
	cfg := selfcollision.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = selfcollision.ReadConfigFile(path); err != nil {
			return cfg, err
		}
	}
	if c.IsSet(flagVoxelSize) {
		cfg.VoxelSize = c.Float64(flagVoxelSize)
	}
	if c.IsSet(flagBackground) {
		cfg.Background = c.Float64(flagBackground)
	}
	if c.IsSet(flagExteriorBandwidth) {
		cfg.ExteriorBandwidth = c.Float64(flagExteriorBandwidth)
	}
	if c.IsSet(flagInteriorBandwidth) {
		cfg.InteriorBandwidth = c.Float64(flagInteriorBandwidth)
	}
	return cfg, nil
}

func newEngine(ctx context.Context, c *cli.Context, logger logging.Logger) (*selfcollision.Engine, error) {
	m, err := loadModel(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load model")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return selfcollision.NewEngine(ctx, m, cfg, logger)
}

// jointInputs merges the group positions with the individual joint values, the latter taking precedence.
func jointInputs(c *cli.Context, m *referenceframe.Model) (referenceframe.JointInputs, error) {
	inputs := referenceframe.JointInputs{}
	if positions := c.Float64Slice(flagPositions); len(positions) > 0 {
		group := c.String(flagGroup)
		if group == "" {
			return nil, errors.Errorf("--%s needs --%s", flagPositions, flagGroup)
		}
		groupInputs, err := referenceframe.GroupInputs(m, group, referenceframe.FloatsToInputs(positions))
		if err != nil {
			return nil, err
		}
		for name, in := range groupInputs {
			inputs[name] = in
		}
	}
	joints, err := referenceframe.ParseJointInputs(c.StringSlice(flagJoint))
	if err != nil {
		return nil, err
	}
	for name, in := range joints {
		inputs[name] = in
	}
	return inputs, nil
}
