package selfcollision

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/distancefield"
	"go.viam.com/sdfcollision/logging"
	"go.viam.com/sdfcollision/referenceframe"
	"go.viam.com/sdfcollision/utils"
)

// SphereFitter fits probe spheres inside the zero iso-surface of a field.
type SphereFitter interface {
	FitSpheres(ctx context.Context, field *distancefield.Field, opts distancefield.SphereFitOptions) ([]distancefield.Sphere, error)
}

// SphereFitterFunc adapts a function to the SphereFitter interface.
type SphereFitterFunc func(ctx context.Context, field *distancefield.Field, opts distancefield.SphereFitOptions) (
	[]distancefield.Sphere, error)

// FitSpheres calls f.
func (f SphereFitterFunc) FitSpheres(
	ctx context.Context,
	field *distancefield.Field,
	opts distancefield.SphereFitOptions,
) ([]distancefield.Sphere, error) {
	return f(ctx, field, opts)
}

// DefaultSphereFitter is the greedy fitter of the distancefield package.
var DefaultSphereFitter SphereFitter = SphereFitterFunc(distancefield.FillWithSpheres)

// decompose builds the field and probe spheres of every active link in parallel.
func decompose(
	ctx context.Context,
	model *referenceframe.Model,
	cfg *Config,
	fitter SphereFitter,
	recs []*linkRecord,
	logger logging.Logger,
) ([]FitReport, error) {
	reports := make([]FitReport, len(recs))
	fs := make([]utils.SimpleFunc, 0, len(recs))
	for i, rec := range recs {
		fs = append(fs, func(ctx context.Context) error {
			link, err := model.Link(rec.link)
			if err != nil {
				return err
			}
			report, err := decomposeLink(ctx, link, rec, cfg, fitter, logger)
			if err != nil {
				return errors.Wrapf(err, "decomposing link %q into spheres", rec.link)
			}
			reports[i] = report
			return nil
		})
	}
	_, err := utils.RunInParallel(ctx, fs)
	return reports, err
}

// decomposeLink fits spheres at the nominal voxel size and refines the voxel while the fit yields at most
// one sphere. Bandwidths are rescaled on every refinement so the band keeps its world thickness.
func decomposeLink(
	ctx context.Context,
	link *referenceframe.Link,
	rec *linkRecord,
	cfg *Config,
	fitter SphereFitter,
	logger logging.Logger,
) (FitReport, error) {
	surface := linkSurface(link, rec.offset, logger)
	fit := cfg.SphereFit
	report := FitReport{Link: link.Name}
	voxel := cfg.VoxelSize
	for attempt := 0; attempt < fit.RefinementAttempts; attempt++ {
		field, err := distancefield.Build(ctx, surface, cfg.buildOptions(voxel))
		if err != nil {
			if errors.Is(err, distancefield.ErrFieldTooLarge) && rec.field != nil {
				logger.Warnw("stopping sphere refinement, the refined field is too large",
					"link", link.Name, "voxel_size", voxel, "error", err)
				break
			}
			return report, err
		}
		spheres, err := fitter.FitSpheres(ctx, field, fit.options())
		if err != nil {
			return report, err
		}
		if err := validateSpheres(link.Name, spheres); err != nil {
			return report, err
		}
		rec.field, rec.spheres = field, spheres
		report.Attempts = attempt + 1
		report.VoxelSize = voxel
		report.Spheres = len(spheres)
		logger.CDebugw(ctx, "fitted probe spheres", "link", link.Name, "attempt", report.Attempts,
			"voxel_size", voxel, "spheres", len(spheres))

		if len(spheres) > 1 || surface == nil {
			break
		}
		voxel *= fit.RefinementFactor
	}

	if report.Spheres <= 1 {
		logger.Warnw("sphere decomposition did not find more than one sphere",
			"link", link.Name, "spheres", report.Spheres, "attempts", report.Attempts, "voxel_size", report.VoxelSize)
	}
	if report.Spheres == 0 {
		logger.Warnw("link has no probe spheres and is excluded from self distance queries", "link", link.Name)
	}
	return report, nil
}

// validateSpheres rejects spheres with a negative or non-finite radius or center.
func validateSpheres(link string, spheres []distancefield.Sphere) error {
	for i, s := range spheres {
		c := s.Center
		if !(s.Radius >= 0) || math.IsInf(s.Radius, 0) || math.IsNaN(c.X+c.Y+c.Z) || math.IsInf(c.X+c.Y+c.Z, 0) {
			return errors.Errorf("sphere %d of link %q is invalid: %v", i, link, s)
		}
	}
	return nil
}
