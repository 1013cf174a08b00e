package selfcollision

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/distancefield"
	"go.viam.com/sdfcollision/logging"
	"go.viam.com/sdfcollision/referenceframe"
	"go.viam.com/sdfcollision/spatialmath"
	"go.viam.com/sdfcollision/utils"
)

// linkSurface returns the union of the usable geometries of a link, placed by offset. Geometry that cannot
// be turned into a distance field is logged and skipped; a link left with nothing usable gets a nil
// surface and therefore an all-background field.
func linkSurface(link *referenceframe.Link, offset spatialmath.Pose, logger logging.Logger) *distancefield.Surface {
	var geometries []spatialmath.Geometry
	for i := range link.Geometry {
		gc := link.Geometry[i]
		g, err := gc.ParseConfig()
		if err != nil {
			logger.Warnw("skipping degenerate geometry", "link", link.Name, "geometry", i, "type", gc.InferType(), "error", err)
			continue
		}
		geometries = append(geometries, g.Transform(offset))
	}
	if len(geometries) == 0 {
		logger.Warnw("link has no geometry that can be voxelized, its field is all background", "link", link.Name)
		return nil
	}
	surface, err := distancefield.NewSurface(geometries)
	if err != nil {
		logger.Warnw("link geometry cannot be voxelized, its field is all background", "link", link.Name, "error", err)
		return nil
	}
	return surface
}

// buildFields builds the field of every static and dynamic link in parallel.
func buildFields(
	ctx context.Context,
	model *referenceframe.Model,
	cfg *Config,
	recs []*linkRecord,
	logger logging.Logger,
) error {
	fs := make([]utils.SimpleFunc, 0, len(recs))
	for _, rec := range recs {
		fs = append(fs, func(ctx context.Context) error {
			link, err := model.Link(rec.link)
			if err != nil {
				return err
			}
			field, err := distancefield.Build(ctx, linkSurface(link, rec.offset, logger), cfg.buildOptions(cfg.VoxelSize))
			if err != nil {
				return errors.Wrapf(err, "building distance field of link %q", rec.link)
			}
			rec.field = field
			return nil
		})
	}
	elapsed, err := utils.RunInParallel(ctx, fs)
	logger.Debugw("built distance fields", "links", len(recs), "elapsed", elapsed)
	return err
}

// FitReport describes the sphere decomposition of one active link.
type FitReport struct {
	Link      string
	Attempts  int
	VoxelSize float64
	Spheres   int
}

func (r FitReport) String() string {
	return fmt.Sprintf("%s: %d spheres after %d attempts at voxel size %g", r.Link, r.Spheres, r.Attempts, r.VoxelSize)
}
