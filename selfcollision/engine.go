// Package selfcollision computes the minimum self separation of an articulated body from per-link
// narrow-band signed distance fields. Links with geometry are split into static, active and dynamic
// links; the probe spheres of every active link are evaluated against the fields of the links it
// may collide with.
package selfcollision

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/distancefield"
	"go.viam.com/sdfcollision/logging"
	"go.viam.com/sdfcollision/referenceframe"
	"go.viam.com/sdfcollision/spatialmath"
)

// backgroundEpsilon is how close to the background a sampled value must be to count as outside the band.
const backgroundEpsilon = 1e-5

type engineOptions struct {
	acm     *AllowedCollisionMatrix
	allowed []referenceframe.DisabledCollision
	fitter  SphereFitter
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithAllowedCollisionMatrix replaces the default matrix built from the model.
func WithAllowedCollisionMatrix(acm *AllowedCollisionMatrix) Option {
	return func(o *engineOptions) {
		o.acm = acm
	}
}

// WithAllowedCollisions marks additional pairs as allowed to collide.
func WithAllowedCollisions(pairs ...referenceframe.DisabledCollision) Option {
	return func(o *engineOptions) {
		o.allowed = append(o.allowed, pairs...)
	}
}

// WithSphereFitter replaces the probe sphere fitter.
func WithSphereFitter(fitter SphereFitter) Option {
	return func(o *engineOptions) {
		o.fitter = fitter
	}
}

// Engine answers self distance queries for one model. It is immutable once built and safe for
// concurrent use.
type Engine struct {
	model   *referenceframe.Model
	cfg     Config
	logger  logging.Logger
	acm     *AllowedCollisionMatrix
	recs    records
	refs    map[string]LinkRef
	queries []queryRecord
	reports []FitReport
}

// NewEngine classifies the links of the model, builds their distance fields and probe spheres, and plans
// the queries.
func NewEngine(
	ctx context.Context,
	model *referenceframe.Model,
	cfg Config,
	logger logging.Logger,
	opts ...Option,
) (*Engine, error) {
	if model == nil {
		return nil, newConfigurationError(referenceframe.ErrNoModelInformation)
	}
	if err := cfg.Validate("self_collision"); err != nil {
		return nil, newConfigurationError(err)
	}
	options := engineOptions{fitter: DefaultSphereFitter}
	for _, opt := range opts {
		opt(&options)
	}

	e := &Engine{model: model, cfg: cfg, logger: logger, refs: map[string]LinkRef{}}
	c := classifyLinks(model, logger)
	e.recs[Static], e.recs[Active], e.recs[Dynamic] = c.static, c.active, c.dynamic
	for cat, recs := range e.recs {
		for i, rec := range recs {
			e.refs[rec.link] = LinkRef{Category(cat), i}
		}
	}

	fixed := append(append([]*linkRecord{}, e.recs[Static]...), e.recs[Dynamic]...)
	if err := buildFields(ctx, model, &e.cfg, fixed, logger); err != nil {
		return nil, err
	}
	reports, err := decompose(ctx, model, &e.cfg, options.fitter, e.recs[Active], logger)
	if err != nil {
		return nil, err
	}
	e.reports = reports

	if options.acm != nil {
		e.acm = options.acm.clone()
	} else {
		e.acm = DefaultAllowedCollisionMatrix(model)
	}
	for _, pair := range options.allowed {
		e.acm.SetEntry(pair.Link1, pair.Link2, Always)
	}
	e.queries = planQueries(&e.recs, e.acm)

	logger.Infow("self collision engine ready",
		"model", model.Name(),
		"static", len(e.recs[Static]),
		"active", len(e.recs[Active]),
		"dynamic", len(e.recs[Dynamic]),
		"voxel_size", cfg.VoxelSize,
		"mem_usage", e.MemUsage(),
	)
	return e, nil
}

// Model returns the model the engine was built for.
func (e *Engine) Model() *referenceframe.Model {
	return e.model
}

// Config returns the engine config.
func (e *Engine) Config() Config {
	return e.cfg
}

// Links returns the links of a category in query order.
func (e *Engine) Links(cat Category) []string {
	if cat < Static || cat > Dynamic {
		return nil
	}
	names := make([]string, 0, len(e.recs[cat]))
	for _, rec := range e.recs[cat] {
		names = append(names, rec.link)
	}
	return names
}

// Category returns the category of a link with geometry.
func (e *Engine) Category(link string) (Category, bool) {
	ref, ok := e.refs[link]
	return ref.Category, ok
}

// LinkInfos describes every link with geometry, static links first.
func (e *Engine) LinkInfos() []LinkInfo {
	var infos []LinkInfo
	for cat, recs := range e.recs {
		for _, rec := range recs {
			infos = append(infos, newLinkInfo(e.model, rec, Category(cat)))
		}
	}
	return infos
}

// Spheres returns the probe spheres of an active link, in the link frame.
func (e *Engine) Spheres(link string) []distancefield.Sphere {
	ref, ok := e.refs[link]
	if !ok || ref.Category != Active {
		return nil
	}
	return append([]distancefield.Sphere{}, e.recs.get(ref).spheres...)
}

// FitReports returns the sphere decomposition report of every active link.
func (e *Engine) FitReports() []FitReport {
	return append([]FitReport{}, e.reports...)
}

// AllowedCollisionMatrix returns a copy of the matrix the queries were planned with.
func (e *Engine) AllowedCollisionMatrix() *AllowedCollisionMatrix {
	return e.acm.clone()
}

// MemUsage returns the number of bytes held by the distance fields.
func (e *Engine) MemUsage() int64 {
	var total int64
	for _, recs := range e.recs {
		for _, rec := range recs {
			if rec.field != nil {
				total += rec.field.MemUsage()
			}
		}
	}
	return total
}

// queryState is the per call working state derived from a body state.
type queryState struct {
	spheres [][]distancefield.Sphere
	maps    [3][]*distancefield.IndexMap
}

func (e *Engine) newQueryState(state referenceframe.BodyState) (*queryState, error) {
	qs := &queryState{spheres: make([][]distancefield.Sphere, len(e.recs[Active]))}
	for i, rec := range e.recs[Active] {
		pose, err := state.LinkTransform(rec.link)
		if err != nil {
			return nil, err
		}
		m := spatialmath.PoseToMat4(pose)
		world := make([]distancefield.Sphere, len(rec.spheres))
		for k, s := range rec.spheres {
			world[k] = distancefield.Sphere{Center: spatialmath.TransformMat4Point(m, s.Center), Radius: s.Radius}
		}
		qs.spheres[i] = world
		qs.maps[Active] = append(qs.maps[Active], distancefield.NewIndexMap(rec.field.VoxelSize(), m.Transpose()))
	}
	for _, rec := range e.recs[Dynamic] {
		pose, err := state.LinkTransform(rec.link)
		if err != nil {
			return nil, err
		}
		qs.maps[Dynamic] = append(qs.maps[Dynamic],
			distancefield.NewIndexMap(rec.field.VoxelSize(), spatialmath.PoseToAffineMat4(pose)))
	}
	for _, rec := range e.recs[Static] {
		qs.maps[Static] = append(qs.maps[Static], distancefield.NewScaleMap(rec.field.VoxelSize()))
	}
	return qs, nil
}

// DistanceSelf returns the minimum self distance of the body in the given state. Static fields are baked
// in the root frame, so the root link is expected at the world origin.
func (e *Engine) DistanceSelf(
	ctx context.Context,
	req DistanceRequest,
	state referenceframe.BodyState,
) (*DistanceResult, error) {
	var include map[string]bool
	switch {
	case req.Group != "":
		if _, err := e.model.Group(req.Group); err != nil {
			return nil, newUnknownGroupError(req.Group, err)
		}
		if req.ActiveComponentsOnly {
			updated, err := e.model.UpdatedLinks(req.Group)
			if err != nil {
				return nil, newUnknownGroupError(req.Group, err)
			}
			include = make(map[string]bool, len(updated))
			for _, name := range updated {
				include[name] = true
			}
		}
	case req.ActiveComponentsOnly:
		return nil, newConfigurationError(errors.New("restricting a query to active components requires a group"))
	}
	if state == nil {
		return nil, newConfigurationError(errors.New("no body state to compute a self distance for"))
	}

	qs, err := e.newQueryState(state)
	if err != nil {
		return nil, err
	}

	background := e.cfg.Background
	res := &DistanceResult{}
	for _, q := range e.queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if q.empty || (include != nil && !include[q.parent]) {
			continue
		}
		res.Entries = append(res.Entries, e.evaluate(q, qs, req.Gradient))
	}
	if len(res.Entries) == 0 {
		return nil, ErrNoDistanceRecords
	}

	res.Minimum = res.Entries[0]
	best := background
	for _, entry := range res.Entries {
		if entry.MinDistance < best {
			best = entry.MinDistance
			res.Minimum = entry
		}
	}
	e.logger.CDebugw(ctx, "self distance", "group", req.Group, "entries", len(res.Entries), "minimum", res.Minimum.String())
	return res, nil
}

// evaluate scans the candidates of one record.
func (e *Engine) evaluate(q queryRecord, qs *queryState, withGradient bool) DistanceResultsData {
	background := e.cfg.Background
	entry := DistanceResultsData{MinDistance: background, LinkNames: [2]string{q.parent, ""}}
	spheres := qs.spheres[q.parentRef.Index]

	var sum r3.Vector
	var totalWeight float64
	for _, c := range q.candidates {
		field := e.recs.get(c.ref).field
		m := qs.maps[c.ref.Category][c.ref.Index]

		childMin := math.Inf(1)
		var minCoord distancefield.Coord
		for _, s := range spheres {
			coord := m.WorldToIndexNodeCentered(s.Center)
			v := field.Value(coord)
			if field.IsBackground(v, backgroundEpsilon) {
				continue
			}
			if d := float64(v) - s.Radius; d < childMin {
				childMin = d
				minCoord = coord
			}
		}
		if math.IsInf(childMin, 1) {
			continue
		}
		if childMin < entry.MinDistance {
			entry.MinDistance = childMin
			entry.LinkNames[1] = c.link
		}

		if !withGradient {
			continue
		}
		g := field.Gradient(minCoord)
		if g == (r3.Vector{}) {
			continue
		}
		world := m.ApplyIJT(g)
		n := world.Norm()
		if n == 0 || math.IsNaN(n) {
			continue
		}
		weight := background - childMin
		sum = sum.Add(world.Mul(weight / n))
		totalWeight += weight
	}

	if totalWeight > 0 {
		g := sum.Mul(1 / totalWeight)
		if n := g.Norm(); n > 0 {
			entry.Gradient = g.Mul(1 / n)
			entry.HasGradient = true
		}
	}
	return entry
}
