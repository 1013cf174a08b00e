package selfcollision

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sdfcollision/distancefield"
	"go.viam.com/sdfcollision/utils"
)

// SphereFitConfig controls the probe sphere decomposition of active links. Radii are in voxels.
type SphereFitConfig struct {
	MaxSpheres         int     `json:"max_spheres"`
	Overlapping        bool    `json:"overlapping"`
	MinRadius          float64 `json:"min_radius"`
	MaxRadius          float64 `json:"max_radius"`
	IsoValue           float64 `json:"iso_value"`
	MaxInstances       int     `json:"max_instances"`
	RefinementAttempts int     `json:"refinement_attempts"`
	RefinementFactor   float64 `json:"refinement_factor"`
}

// Config describes the fields built for every link. Lengths are in meters, bandwidths in voxels.
type Config struct {
	VoxelSize         float64         `json:"voxel_size"`
	Background        float64         `json:"background"`
	ExteriorBandwidth float64         `json:"exterior_bandwidth"`
	InteriorBandwidth float64         `json:"interior_bandwidth"`
	MaxVoxelsPerField int64           `json:"max_voxels_per_field,omitempty"`
	SphereFit         SphereFitConfig `json:"sphere_fit"`
}

// DefaultSphereFitConfig returns the default decomposition parameters.
func DefaultSphereFitConfig() SphereFitConfig {
	return SphereFitConfig{
		MaxSpheres:         20,
		Overlapping:        true,
		MinRadius:          1.0,
		MaxRadius:          math.MaxFloat32,
		IsoValue:           0.0,
		MaxInstances:       100000,
		RefinementAttempts: 10,
		RefinementFactor:   0.5,
	}
}

// DefaultConfig returns a config with a 1cm voxel and a 20cm background.
func DefaultConfig() Config {
	return Config{
		VoxelSize:         0.01,
		Background:        0.2,
		ExteriorBandwidth: 3,
		InteriorBandwidth: 3,
		MaxVoxelsPerField: distancefield.DefaultMaxVoxels,
		SphereFit:         DefaultSphereFitConfig(),
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var errs error
	if !(cfg.VoxelSize > 0) {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldPositiveError(path, "voxel_size", cfg.VoxelSize))
	}
	if !(cfg.Background > 0) {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldPositiveError(path, "background", cfg.Background))
	}
	if cfg.ExteriorBandwidth < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.New(`"exterior_bandwidth" must not be negative`)))
	}
	if cfg.InteriorBandwidth < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.New(`"interior_bandwidth" must not be negative`)))
	}
	if cfg.MaxVoxelsPerField < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.New(`"max_voxels_per_field" must not be negative`)))
	}

	fit := cfg.SphereFit
	fitPath := path + ".sphere_fit"
	if fit.MaxSpheres <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldPositiveError(fitPath, "max_spheres", float64(fit.MaxSpheres)))
	}
	if fit.MaxInstances <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldPositiveError(fitPath, "max_instances", float64(fit.MaxInstances)))
	}
	if fit.RefinementAttempts <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldPositiveError(fitPath, "refinement_attempts", float64(fit.RefinementAttempts)))
	}
	if !(fit.RefinementFactor > 0 && fit.RefinementFactor < 1) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(fitPath,
			errors.Errorf(`"refinement_factor" must be between 0 and 1, got %v`, fit.RefinementFactor)))
	}
	if fit.MinRadius < 0 || fit.MaxRadius < fit.MinRadius {
		errs = multierr.Append(errs, utils.NewConfigValidationError(fitPath,
			errors.Errorf(`radius bounds [%v, %v] are invalid`, fit.MinRadius, fit.MaxRadius)))
	}
	return errs
}

// ReadConfigFile reads a JSON config. Fields that are not present keep their default.
func ReadConfigFile(filename string) (Config, error) {
	cfg := DefaultConfig()
	//nolint:gosec
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config file")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to unmarshal config file")
	}
	return cfg, nil
}

func (cfg *Config) buildOptions(voxelSize float64) distancefield.BuildOptions {
	scale := cfg.VoxelSize / voxelSize
	return distancefield.BuildOptions{
		VoxelSize:         voxelSize,
		Background:        cfg.Background,
		ExteriorBandwidth: cfg.ExteriorBandwidth * scale,
		InteriorBandwidth: cfg.InteriorBandwidth * scale,
		MaxVoxels:         cfg.MaxVoxelsPerField,
	}
}

func (fit SphereFitConfig) options() distancefield.SphereFitOptions {
	return distancefield.SphereFitOptions{
		MaxSpheres:   fit.MaxSpheres,
		Overlapping:  fit.Overlapping,
		MinRadius:    fit.MinRadius,
		MaxRadius:    fit.MaxRadius,
		IsoValue:     fit.IsoValue,
		MaxInstances: fit.MaxInstances,
	}
}
