package force

import "math"

// Default force parameters.
const (
	DefaultChargeStrength = -30.0
	DefaultLinkStrength   = 1.0
	DefaultLinkDistance   = 50.0
	DefaultCollideRadius  = 20.0
)

// Parameter bounds. Values outside these ranges are clamped before they reach
// the integrator so the layout cannot diverge.
const (
	MinChargeStrength = -1000.0
	MaxChargeStrength = 1000.0
	MinLinkStrength   = 0.0
	MaxLinkStrength   = 2.0
	MinLinkDistance   = 0.0
	MaxLinkDistance   = 1000.0
	MinCollideRadius  = 0.0
	MaxCollideRadius  = 500.0
)

// Params holds the runtime-adjustable force coefficients.
type Params struct {
	ChargeStrength float64 `json:"charge_strength" yaml:"charge_strength"`
	LinkStrength   float64 `json:"link_strength" yaml:"link_strength"`
	LinkDistance   float64 `json:"link_distance" yaml:"link_distance"`
	CollideRadius  float64 `json:"collide_radius" yaml:"collide_radius"`
}

// DefaultParams returns the stock force configuration.
func DefaultParams() Params {
	return Params{
		ChargeStrength: DefaultChargeStrength,
		LinkStrength:   DefaultLinkStrength,
		LinkDistance:   DefaultLinkDistance,
		CollideRadius:  DefaultCollideRadius,
	}
}

// Clamp returns a copy with every field forced into its valid range.
// Non-finite values fall back to the default for that field.
func (p Params) Clamp() Params {
	return Params{
		ChargeStrength: clamp(p.ChargeStrength, MinChargeStrength, MaxChargeStrength, DefaultChargeStrength),
		LinkStrength:   clamp(p.LinkStrength, MinLinkStrength, MaxLinkStrength, DefaultLinkStrength),
		LinkDistance:   clamp(p.LinkDistance, MinLinkDistance, MaxLinkDistance, DefaultLinkDistance),
		CollideRadius:  clamp(p.CollideRadius, MinCollideRadius, MaxCollideRadius, DefaultCollideRadius),
	}
}

func clamp(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return math.Max(lo, math.Min(hi, v))
}
