package layout

import "math"

// Params tunes the simulation. Zero fields fall back to DefaultParams.
type Params struct {
	LinkDistance   float64 `yaml:"link_distance" json:"linkDistance"`
	ChargeStrength float64 `yaml:"charge_strength" json:"chargeStrength"`
	CollideRadius  float64 `yaml:"collide_radius" json:"collideRadius"`
	CenterStrength float64 `yaml:"center_strength" json:"centerStrength"`
	AlphaMin       float64 `yaml:"alpha_min" json:"alphaMin"`
	AlphaDecay     float64 `yaml:"alpha_decay" json:"alphaDecay"`
	VelocityDecay  float64 `yaml:"velocity_decay" json:"velocityDecay"`
	ReheatTarget   float64 `yaml:"reheat_target" json:"reheatTarget"`
	Seed           int64   `yaml:"seed" json:"seed"`
}

// decayTicks is how many ticks alpha takes to fall from 1 to AlphaMin
const decayTicks = 300

// DefaultParams returns the stock layout: springs of 80, repulsion of 200 and
// collision radius 30
func DefaultParams() Params {
	p := Params{
		LinkDistance:   80,
		ChargeStrength: -200,
		CollideRadius:  30,
		CenterStrength: 1,
		AlphaMin:       0.001,
		VelocityDecay:  0.4,
		ReheatTarget:   0.3,
		Seed:           1,
	}
	p.AlphaDecay = 1 - math.Pow(p.AlphaMin, 1.0/decayTicks)
	return p
}

// WithDefaults fills zero fields from DefaultParams
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.LinkDistance <= 0 {
		p.LinkDistance = d.LinkDistance
	}
	if p.ChargeStrength == 0 {
		p.ChargeStrength = d.ChargeStrength
	}
	if p.CollideRadius <= 0 {
		p.CollideRadius = d.CollideRadius
	}
	if p.CenterStrength <= 0 {
		p.CenterStrength = d.CenterStrength
	}
	if p.AlphaMin <= 0 {
		p.AlphaMin = d.AlphaMin
	}
	if p.AlphaDecay <= 0 || p.AlphaDecay >= 1 {
		p.AlphaDecay = 1 - math.Pow(p.AlphaMin, 1.0/decayTicks)
	}
	if p.VelocityDecay <= 0 || p.VelocityDecay >= 1 {
		p.VelocityDecay = d.VelocityDecay
	}
	if p.ReheatTarget <= 0 {
		p.ReheatTarget = d.ReheatTarget
	}
	if p.Seed == 0 {
		p.Seed = d.Seed
	}
	return p
}
