package force

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Centering modes for [Params.CenterMode].
const (
	// CenterCentroid nudges every node by the offset between the viewport
	// center and the centroid of all nodes. The graph as a whole stays on
	// the canvas and its shape is not distorted.
	CenterCentroid = "centroid"

	// CenterNode pulls each node toward the viewport center in proportion
	// to its own offset.
	CenterNode = "node"
)

// Params are the physical constants of the simulation.
type Params struct {
	// Damping multiplies every velocity at the start of a frame.
	Damping float64 `json:"damping" toml:"damping" validate:"gte=0,lte=1"`

	// LinkDistance is the rest length of the edge springs.
	LinkDistance float64 `json:"link_distance" toml:"link_distance" validate:"gt=0"`

	// LinkStrength is the spring coefficient.
	LinkStrength float64 `json:"link_strength" toml:"link_strength" validate:"gte=0"`

	// ChargeStrength scales pairwise forces; negative values repel.
	ChargeStrength float64 `json:"charge_strength" toml:"charge_strength" validate:"lte=0"`

	// CenterStrength scales the centering pull.
	CenterStrength float64 `json:"center_strength" toml:"center_strength" validate:"gte=0,lte=1"`

	// Alpha is the integration step size.
	Alpha float64 `json:"alpha" toml:"alpha" validate:"gt=0,lte=1"`

	// MinDistance is the lower bound on distances used by the force
	// terms, so coincident nodes never divide by zero.
	MinDistance float64 `json:"min_distance" toml:"min_distance" validate:"gt=0"`

	// CenterMode selects how centering is applied. Empty means centroid.
	CenterMode string `json:"center_mode,omitempty" toml:"center_mode" validate:"omitempty,oneof=centroid node"`

	// WeightedLinks scales each spring by its edge weight.
	WeightedLinks bool `json:"weighted_links,omitempty" toml:"weighted_links"`

	// SettleEnergy, when positive, stops the engine once the kinetic
	// energy of a frame falls below it. Zero runs until stopped.
	SettleEnergy float64 `json:"settle_energy,omitempty" toml:"settle_energy" validate:"gte=0"`
}

// DefaultParams returns the standard constants.
func DefaultParams() Params {
	return Params{
		Damping:        0.9,
		LinkDistance:   100,
		LinkStrength:   0.1,
		ChargeStrength: -300,
		CenterStrength: 0.05,
		Alpha:          0.1,
		MinDistance:    1,
		CenterMode:     CenterCentroid,
	}
}

// IsZero reports whether p is the zero value, which callers treat as
// "use DefaultParams".
func (p Params) IsZero() bool {
	return p == Params{}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that every constant is in range.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid physics parameters: %w", err)
	}
	return nil
}
