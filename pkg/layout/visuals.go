package layout

import "github.com/matzehuels/kgforce/pkg/graph"

// BaseRadius is the radius of a node with multiplier 1.
const BaseRadius = 10.0

// DefaultColor is used for node types missing from the color table.
const DefaultColor = "#95A5A6"

var radiusScale = map[string]float64{
	graph.TypeConstitution: 1.5,
	graph.TypeSyndrome:     1.4,
	graph.TypeDisease:      1.3,
	graph.TypeFormula:      1.2,
	graph.TypeTreatment:    1.1,
	graph.TypeSymptom:      1.0,
	graph.TypeOrgan:        1.0,
	graph.TypeMeridian:     1.0,
	graph.TypePathology:    1.0,
	graph.TypeHerb:         0.8,
	graph.TypeAcupoint:     0.8,
}

var colors = map[string]string{
	graph.TypeConstitution: "#FF6B6B",
	graph.TypeSymptom:      "#4ECDC4",
	graph.TypeAcupoint:     "#45B7D1",
	graph.TypeHerb:         "#96CEB4",
	graph.TypeSyndrome:     "#FECA57",
	graph.TypeTreatment:    "#FF9FF3",
	graph.TypeFormula:      "#54A0FF",
	graph.TypeMeridian:     "#5F27CD",
	graph.TypeOrgan:        "#EE5253",
	graph.TypePathology:    "#576574",
	graph.TypeDisease:      "#C44569",
}

// RadiusFor returns the visual radius for a node type.
func RadiusFor(nodeType string) float64 {
	if s, ok := radiusScale[nodeType]; ok {
		return BaseRadius * s
	}
	return BaseRadius
}

// ColorFor returns the fill color for a node type.
func ColorFor(nodeType string) string {
	if c, ok := colors[nodeType]; ok {
		return c
	}
	return DefaultColor
}
