package projections

// Blender combines a player's averages with an opponent's defense rating.
type Blender struct {
	coefficients Coefficients
}

// NewBlender constructs a Blender with the given coefficient table.
func NewBlender(c Coefficients) Blender {
	return Blender{coefficients: c}
}

// Coefficients exposes the table in use.
func (b Blender) Coefficients() Coefficients {
	return b.coefficients
}

// Blend produces a single-game forecast. Steals and blocks ignore the opponent term.
// Outputs are not clamped and may be negative.
func (b Blender) Blend(average, opponent StatLine) StatLine {
	var out StatLine
	for i := range out {
		cat := Category(i)
		coef := b.coefficients[cat]
		v := coef.Intercept + coef.Player*average[cat]
		if !PlayerOnly(cat) {
			v += coef.Opponent * opponent[cat]
		}
		out[cat] = v
	}
	return out
}
