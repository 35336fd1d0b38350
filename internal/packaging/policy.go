package packaging

// Material and flute labels used by the default policy tables.
const (
	BoxCorrugated       = "corrugated"
	FluteSingleWall     = "single wall"
	FluteDoubleWall     = "double wall"
	CushionBubbleWrap   = "bubble wrap"
	CushionExpandedFoam = "expanded foam"
)

// Policy supplies every tunable number the calculator uses. Swapping the
// policy changes the recommendation without touching the decision flow.
type Policy interface {
	// Cushion returns the clearance in mm added on each axis.
	Cushion(level FragilityLevel) int
	// Material picks the box, flute and cushioning row.
	Material(weightKG float64, level FragilityLevel) Material
	// Cost returns the rounded cost in cents for the outer volume.
	Cost(volume Volume, cushioning string) Cents
	// Sustainability scores the flute type on a 0-100 scale.
	Sustainability(flute string) int
}

// DefaultPolicy is the table-driven policy used in production.
//
//	fragility | cushion      weight > 5 kg or high | flute       | cushioning
//	high      | 30 mm        yes                   | double wall | expanded foam
//	medium    | 20 mm        no                    | single wall | bubble wrap
//	other     | 10 mm
//
//	cost  = 200 per m³ of outer volume + 50 (expanded foam) or 20 (other)
//	score = 70 (single wall) or 55 (other)
type DefaultPolicy struct {
	CushionMM        map[FragilityLevel]int
	DefaultCushionMM int

	HeavyWeightKG float64
	Protective    Material
	Standard      Material

	// RateCentsPerM3 is the board cost per m³ of outer volume, in cents.
	RateCentsPerM3        int64
	SurchargeCents        map[string]Cents
	DefaultSurchargeCents Cents

	Scores       map[string]int
	DefaultScore int
}

// NewDefaultPolicy returns the production policy tables.
func NewDefaultPolicy() *DefaultPolicy {
	return &DefaultPolicy{
		CushionMM: map[FragilityLevel]int{
			FragilityHigh:   30,
			FragilityMedium: 20,
		},
		DefaultCushionMM: 10,
		HeavyWeightKG:    5,
		Protective: Material{
			Box:        BoxCorrugated,
			Flute:      FluteDoubleWall,
			Cushioning: CushionExpandedFoam,
		},
		Standard: Material{
			Box:        BoxCorrugated,
			Flute:      FluteSingleWall,
			Cushioning: CushionBubbleWrap,
		},
		RateCentsPerM3: 200 * 100,
		SurchargeCents: map[string]Cents{
			CushionExpandedFoam: 50 * 100,
		},
		DefaultSurchargeCents: 20 * 100,
		Scores: map[string]int{
			FluteSingleWall: 70,
		},
		DefaultScore: 55,
	}
}

// Cushion looks the level up in the cushion table; unknown levels get the default.
func (p *DefaultPolicy) Cushion(level FragilityLevel) int {
	if mm, ok := p.CushionMM[level]; ok {
		return mm
	}
	return p.DefaultCushionMM
}

// Material is a two-row table: heavy or high fragility goes protective.
func (p *DefaultPolicy) Material(weightKG float64, level FragilityLevel) Material {
	if weightKG > p.HeavyWeightKG || level == FragilityHigh {
		return p.Protective
	}
	return p.Standard
}

// Cost computes rate × volume + surcharge in exact integer cents, rounding the
// volume term half-up. The surcharge is whole cents, so rounding the sum once
// and rounding only the volume term give the same result.
func (p *DefaultPolicy) Cost(volume Volume, cushioning string) Cents {
	surcharge, ok := p.SurchargeCents[cushioning]
	if !ok {
		surcharge = p.DefaultSurchargeCents
	}
	return roundHalfUp(int64(volume)*p.RateCentsPerM3, volumeDivisor) + surcharge
}

// Sustainability looks the flute up in the score table.
func (p *DefaultPolicy) Sustainability(flute string) int {
	if score, ok := p.Scores[flute]; ok {
		return score
	}
	return p.DefaultScore
}

// roundHalfUp divides num by den (both non-negative) rounding .5 up.
func roundHalfUp(num, den int64) Cents {
	return Cents((num + den/2) / den)
}

var _ Policy = (*DefaultPolicy)(nil)
