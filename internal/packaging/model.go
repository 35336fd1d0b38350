package packaging

// FragilityLevel is the ordinal protection tier of a product.
// Values outside the known set are legal and are treated as low.
type FragilityLevel string

const (
	FragilityLow    FragilityLevel = "low"
	FragilityMedium FragilityLevel = "medium"
	FragilityHigh   FragilityLevel = "high"
)

// Known reports whether l is one of low, medium or high.
func (l FragilityLevel) Known() bool {
	switch l {
	case FragilityLow, FragilityMedium, FragilityHigh:
		return true
	default:
		return false
	}
}

func (l FragilityLevel) String() string {
	return string(l)
}

// ProductSpec is the product a box is recommended for.
type ProductSpec struct {
	LengthMM  int            `json:"length_mm"`
	WidthMM   int            `json:"width_mm"`
	HeightMM  int            `json:"height_mm"`
	WeightKG  float64        `json:"weight_kg"`
	Category  string         `json:"category"`
	Fragility FragilityLevel `json:"fragility_level"`
}

// Dimensions returns the product's bounding box.
func (p ProductSpec) Dimensions() Dimensions {
	return Dimensions{Length: p.LengthMM, Width: p.WidthMM, Height: p.HeightMM}
}

// Dimensions is a length/width/height triple in millimetres.
type Dimensions struct {
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Grow adds mm to every axis.
func (d Dimensions) Grow(mm int) Dimensions {
	return Dimensions{Length: d.Length + mm, Width: d.Width + mm, Height: d.Height + mm}
}

// Volume returns the enclosed volume.
func (d Dimensions) Volume() Volume {
	return Volume(int64(d.Length) * int64(d.Width) * int64(d.Height))
}

// Covers reports whether d is at least as large as other on every axis.
func (d Dimensions) Covers(other Dimensions) bool {
	return d.Length >= other.Length && d.Width >= other.Width && d.Height >= other.Height
}

// Volume is a volume in cubic millimetres.
type Volume int64

// volumeDivisor converts mm³ into the volume unit the cost rates are quoted in.
// The rate table was calibrated against mm³/1e6, so that divisor is kept.
const volumeDivisor = 1_000_000

// CubicMeters returns the volume in the cost table's m³ unit.
func (v Volume) CubicMeters() float64 {
	return float64(v) / volumeDivisor
}

// Cents is a monetary amount in hundredths of the currency unit.
type Cents int64

// Amount returns c as a two-decimal currency value.
func (c Cents) Amount() float64 {
	return float64(c) / 100
}

// Material is one row of the material policy table.
type Material struct {
	Box        string `json:"box_material"`
	Flute      string `json:"flute_type"`
	Cushioning string `json:"cushioning_material"`
}

// PackagingSpec is the calculator output. All numeric fields are final.
type PackagingSpec struct {
	BoxMaterial         string     `json:"box_material"`
	FluteType           string     `json:"flute_type"`
	Cushioning          string     `json:"cushioning_material"`
	CushionMM           int        `json:"cushion_mm"`
	Inner               Dimensions `json:"inner_dimensions"`
	Outer               Dimensions `json:"outer_dimensions"`
	EstimatedCost       float64    `json:"estimated_cost"`
	Currency            string     `json:"currency"`
	SustainabilityScore int        `json:"sustainability_score"`
}
