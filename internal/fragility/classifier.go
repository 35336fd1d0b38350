package fragility

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"

	"packaging-backend/internal/packaging"
	"packaging-backend/internal/shared/telemetry"
)

// Thresholds holds the heuristic's cut-offs and per-tier confidences.
type Thresholds struct {
	ExtremeRatioAbove float64
	ExtremeRatioBelow float64
	OddRatioAbove     float64
	OddRatioBelow     float64
	ContrastStdDev    float64

	HighConfidence   float64
	MediumConfidence float64
	LowConfidence    float64

	// MaxPixels bounds decoding; larger images are rejected before decode.
	MaxPixels int
}

// DefaultThresholds returns the production heuristic table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExtremeRatioAbove: 2.5,
		ExtremeRatioBelow: 0.4,
		OddRatioAbove:     1.8,
		OddRatioBelow:     0.6,
		ContrastStdDev:    60,
		HighConfidence:    0.85,
		MediumConfidence:  0.70,
		LowConfidence:     0.60,
		MaxPixels:         64 << 20,
	}
}

// Classifier scores an image for tipping risk and surface gloss.
// It keeps no state between calls.
type Classifier struct {
	th Thresholds
}

// NewClassifier builds a classifier with the given thresholds.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{th: th}
}

var defaultClassifier = NewClassifier(DefaultThresholds())

// Classify decodes r with the default thresholds; it never fails.
func Classify(r io.Reader) Assessment {
	return defaultClassifier.Classify(r)
}

// ClassifyImage analyzes img with the default thresholds; it never fails.
func ClassifyImage(img image.Image) Assessment {
	return defaultClassifier.ClassifyImage(img)
}

// Classify is the fail-closed boundary over Decode and Analyze.
func (c *Classifier) Classify(r io.Reader) Assessment {
	img, err := c.Decode(r)
	if err != nil {
		return collapse(err)
	}
	return c.ClassifyImage(img)
}

// ClassifyImage is the fail-closed boundary over Analyze.
func (c *Classifier) ClassifyImage(img image.Image) Assessment {
	a, err := c.Analyze(img)
	if err != nil {
		return collapse(err)
	}
	return a
}

// Decode reads a JPEG or PNG. Images over MaxPixels are refused from their
// header alone.
func (c *Classifier) Decode(r io.Reader) (img image.Image, err error) {
	if r == nil {
		return nil, fail("decode", ErrNoImage)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fail("read", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fail("decode", err)
	}
	if c.th.MaxPixels > 0 && cfg.Width*cfg.Height > c.th.MaxPixels {
		return nil, fail("decode", fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height))
	}

	defer func() {
		if rec := recover(); rec != nil {
			img, err = nil, fail("decode", fmt.Errorf("decoder panic: %v", rec))
		}
	}()
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fail("decode", err)
	}
	return img, nil
}

// Analyze scores img. The error, when non-nil, is a *ClassificationFailure.
//
// Aspect ratio adds 2 (extreme) or 1 (non-standard), checked in that order so
// one image never scores both. A luminance standard deviation above the
// contrast threshold adds 1. Score 2+ is high, 1 is medium, 0 is low.
func (c *Classifier) Analyze(img image.Image) (Assessment, error) {
	if img == nil {
		return Assessment{}, fail("analyze", ErrNoImage)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return Assessment{}, fail("analyze", ErrEmptyImage)
	}

	width, height := bounds.Dx(), bounds.Dy()
	ratio := 1.0
	if height > 0 {
		ratio = float64(width) / float64(height)
	}

	var (
		score   int
		reasons []string
	)

	switch {
	case ratio > c.th.ExtremeRatioAbove || ratio < c.th.ExtremeRatioBelow:
		score += 2
		reasons = append(reasons, fmt.Sprintf("extreme aspect ratio (%.2f), tipping risk", ratio))
	case ratio > c.th.OddRatioAbove || ratio < c.th.OddRatioBelow:
		score++
		reasons = append(reasons, fmt.Sprintf("non-standard aspect ratio (%.2f)", ratio))
	}

	if LuminanceStdDev(img) > c.th.ContrastStdDev {
		score++
		reasons = append(reasons, "high-contrast surface, possible glass/gloss")
	}

	a := Assessment{Reasoning: reasons}
	switch {
	case score >= 2:
		a.SuggestedLevel = packaging.FragilityHigh
		a.Confidence = c.th.HighConfidence
	case score == 1:
		a.SuggestedLevel = packaging.FragilityMedium
		a.Confidence = c.th.MediumConfidence
	default:
		a.SuggestedLevel = packaging.FragilityLow
		a.Confidence = c.th.LowConfidence
		a.Reasoning = append(a.Reasoning, "standard shape and surface")
	}
	return a, nil
}

// LuminanceStdDev is the population standard deviation of 8-bit greyscale
// luminance (ITU-R 601 weights) over every pixel of img.
func LuminanceStdDev(img image.Image) float64 {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n <= 0 {
		return 0
	}

	var sum, sumSq uint64
	add := func(y uint8) {
		v := uint64(y)
		sum += v
		sumSq += v * v
	}

	switch src := img.(type) {
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, y):src.PixOffset(bounds.Max.X, y)]
			for _, v := range row {
				add(v)
			}
		}
	case *image.YCbCr:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				add(src.Y[src.YOffset(x, y)])
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				add(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			}
		}
	}

	count := float64(n)
	mean := float64(sum) / count
	variance := float64(sumSq)/count - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

func collapse(err error) Assessment {
	telemetry.Warn("fragility.classify_failed", map[string]any{"error": err})
	return Fallback()
}
