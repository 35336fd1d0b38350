package recommend

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"packaging-backend/internal/decisionlog"
	"packaging-backend/internal/fragility"
	"packaging-backend/internal/packaging"
	"packaging-backend/internal/report"
	"packaging-backend/internal/shared/metrics"
	"packaging-backend/internal/shared/storage/object"
	"packaging-backend/internal/shared/telemetry"
)

// ImageAssessor classifies a previously uploaded image.
type ImageAssessor interface {
	Assess(ctx context.Context, id string) (fragility.Assessment, error)
}

// DecisionLogger accepts decision records without blocking.
type DecisionLogger interface {
	Log(rec decisionlog.Record)
}

// Service turns product specs into packaging recommendations.
type Service struct {
	Calculator *packaging.Calculator
	Images     ImageAssessor
	Decisions  DecisionLogger
	Renderer   report.Renderer
	// Store keeps a copy of rendered reports; nil disables archiving.
	Store object.ObjectStore

	now   func() time.Time
	newID func() string
}

// Recommend resolves fragility provenance and sizes the box.
func (s *Service) Recommend(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	if !req.Product.Fragility.Known() {
		telemetry.Warn("recommendation.unknown_fragility", map[string]any{
			"fragility": req.Product.Fragility.String(),
			"sized_as":  packaging.FragilityLow.String(),
		})
	}

	assessment := req.Assessment
	if assessment == nil && req.ImageID != "" {
		assessment = s.assess(ctx, req.ImageID)
	}

	decision := fragility.ResolveAssessment(req.Product.Fragility, assessment)

	spec, err := s.calculator().Compute(req.Product)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		ID:         s.id(),
		Packaging:  spec,
		Decision:   decision,
		Assessment: assessment,
		CreatedAt:  s.clock().UTC(),
	}

	if s.Decisions != nil {
		s.Decisions.Log(DecisionRecord(req.Product, res, req.ImageID))
	}
	metrics.RecordRecommendation(decision.Source.String(), time.Since(started))
	telemetry.Info("recommendation.created", map[string]any{
		"recommendation_id": res.ID,
		"category":          req.Product.Category,
		"fragility":         req.Product.Fragility.String(),
		"fragility_source":  decision.Source.String(),
		"estimated_cost":    spec.EstimatedCost,
	})
	return res, nil
}

// Report is Recommend plus a rendered document. The document is archived
// under reports/<id> when a store is configured; archive failures are logged
// and otherwise ignored.
func (s *Service) Report(ctx context.Context, req Request) (Result, []byte, error) {
	res, err := s.Recommend(ctx, req)
	if err != nil {
		return Result{}, nil, err
	}

	renderer := s.renderer()
	var buf bytes.Buffer
	err = renderer.Render(&buf, report.Report{
		RecommendationID: res.ID,
		Product:          req.Product,
		Packaging:        res.Packaging,
		Assessment:       res.Assessment,
		Source:           res.Decision.Source,
		GeneratedAt:      res.CreatedAt,
	})
	if err != nil {
		return Result{}, nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	if s.Store != nil {
		key := "reports/" + res.ID + ".pdf"
		if _, err := s.Store.SaveWithKey(ctx, key, renderer.ContentType(), bytes.NewReader(buf.Bytes())); err != nil {
			telemetry.Warn("report.archive_failed", map[string]any{
				"recommendation_id": res.ID,
				"storage_key":       key,
				"error":             err.Error(),
			})
		}
	}
	return res, buf.Bytes(), nil
}

// assess never fails the recommendation; an unknown or unreadable image
// simply yields no suggestion.
func (s *Service) assess(ctx context.Context, imageID string) *fragility.Assessment {
	if s.Images == nil {
		return nil
	}
	a, err := s.Images.Assess(ctx, imageID)
	if err != nil {
		telemetry.Warn("recommendation.image_unavailable", map[string]any{
			"image_id": imageID,
			"error":    err.Error(),
		})
		return nil
	}
	return &a
}

func (s *Service) calculator() *packaging.Calculator {
	if s.Calculator != nil {
		return s.Calculator
	}
	return packaging.NewCalculator(packaging.NewDefaultPolicy())
}

func (s *Service) renderer() report.Renderer {
	if s.Renderer != nil {
		return s.Renderer
	}
	return report.NewPDFRenderer()
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Service) id() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}
