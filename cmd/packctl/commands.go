package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"packaging-backend/internal/decisionlog"
	"packaging-backend/internal/fragility"
	"packaging-backend/internal/packaging"
	"packaging-backend/internal/recommend"
	"packaging-backend/internal/shared/telemetry"
)

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "packctl",
		Short:         "Recommend shipping boxes and classify product photos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			telemetry.Configure(logLevel, "console")
			telemetry.SetOutput(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.AddCommand(newRecommendCmd(), newClassifyCmd())
	return root
}

type recommendOptions struct {
	product     packaging.ProductSpec
	fragility   string
	imagePath   string
	decisionLog string
}

type recommendOutput struct {
	recommend.PackagingResponse
	Currency   string                `json:"currency"`
	Assessment *fragility.Assessment `json:"assessment,omitempty"`
}

func newRecommendCmd() *cobra.Command {
	var opts recommendOptions
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compute a packaging recommendation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.product.LengthMM, "length", 0, "product length in mm")
	f.IntVar(&opts.product.WidthMM, "width", 0, "product width in mm")
	f.IntVar(&opts.product.HeightMM, "height", 0, "product height in mm")
	f.Float64Var(&opts.product.WeightKG, "weight", 0, "product weight in kg")
	f.StringVar(&opts.fragility, "fragility", string(packaging.FragilityLow), "declared fragility (low, medium, high)")
	f.StringVar(&opts.product.Category, "category", "general", "product category")
	f.StringVar(&opts.imagePath, "image", "", "optional JPEG/PNG photo to classify")
	f.StringVar(&opts.decisionLog, "decision-log", "", "append the decision record to this JSONL file")
	for _, name := range []string{"length", "width", "height", "weight"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runRecommend(ctx context.Context, out io.Writer, opts recommendOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.product.Fragility = packaging.FragilityLevel(opts.fragility)
	req := recommend.Request{Product: opts.product}

	if opts.imagePath != "" {
		a, err := classifyFile(opts.imagePath)
		if err != nil {
			telemetry.Warn("recommend.image_unreadable", map[string]any{
				"path":  opts.imagePath,
				"error": err.Error(),
			})
			a = fragility.Fallback()
		}
		req.Assessment = &a
	}

	svc := &recommend.Service{}
	var logger *decisionlog.Logger
	if opts.decisionLog != "" {
		sink := decisionlog.NewFileSink(opts.decisionLog)
		defer sink.Close()
		logger = decisionlog.NewLogger(sink, 1, decisionlog.DefaultWriteTimeout)
		svc.Decisions = logger
	}

	res, err := svc.Recommend(ctx, req)
	if logger != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := logger.Close(closeCtx); cerr != nil && err == nil {
			err = fmt.Errorf("flush decision log: %w", cerr)
		}
	}
	if err != nil {
		return err
	}

	return writeJSON(out, recommendOutput{
		PackagingResponse: recommend.ToResponse(res),
		Currency:          res.Packaging.Currency,
		Assessment:        res.Assessment,
	})
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <image>",
		Short: "Suggest a fragility level for a product photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := classifyFile(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), a)
		},
	}
}

// classifyFile only fails when the file cannot be opened; undecodable
// content yields the fallback assessment. classify reports the open error,
// recommend falls back.
func classifyFile(path string) (fragility.Assessment, error) {
	f, err := os.Open(path)
	if err != nil {
		return fragility.Assessment{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return fragility.Classify(f), nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
