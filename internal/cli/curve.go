package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ludb/internal/analysis"
)

// CurveOptions holds flags for the curve command.
type CurveOptions struct {
	*RootOptions
	Rate     string
	Burst    string
	Latency  string
	Segments []string // "x,y,grad" or "x,y,grad,open"
	At       []string
}

// CurveResult wraps a curve report for text output.
type CurveResult struct {
	*analysis.CurveReport
}

func (r CurveResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", r.Backend, r.Curve)
	for _, p := range r.Points {
		fmt.Fprintf(&sb, "\n  f(%s) = %s", p.X, p.Y)
	}
	return sb.String()
}

// NewCurveCommand creates the curve command.
func NewCurveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CurveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "curve <token-bucket|rate-latency|segments>",
		Short: "Evaluate an arrival or service curve",
		Long: `Build a curve with the selected backend's curve factory and
evaluate it at the given points.

Examples:
  ludb curve token-bucket --rate 5 --burst 10 --at 0,1/2,2
  ludb curve rate-latency --rate 4 --latency 3 --at 5 --backend double
  ludb curve segments --segment 0,0,1 --segment 2,2,1/2 --at 4`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{analysis.ShapeTokenBucket, analysis.ShapeRateLatency, analysis.ShapeSegments},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rate, "rate", "", "rate (token-bucket, rate-latency)")
	cmd.Flags().StringVar(&opts.Burst, "burst", "0", "burst (token-bucket)")
	cmd.Flags().StringVar(&opts.Latency, "latency", "0", "latency (rate-latency)")
	cmd.Flags().StringArrayVar(&opts.Segments, "segment", nil, `segment "x,y,grad[,open]" (segments, repeatable)`)
	cmd.Flags().StringSliceVar(&opts.At, "at", nil, "points to evaluate at")

	return cmd
}

func runCurve(opts *CurveOptions, shape string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	kind, err := opts.kind()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid backend", err)
	}

	req := analysis.CurveRequest{
		Shape:   shape,
		Rate:    opts.Rate,
		Burst:   opts.Burst,
		Latency: opts.Latency,
		At:      opts.At,
	}
	switch shape {
	case analysis.ShapeTokenBucket, analysis.ShapeRateLatency:
		if opts.Rate == "" {
			return badFlag(formatter, "--rate is required for "+shape)
		}
	case analysis.ShapeSegments:
		if len(opts.Segments) == 0 {
			return badFlag(formatter, "at least one --segment is required")
		}
		for _, s := range opts.Segments {
			seg, err := parseSegmentFlag(s)
			if err != nil {
				return badFlag(formatter, err.Error())
			}
			req.Segments = append(req.Segments, seg)
		}
	default:
		return badFlag(formatter, fmt.Sprintf("unknown curve shape %q", shape))
	}

	sess, err := analysis.Open(kind, analysis.WithLogger(opts.logger(formatter.GetErrWriter())))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open session", err)
	}
	report, err := sess.Curve(req)
	if err != nil {
		if outErr := formatter.Error(ErrCodeBadFlag, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "invalid curve", err)
	}
	if formatter.IsJSON() {
		return formatter.Success(report)
	}
	return formatter.Success(CurveResult{report})
}

func parseSegmentFlag(s string) (analysis.SegmentSpec, error) {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) == 3:
		return analysis.SegmentSpec{X: parts[0], Y: parts[1], Grad: parts[2]}, nil
	case len(parts) == 4 && parts[3] == "open":
		return analysis.SegmentSpec{X: parts[0], Y: parts[1], Grad: parts[2], LeftOpen: true}, nil
	default:
		return analysis.SegmentSpec{}, fmt.Errorf("invalid segment %q: want x,y,grad or x,y,grad,open", s)
	}
}

func badFlag(formatter *OutputFormatter, message string) error {
	if err := formatter.Error(ErrCodeBadFlag, message, nil); err != nil {
		return err
	}
	return NewExitError(ExitCommandError, message)
}
