package polyfit

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aouyang1/go-polyfit/dataset"
)

// Model represents a serializeable format of an experiment storing the options and the
// per degree coefficients and scores
type Model struct {
	Options *Options `json:"options"`
	Results *Results `json:"results"`
}

// TablePrint writes a human readable report of the model. Every line starts with prefix and
// nested sections are indented by indent.
func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sPolynomial Fit:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}

	if m.Options != nil {
		if _, err := fmt.Fprintf(w, "%s%sSeed: %d    Solver: %s\n",
			prefix, indentExpand(indent, 1),
			m.Options.Seed, m.Options.Solver,
		); err != nil {
			return err
		}
		if err := tablePrintSamples(w, prefix, indent, 1, m.Options); err != nil {
			return err
		}
	}

	if m.Results == nil {
		return nil
	}
	if err := m.Results.tablePrint(w, prefix, indent, 0); err != nil {
		return err
	}

	// nothing to recommend when every degree was skipped
	if best, err := m.Results.BestDegree(); err == nil {
		if _, err := fmt.Fprintf(w, "%s%sBest Degree: %d\n", prefix, indentExpand(indent, 0), best); err != nil {
			return err
		}
	}
	return nil
}

func tablePrintSamples(w io.Writer, prefix, indent string, indentGrowth int, opt *Options) error {
	if _, err := fmt.Fprintf(w, "%s%sSamples:\n", prefix, indentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sSet\tCount\tInterval\tNoise\t\n", prefix, indentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	sets := []struct {
		name string
		opt  *dataset.Options
	}{
		{"Training", opt.Training},
		{"Validation", opt.Validation},
		{"Extrapolation", opt.Extrapolation},
	}
	for _, set := range sets {
		if set.opt == nil {
			continue
		}
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%d\t[%.3f, %.3f]\t%.3f\t\n",
			prefix, indentExpand(indent, indentGrowth+1),
			set.name, set.opt.N, set.opt.Interval.Min, set.opt.Interval.Max, set.opt.StdDev,
		); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func (r *Results) tablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, indentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sDegree\tTraining MSE\tValidation MSE\tExtrapolation MSE\tEquation\t\n",
		prefix, indentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	for _, dr := range r.Degrees {
		eq, err := dr.Coef.Equation()
		if err != nil {
			return fmt.Errorf("unable to print degree %d, %w", dr.Degree, err)
		}
		if _, err := fmt.Fprintf(tbl, "%s%s%d\t%s\t%s\t%s\t%s\t\n",
			prefix, indentExpand(indent, indentGrowth+1),
			dr.Degree,
			formatMSE(dr.Training), formatMSE(dr.Validation), formatMSE(dr.Extrapolation),
			eq,
		); err != nil {
			return err
		}
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if len(r.Skipped) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%sSkipped:\n", prefix, indentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	for _, s := range r.Skipped {
		if _, err := fmt.Fprintf(w, "%s%sDegree %d: %s\n",
			prefix, indentExpand(indent, indentGrowth+1), s.Degree, s.Reason); err != nil {
			return err
		}
	}
	return nil
}
