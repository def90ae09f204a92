// Package preprocess holds the stateful preprocessing session for a causal
// dataset: categorical encoding, batch discretization and the
// treatment/churn label derivations, all as copy-based table transforms.
package preprocess

import (
	"math"
	"sort"

	"causalprep/domain/core"
	"causalprep/domain/table"
	"causalprep/internal/binning"
	"causalprep/internal/errors"
	"causalprep/internal/logging"
)

// Options configures a preprocessing session
type Options struct {
	// Strict makes BatchDiscretize fail on a missing column instead of
	// skipping it with a warning.
	Strict bool
	// Seed controls k-means initialization (zero keeps the deterministic
	// midpoint policy).
	Seed int64
}

// Session owns the accumulating fitted-artifact state of one preprocessing
// run: label encoders and discretization results keyed by column name, so
// future data can be encoded consistently with the original fit. A Session
// is owned by a single caller; it is not safe for concurrent use without
// external synchronization.
type Session struct {
	id       core.SessionID
	log      *logging.Logger
	disc     *binning.Discretizer
	strict   bool
	encoders map[string]*LabelEncoder
	fitted   map[string]*binning.Result
}

// NewSession creates a preprocessing session
func NewSession(log *logging.Logger, opts Options) *Session {
	if log == nil {
		log = logging.DefaultLogger
	}
	disc := binning.NewDiscretizer()
	disc.Seed = opts.Seed
	return &Session{
		id:       core.SessionID(core.NewID()),
		log:      log,
		disc:     disc,
		strict:   opts.Strict,
		encoders: make(map[string]*LabelEncoder),
		fitted:   make(map[string]*binning.Result),
	}
}

// ID returns the session identifier
func (s *Session) ID() core.SessionID {
	return s.id
}

// Encoders returns the accumulated label encoders keyed by column name
func (s *Session) Encoders() map[string]*LabelEncoder {
	return s.encoders
}

// Fitted returns the accumulated discretization results keyed by column name
func (s *Session) Fitted() map[string]*binning.Result {
	return s.fitted
}

// LabelEncodeNonNumeric encodes every categorical column of the table to
// ordinal codes, returning a new snapshot and the encoder registry. Fitted
// encoders accumulate on the session across calls.
func (s *Session) LabelEncodeNonNumeric(tbl *table.Table) (*table.Table, map[string]*LabelEncoder, error) {
	out := tbl.Clone()

	for _, name := range tbl.CategoricalNames() {
		col, _ := tbl.Column(name)
		enc, codes := FitTransform(col.Strings())
		s.encoders[name] = enc

		var err error
		out, err = out.WithColumn(name, table.NewNumericColumn(codes))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "encoding column %q", name)
		}
		s.log.Debug("label-encoded column %q (%d classes)", name, len(enc.Classes()))
	}

	return out, s.encoders, nil
}

// BatchDiscretize applies a per-feature discretization configuration,
// overwriting each listed column with its bucket ids in a new table
// snapshot. Unlisted columns pass through unchanged. Missing column names
// are skipped with a warning in lenient mode and fail with MISSING_COLUMN
// in strict mode. Fitted results accumulate on the session.
func (s *Session) BatchDiscretize(tbl *table.Table, config map[string]binning.Spec) (*table.Table, error) {
	out := tbl.Clone()

	// Deterministic application order regardless of map iteration
	names := make([]string, 0, len(config))
	for name := range config {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := config[name]

		col, ok := tbl.Column(name)
		if !ok {
			if s.strict {
				return nil, errors.MissingColumn(name)
			}
			s.log.Warn("skipping discretization of %q: column not found", name)
			continue
		}
		if col.Kind() != table.Numeric {
			return nil, errors.InvalidConfiguration("cannot discretize non-numeric column " + name)
		}

		result, err := s.disc.Discretize(col.Floats(), spec)
		if err != nil {
			return nil, errors.Wrapf(err, "discretizing column %q", name)
		}
		s.fitted[name] = result

		out, err = out.WithColumn(name, table.NewNumericColumn(bucketsToFloats(result.Buckets)))
		if err != nil {
			return nil, errors.Wrapf(err, "replacing column %q", name)
		}
		s.log.Info("discretized feature %q using method %q (%d bins)", name, spec.Method, result.Bins)
	}

	return out, nil
}

// DeriveTreatment computes the treatment label from the rate movement:
// Treatment = sign(ACR - Rate_Lag), so 1 marks a rate increase, -1 a
// decrease and 0 no change. The source columns are dropped from the result.
func (s *Session) DeriveTreatment(tbl *table.Table) (*table.Table, error) {
	acr, ok := tbl.Column("ACR")
	if !ok {
		return nil, errors.MissingColumn("ACR")
	}
	lag, ok := tbl.Column("Rate_Lag")
	if !ok {
		return nil, errors.MissingColumn("Rate_Lag")
	}
	if acr.Kind() != table.Numeric || lag.Kind() != table.Numeric {
		return nil, errors.InvalidConfiguration("ACR and Rate_Lag must be numeric columns")
	}

	treatment := make([]float64, acr.Len())
	for i := range treatment {
		diff := acr.Float(i) - lag.Float(i)
		switch {
		case math.IsNaN(diff):
			treatment[i] = math.NaN()
		case diff > 0:
			treatment[i] = 1
		case diff < 0:
			treatment[i] = -1
		default:
			treatment[i] = 0
		}
	}

	out, err := tbl.WithColumn("Treatment", table.NewNumericColumn(treatment))
	if err != nil {
		return nil, errors.Wrap(err, "adding Treatment column")
	}
	return out.Without("ACR", "Rate_Lag"), nil
}

// DeriveChurn computes the binary churn outcome: Churn = 1 when ChurnRate is
// positive, 0 otherwise. ChurnRate and the membership bookkeeping columns
// are dropped from the result.
func (s *Session) DeriveChurn(tbl *table.Table) (*table.Table, error) {
	rate, ok := tbl.Column("ChurnRate")
	if !ok {
		return nil, errors.MissingColumn("ChurnRate")
	}
	if rate.Kind() != table.Numeric {
		return nil, errors.InvalidConfiguration("ChurnRate must be a numeric column")
	}

	churn := make([]float64, rate.Len())
	for i := range churn {
		v := rate.Float(i)
		switch {
		case math.IsNaN(v):
			churn[i] = math.NaN()
		case v > 0:
			churn[i] = 1
		default:
			churn[i] = 0
		}
	}

	out, err := tbl.WithColumn("Churn", table.NewNumericColumn(churn))
	if err != nil {
		return nil, errors.Wrap(err, "adding Churn column")
	}
	return out.Without("ChurnRate", "Members", "Members_Lag"), nil
}

// bucketsToFloats widens bucket ids into a numeric column, turning the
// missing marker back into NaN
func bucketsToFloats(buckets []int) []float64 {
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		if b == binning.MissingBucket {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(b)
	}
	return out
}
