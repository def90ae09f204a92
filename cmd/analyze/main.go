// Command analyze runs the feature discretization analysis over a tabular
// dataset: it inspects every numeric feature, writes the report and
// distribution plots, and optionally applies a batch discretization
// configuration, saving the transformed dataset.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"causalprep/adapters/excel"
	"causalprep/adapters/plot"
	"causalprep/domain/table"
	"causalprep/internal/binning"
	"causalprep/internal/config"
	"causalprep/internal/errors"
	"causalprep/internal/inspect"
	"causalprep/internal/logging"
	"causalprep/internal/preprocess"
	"causalprep/internal/report"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewDefaultLogger()
	if err := run(cfg, logger); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	tbl, err := excel.NewDataReader(cfg.Data.File).ReadTable()
	if err != nil {
		return err
	}

	// The inspection report goes both to the log and to the saved artifact
	rep := report.NewReport("Feature Discretization Analysis")
	sink := logging.MultiLineWriter{rep, logger.Lines()}

	analyzer := inspect.NewAnalyzer(tbl, sink)
	if err := analyzer.InspectFeatures(); err != nil {
		return err
	}

	// Demonstrate the strategies on the first feature worth discretizing
	for _, name := range tbl.NumericNames() {
		analysis := analyzer.Results()[name]
		if analysis == nil || !analysis.NeedsDiscretization {
			continue
		}
		if err := analyzer.DemonstrateMethods(name, analysis.RecommendedBins); err != nil {
			return err
		}
		break
	}

	writer, err := report.NewWriter(cfg.Output.Dir, logger)
	if err != nil {
		return err
	}
	if _, _, err := writer.Save(rep, "feature_inspection"); err != nil {
		return err
	}

	if cfg.Output.WritePlots {
		renderer, err := plot.NewRenderer(cfg.Output.Dir, logger)
		if err != nil {
			return err
		}
		if _, err := renderer.RenderDistributions(tbl, nil); err != nil {
			return err
		}
	}

	if cfg.Binning.ConfigFile != "" {
		return runBatch(cfg, logger, tbl)
	}
	return nil
}

// runBatch applies the JSON batch configuration and saves the transformed
// dataset next to the report artifacts
func runBatch(cfg *config.Config, logger *logging.Logger, tbl *table.Table) error {
	specs, err := loadBinningConfig(cfg.Binning.ConfigFile)
	if err != nil {
		return err
	}

	session := preprocess.NewSession(logger, preprocess.Options{
		Strict: cfg.Binning.StrictBatch,
		Seed:   cfg.Binning.Seed,
	})

	// Encode categoricals first so the saved dataset is fully numeric
	encoded, _, err := session.LabelEncodeNonNumeric(tbl)
	if err != nil {
		return err
	}

	out, err := session.BatchDiscretize(encoded, specs)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("discretized_%s.csv", time.Now().Format("20060102_150405")))
	if err := excel.WriteCSV(out, path); err != nil {
		return err
	}
	logger.Info("discretized dataset saved to %s", path)
	return nil
}

// featureConfig is the on-disk shape of one batch entry
type featureConfig struct {
	Method     string    `json:"method"`
	NBins      int       `json:"n_bins"`
	CustomBins []float64 `json:"custom_bins"`
}

// loadBinningConfig reads the feature-name -> strategy mapping from JSON
func loadBinningConfig(path string) (map[string]binning.Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading binning config %s", path)
	}

	var parsed map[string]featureConfig
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrapf(err, "parsing binning config %s", path)
	}

	specs := make(map[string]binning.Spec, len(parsed))
	for name, fc := range parsed {
		method, err := binning.ParseMethod(fc.Method)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %q", name)
		}
		specs[name] = binning.Spec{
			Method:      method,
			Bins:        fc.NBins,
			CustomEdges: fc.CustomBins,
		}
	}
	return specs, nil
}
