package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/antmaze/config"
)

type options struct {
	configPath string
	outputDir  string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 0, "Simulation ticks per run (0 = optimize.ticks from config)")
	flag.IntVar(&opts.seeds, "seeds", 0, "Number of seeds per evaluation (0 = optimize.seeds from config)")
	flag.IntVar(&opts.maxEvals, "max-evals", 0, "Maximum number of evaluations (0 = optimize.max_evals from config)")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return errors.New("--output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.maxTicks == 0 {
		opts.maxTicks = baseCfg.Optimize.Ticks
	}
	if opts.seeds == 0 {
		opts.seeds = baseCfg.Optimize.Seeds
	}
	if opts.maxEvals == 0 {
		opts.maxEvals = baseCfg.Optimize.MaxEvals
	}

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(opts.maxTicks), seeds, baseCfg)

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	tr := &tracker{
		params:    params,
		evaluator: evaluator,
		log:       logFile,
		maxEvals:  opts.maxEvals,
		best:      1e9,
		start:     time.Now(),
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	fmt.Printf("CMA-ES over %d parameters, population=%d, max_evals=%d, seeds=%d, ticks=%d\n",
		params.Dim(), popSize, opts.maxEvals, opts.seeds, opts.maxTicks)

	// Evaluations run one at a time; each one fans its seeds out itself.
	result, err := optimize.Minimize(
		optimize.Problem{Func: tr.objective},
		params.Normalize(params.ExtractFromConfig(baseCfg)),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	bestParams := tr.bestParams
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return errors.New("no evaluation completed")
	}

	fmt.Printf("\nDone after %d evaluations in %s, best mean deliveries %.1f\n",
		tr.evals, formatDuration(time.Since(tr.start)), -tr.best)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	if err := params.ApplyToConfig(bestCfg, bestParams); err != nil {
		return fmt.Errorf("applying best parameters: %w", err)
	}
	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return err
	}
	fmt.Printf("Best config saved to: %s\n", out)
	return nil
}

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	Deliveries   float64 `csv:"deliveries"`
	FailedSeeds  int     `csv:"failed_seeds"`
	BaseSpeed    float64 `csv:"base_speed"`
	SpeedJitter  float64 `csv:"speed_jitter"`
	BaseStrength float64 `csv:"base_strength"`
	DecayAmount  float64 `csv:"decay_amount"`
}

// tracker is the CMA-ES objective. It keeps the best point seen and logs every evaluation.
type tracker struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	log       io.Writer
	maxEvals  int

	evals      int
	best       float64
	bestParams []float64
	start      time.Time
}

func (tr *tracker) objective(x []float64) float64 {
	clamped := tr.params.Clamp(tr.params.Denormalize(x))
	fitness := tr.evaluator.Evaluate(clamped)
	tr.evals++
	if fitness < tr.best {
		tr.best = fitness
		tr.bestParams = clamped
	}

	record := evalRecord{
		Eval:         tr.evals,
		Fitness:      fitness,
		Deliveries:   tr.evaluator.LastDeliveries(),
		FailedSeeds:  tr.evaluator.LastFailedSeeds(),
		BaseSpeed:    clamped[0],
		SpeedJitter:  clamped[1],
		BaseStrength: clamped[2],
		DecayAmount:  clamped[3],
	}
	write := gocsv.MarshalWithoutHeaders
	if tr.evals == 1 {
		write = gocsv.Marshal
	}
	if err := write([]evalRecord{record}, tr.log); err != nil {
		log.Printf("failed to write log row: %v", err)
	}

	elapsed := time.Since(tr.start)
	remaining := time.Duration(tr.maxEvals-tr.evals) * (elapsed / time.Duration(tr.evals))
	fmt.Printf("Eval %d/%d: deliveries=%.1f (best=%.1f) | elapsed %s, ETA %s\n",
		tr.evals, tr.maxEvals, record.Deliveries, -tr.best,
		formatDuration(elapsed), formatDuration(remaining))

	return fitness
}

// formatDuration renders d as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
