package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quickdraw-pipeline/internal/config"
	"quickdraw-pipeline/internal/helper"
	"quickdraw-pipeline/internal/pipeline"
	"quickdraw-pipeline/internal/selector"
)

const (
	defaultConfigPath = "./configs/config.yaml"
	pathsFile         = "paths.txt"
	drawingsFile      = "drawings.ndjson"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the YAML config file")
	mode := flag.String("mode", "run", "Stage to run: partition, select, sample, draw or run")
	selectSeed := flag.Int("select-seed", 0, "Seed for partition selection (overrides config)")
	drawSeed := flag.Int("draw-seed", 0, "Seed for drawing placement (overrides config)")
	input := flag.String("input", "", "Input file: paths for -mode sample, drawings for -mode draw")
	dryRun := flag.Bool("dry-run", false, "Print results only, do not write output files")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("log_level", cfg.LogLevel).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	// Only explicitly passed seeds override the config, so 0 stays usable.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "select-seed":
			cfg.Select.Seed = *selectSeed
		case "draw-seed":
			cfg.Draw.Seed = *drawSeed
		}
	})

	runID, err := helper.GenerateUUID()
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating run id")
	}
	p := pipeline.NewPipeline(cfg, runID)
	ctx := context.Background()

	switch *mode {
	case "partition":
		runPartition(p)
	case "select":
		runSelect(p, cfg, *dryRun)
	case "sample":
		runSample(ctx, p, cfg, *input, *dryRun)
	case "draw":
		runDraw(p, cfg, *input)
	case "run":
		runAll(ctx, p, cfg, *dryRun)
	default:
		log.Fatal().Str("mode", *mode).Msg("Unknown mode, use partition, select, sample, draw or run")
	}
}

func runPartition(p *pipeline.Pipeline) {
	report, err := p.Partition()
	if err != nil {
		log.Fatal().Err(err).Msg("Error partitioning files")
	}
	if report == nil {
		log.Warn().Msg("partition.run is false, nothing to do")
		return
	}
	helper.PrettyPrint(report)
}

func runSelect(p *pipeline.Pipeline, cfg *config.Config, dryRun bool) {
	sel, err := p.Select(cfg.Select.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Error selecting partitions")
	}
	helper.PrettyPrint(sel)
	writeOutput(cfg, pathsFile, selector.Paths(sel), dryRun)
}

func runSample(ctx context.Context, p *pipeline.Pipeline, cfg *config.Config, input string, dryRun bool) {
	paths, err := readInput(input, filepath.Join(cfg.OutputDir, pathsFile))
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading paths")
	}
	res, diags, err := p.Sample(ctx, paths)
	if err != nil {
		log.Fatal().Err(err).Msg("Error sampling drawings")
	}
	p.Report(diags)
	log.Info().Msg(res.Status())
	writeOutput(cfg, drawingsFile, res.Records, dryRun)
}

func runDraw(p *pipeline.Pipeline, cfg *config.Config, input string) {
	drawings, err := readInput(input, filepath.Join(cfg.OutputDir, drawingsFile))
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading drawings")
	}
	res, diags, err := p.Draw(drawings, cfg.Draw.Seed)
	p.Report(diags)
	if err != nil {
		log.Fatal().Err(err).Msg("Error drawing")
	}
	helper.PrettyPrint(res)
}

func runAll(ctx context.Context, p *pipeline.Pipeline, cfg *config.Config, dryRun bool) {
	out, err := p.Run(ctx, cfg.Select.Seed, cfg.Draw.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Error running pipeline")
	}
	p.Report(out.Diagnostics)
	helper.PrettyPrint(out)

	writeOutput(cfg, pathsFile, selector.Paths(out.Selections), dryRun)
	writeOutput(cfg, drawingsFile, out.Sample.Records, dryRun)
}

// readInput reads the lines of path, or of fallback when path is empty.
func readInput(path, fallback string) ([]string, error) {
	if path == "" {
		path = fallback
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := helper.NewLineScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func writeOutput(cfg *config.Config, name string, lines []string, dryRun bool) {
	if dryRun {
		return
	}
	if err := helper.CreateFolder(cfg.OutputDir); err != nil {
		log.Fatal().Err(err).Msg("Error creating output folder")
	}
	path := filepath.Join(cfg.OutputDir, name)
	if err := helper.WriteLines(path, lines); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Error writing output")
	}
	log.Info().Str("path", path).Int("lines", len(lines)).Msg("Wrote output")
}
