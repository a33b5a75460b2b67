// Package pipeline exposes each stage as a plain call so a host (the CLI or
// anything embedding the module) can compose them: partition, select,
// sample, then draw.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quickdraw-pipeline/internal/config"
	"quickdraw-pipeline/internal/geometry"
	"quickdraw-pipeline/internal/layout"
	"quickdraw-pipeline/internal/models"
	"quickdraw-pipeline/internal/parser"
	"quickdraw-pipeline/internal/partition"
	"quickdraw-pipeline/internal/placer"
	"quickdraw-pipeline/internal/rng"
	"quickdraw-pipeline/internal/sampler"
	"quickdraw-pipeline/internal/selector"
)

const (
	stageSample = "sample"
	stageDraw   = "draw"
)

type Pipeline struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func NewPipeline(cfg *config.Config, runID string) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: log.With().Str("run_id", runID).Logger(),
	}
}

// Output gathers what a full run produced.
type Output struct {
	Partition   *partition.Report    `json:"partition,omitempty"`
	Selections  []selector.Selection `json:"selections"`
	Sample      *sampler.Result      `json:"-"`
	Placement   *placer.Result       `json:"placement"`
	Diagnostics models.Diagnostics   `json:"diagnostics,omitempty"`
}

// Partition runs the partitioner with the configured options.
func (p *Pipeline) Partition() (*partition.Report, error) {
	c := p.cfg.Partition
	start := time.Now()
	report, err := partition.Run(partition.Options{
		Source:    c.Source,
		Dest:      c.Dest,
		Run:       c.Run,
		ChunkSize: c.ChunkSize,
		Marker:    c.Marker,
		Ext:       c.Ext,
	})
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}
	if report != nil {
		p.logger.Info().Int("categories", len(report.Categories)).Dur("took", time.Since(start)).Msg("Partition finished")
	}
	return report, nil
}

// Select picks one partition per configured category using seed.
func (p *Pipeline) Select(seed int) ([]selector.Selection, error) {
	src, err := rng.New(p.cfg.Random, seed)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	sel, err := selector.Select(p.cfg.Select.Root, p.cfg.Select.Categories, src, p.cfg.Partition.Ext)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	p.logger.Info().Int("files", len(sel)).Int("seed", seed).Msg("Selection finished")
	return sel, nil
}

// Sample reads the configured window from every path. Clamping yields a
// single warning for the call; unreadable files yield one error each.
func (p *Pipeline) Sample(ctx context.Context, paths []string) (*sampler.Result, models.Diagnostics, error) {
	var diags models.Diagnostics
	c := p.cfg.Sample
	start := time.Now()
	res, err := sampler.Sample(ctx, paths, c.Amount, c.Start, sampler.Options{Concurrency: c.Concurrency})
	if err != nil {
		return nil, diags, fmt.Errorf("sample: %w", err)
	}
	if res.Clamped {
		diags.Warn(stageSample, "Amount is greater than the number of drawings in one or more of the files, affected files returned all their drawings.")
	}
	for _, w := range res.Failed() {
		diags.Error(stageSample, "%s: %v", w.Path, w.Err)
	}
	p.logger.Info().Str("status", res.Status()).Dur("took", time.Since(start)).Msg("Sample finished")
	return res, diags, nil
}

// Draw places drawings on the configured locations using seed.
func (p *Pipeline) Draw(drawings []string, seed int) (*placer.Result, models.Diagnostics, error) {
	var diags models.Diagnostics
	locs, err := layout.Locations(p.cfg.Draw)
	if err != nil {
		return nil, diags, fmt.Errorf("draw: %w", err)
	}
	return p.DrawAt(drawings, locs, seed)
}

// DrawAt places drawings on explicit locations.
func (p *Pipeline) DrawAt(drawings []string, locs []geometry.Point, seed int) (*placer.Result, models.Diagnostics, error) {
	var diags models.Diagnostics
	trim, err := parser.ParseTerminalTrim(p.cfg.Parser.TerminalTrim)
	if err != nil {
		return nil, diags, fmt.Errorf("draw: %w", err)
	}
	src, err := rng.New(p.cfg.Random, seed)
	if err != nil {
		return nil, diags, fmt.Errorf("draw: %w", err)
	}
	res, err := placer.Place(drawings, locs, src, placer.Options{Parser: parser.Options{Trim: trim}})
	if err != nil {
		diags.Error(stageDraw, "%v", err)
		return nil, diags, fmt.Errorf("draw: %w", err)
	}
	for _, w := range res.Warnings {
		diags.Warn(stageDraw, "%s", w)
	}
	if res.Fallbacks > 0 {
		p.logger.Debug().Int("fallbacks", res.Fallbacks).Msg("Coordinate tokens coerced to 0")
	}
	p.logger.Info().Str("status", res.Status()).Msg("Draw finished")
	return res, diags, nil
}

// Run executes every stage in order. The partition stage only runs when the
// configuration's run flag is set. A fatal error in any stage discards the
// whole output.
func (p *Pipeline) Run(ctx context.Context, selectSeed, drawSeed int) (*Output, error) {
	out := &Output{}
	report, err := p.Partition()
	if err != nil {
		return nil, err
	}
	out.Partition = report

	if out.Selections, err = p.Select(selectSeed); err != nil {
		return nil, err
	}

	res, diags, err := p.Sample(ctx, selector.Paths(out.Selections))
	if err != nil {
		return nil, err
	}
	out.Diagnostics = append(out.Diagnostics, diags...)
	out.Sample = res

	placement, diags, err := p.Draw(res.Records, drawSeed)
	if err != nil {
		return nil, err
	}
	out.Diagnostics = append(out.Diagnostics, diags...)
	out.Placement = placement
	return out, nil
}

// Report logs diagnostics through the pipeline logger at their severity.
func (p *Pipeline) Report(diags models.Diagnostics) {
	for _, d := range diags {
		var ev *zerolog.Event
		if d.Severity == models.SeverityError {
			ev = p.logger.Error()
		} else {
			ev = p.logger.Warn()
		}
		ev.Str("stage", d.Stage).Msg(d.Message)
	}
}
