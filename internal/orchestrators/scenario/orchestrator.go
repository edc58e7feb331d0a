// Package scenario implements the scenario orchestrator: the single
// entry point that wires template loading, catalog loading, generation
// and optional persistence together.
package scenario

//go:generate mockgen -destination=mock/mock_service.go -package=scenariomock github.com/KirkDiggler/scenario-gen/internal/orchestrators/scenario Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/generator"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/idgen"
	scenariorepo "github.com/KirkDiggler/scenario-gen/internal/repositories/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// Default number of seeds tried before giving up on a template that
// keeps running out of space.
const defaultMaxAttempts = 10

// Service defines the interface for scenario operations
type Service interface {
	// Generate produces a scenario from (template, catalog, seed)
	Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error)

	// Validate loads and checks a template without generating
	Validate(ctx context.Context, input *ValidateInput) (*ValidateOutput, error)
}

// Config holds the dependencies for the scenario orchestrator
type Config struct {
	// Optional; generation works without persistence
	ScenarioRepo scenariorepo.Repository

	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	scenarioRepo scenariorepo.Repository
	idGen        idgen.Generator
}

// NewOrchestrator creates a new scenario orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		scenarioRepo: cfg.ScenarioRepo,
		idGen:        cfg.IDGenerator,
	}, nil
}

// loadTemplate resolves the template either from the preloaded input or
// by running the Lua script twice: once for settings, once for the
// size-specific contents.
func (o *orchestrator) loadTemplate(input *GenerateInput) (*template.Template, int, error) {
	if input.Template != nil {
		size := input.Size
		if size == 0 {
			size = input.Template.Settings.SizeMin
		}
		return input.Template, size, nil
	}

	if input.TemplatePath == "" {
		return nil, 0, errors.InvalidArgument("template path is required")
	}

	tmpl, err := template.ReadFile(input.TemplatePath)
	if err != nil {
		return nil, 0, err
	}

	size := input.Size
	if size == 0 {
		size = tmpl.Settings.SizeMin
	}
	if size < tmpl.Settings.SizeMin || size > tmpl.Settings.SizeMax {
		return nil, 0, errors.InvalidArgumentf("size %d is outside the template range [%d, %d]",
			size, tmpl.Settings.SizeMin, tmpl.Settings.SizeMax)
	}

	if err := template.ResolveContents(input.TemplatePath, tmpl, size); err != nil {
		return nil, 0, err
	}

	return tmpl, size, nil
}

func (o *orchestrator) loadCatalog(input *GenerateInput) (*game.Catalog, error) {
	if input.Catalog != nil {
		return input.Catalog, nil
	}

	if input.CatalogPath == "" {
		return nil, errors.InvalidArgument("catalog path is required")
	}
	return game.Load(input.CatalogPath)
}

// Generate produces a scenario. Lack of space is the one retryable
// failure: the orchestrator walks forward through seeds until a
// placement succeeds or the attempt budget runs out.
func (o *orchestrator) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	tmpl, size, err := o.loadTemplate(input)
	if err != nil {
		return nil, err
	}

	catalog, err := o.loadCatalog(input)
	if err != nil {
		return nil, err
	}

	maxAttempts := input.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = tmpl.Settings.Iterations
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	seed := input.Seed
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		gen, genErr := generator.New(&generator.Config{
			Template: tmpl,
			Catalog:  catalog,
			Seed:     seed,
			Size:     size,
			Debug:    input.Debug,
		})
		if genErr != nil {
			return nil, genErr
		}

		snapshot, genErr := gen.Generate()
		if genErr == nil {
			output := &GenerateOutput{
				Snapshot: snapshot,
				Seed:     seed,
				Attempts: attempt,
			}

			if input.Save {
				if saveErr := o.save(ctx, tmpl, output); saveErr != nil {
					return nil, saveErr
				}
			}

			slog.Info("Scenario generated successfully",
				"template", tmpl.Settings.Name,
				"seed", seed,
				"size", size,
				"attempts", attempt,
			)
			return output, nil
		}

		if !errors.GetCode(genErr).Retryable() {
			return nil, genErr
		}

		slog.Warn("Generation ran out of space, retrying with next seed",
			"seed", seed,
			"attempt", attempt,
		)
		lastErr = genErr
		seed++
	}

	return nil, errors.Wrapf(lastErr, "generation failed after %d attempts", maxAttempts)
}

func (o *orchestrator) save(ctx context.Context, tmpl *template.Template, output *GenerateOutput) error {
	if o.scenarioRepo == nil {
		return errors.InvalidArgument("saving requires a scenario repository")
	}

	saved, err := o.scenarioRepo.Save(ctx, scenariorepo.SaveInput{
		Record: &scenariorepo.Record{
			ID:           o.idGen.Generate(),
			TemplateName: tmpl.Settings.Name,
			Seed:         output.Seed,
			Size:         output.Snapshot.Size,
			Snapshot:     output.Snapshot,
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to save scenario")
	}

	output.RecordID = saved.Record.ID
	return nil
}

// Validate loads and checks a template without generating
func (o *orchestrator) Validate(_ context.Context, input *ValidateInput) (*ValidateOutput, error) {
	if input.TemplatePath == "" {
		return nil, errors.InvalidArgument("template path is required")
	}

	tmpl, err := template.ReadFile(input.TemplatePath)
	if err != nil {
		return nil, err
	}

	size := input.Size
	if size == 0 {
		size = tmpl.Settings.SizeMin
	}

	if err := template.ResolveContents(input.TemplatePath, tmpl, size); err != nil {
		return nil, err
	}

	return &ValidateOutput{Template: tmpl}, nil
}
