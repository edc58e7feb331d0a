package scenario

import (
	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// GenerateInput contains parameters for generating a scenario
type GenerateInput struct {
	// Path to the Lua template script
	TemplatePath string

	// Path to the JSON game catalog
	CatalogPath string

	// Preloaded inputs; when set, the paths are ignored. The preloaded
	// template must already have its contents resolved.
	Template *template.Template
	Catalog  *game.Catalog

	// Generation seed
	Seed uint32

	// Map size; zero picks the template minimum
	Size int

	// How many seeds to try when placement runs out of space; zero
	// falls back to the template's iterations setting
	MaxAttempts int

	// Store the result in the repository
	Save bool

	Debug bool
}

// GenerateOutput contains the generation result
type GenerateOutput struct {
	Snapshot *scenario.Snapshot

	// Seed that produced the snapshot; differs from the input seed when
	// earlier attempts ran out of space
	Seed uint32

	// Number of generation attempts spent
	Attempts int

	// Record id when the scenario was saved
	RecordID string
}

// ValidateInput contains parameters for validating a template
type ValidateInput struct {
	TemplatePath string

	// Map size used to resolve contents; zero picks the template minimum
	Size int
}

// ValidateOutput contains the validation result
type ValidateOutput struct {
	Template *template.Template
}
