package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	scenarioorch "github.com/KirkDiggler/scenario-gen/internal/orchestrators/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/clock"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/idgen"
	"github.com/KirkDiggler/scenario-gen/internal/redis"
	scenariorepo "github.com/KirkDiggler/scenario-gen/internal/repositories/scenario"
)

var (
	generateTemplate string
	generateCatalog  string
	generateSeed     uint32
	generateSize     int
	generateAttempts int
	generateOut      string
	generateSave     bool
	generateRedis    string
	generateDebug    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a scenario from a template",
	Long:  `Generate runs the zone filling engine on a Lua template and a game catalog, writing the resulting map snapshot to a JSON file.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "path to the Lua template script (required)")
	generateCmd.Flags().StringVarP(&generateCatalog, "catalog", "c", "", "path to the JSON game catalog (required)")
	generateCmd.Flags().Uint32VarP(&generateSeed, "seed", "s", 1, "generation seed")
	generateCmd.Flags().IntVar(&generateSize, "size", 0, "map size; 0 picks the template minimum")
	generateCmd.Flags().IntVar(&generateAttempts, "attempts", 0, "seeds to try when placement fails; 0 uses the template setting")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "scenario.json", "output file for the map snapshot")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "store the result in Redis")
	generateCmd.Flags().StringVar(&generateRedis, "redis", "localhost:6379", "redis endpoint used with --save")
	generateCmd.Flags().BoolVar(&generateDebug, "debug", false, "enable debug traces")

	_ = generateCmd.MarkFlagRequired("template")
	_ = generateCmd.MarkFlagRequired("catalog")
}

func buildService(withRepo bool) (scenarioorch.Service, error) {
	cfg := &scenarioorch.Config{
		IDGenerator: idgen.NewUUID("scn"),
	}

	if withRepo {
		client, err := redis.NewClient(generateRedis, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create redis client")
		}

		repo, err := scenariorepo.NewRedisRepository(&scenariorepo.Config{
			Client: client,
			Clock:  clock.New(),
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create scenario repository")
		}
		cfg.ScenarioRepo = repo
	}

	return scenarioorch.NewOrchestrator(cfg)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	service, err := buildService(generateSave)
	if err != nil {
		return err
	}

	output, err := service.Generate(cmd.Context(), &scenarioorch.GenerateInput{
		TemplatePath: generateTemplate,
		CatalogPath:  generateCatalog,
		Seed:         generateSeed,
		Size:         generateSize,
		MaxAttempts:  generateAttempts,
		Save:         generateSave,
		Debug:        generateDebug,
	})
	if err != nil {
		return err
	}

	snapshotJSON, err := json.MarshalIndent(output.Snapshot, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	if err := os.WriteFile(generateOut, snapshotJSON, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", generateOut)
	}

	fmt.Printf("Generated %s (seed %d, %d attempt(s))\n", generateOut, output.Seed, output.Attempts)
	if output.RecordID != "" {
		fmt.Printf("Saved as %s\n", output.RecordID)
	}
	return nil
}
