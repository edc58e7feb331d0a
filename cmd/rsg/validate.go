package main

import (
	"fmt"

	"github.com/spf13/cobra"

	scenarioorch "github.com/KirkDiggler/scenario-gen/internal/orchestrators/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/idgen"
)

var (
	validateTemplate string
	validateSize     int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a template without generating",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "", "path to the Lua template script (required)")
	validateCmd.Flags().IntVar(&validateSize, "size", 0, "map size used to resolve contents; 0 picks the template minimum")

	_ = validateCmd.MarkFlagRequired("template")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	service, err := scenarioorch.NewOrchestrator(&scenarioorch.Config{
		IDGenerator: idgen.NewUUID("scn"),
	})
	if err != nil {
		return err
	}

	output, err := service.Validate(cmd.Context(), &scenarioorch.ValidateInput{
		TemplatePath: validateTemplate,
		Size:         validateSize,
	})
	if err != nil {
		return err
	}

	settings := output.Template.Settings
	fmt.Printf("Template %q is valid: %d zone(s), players up to %d, sizes %d-%d\n",
		settings.Name, len(output.Template.Contents.Zones),
		settings.MaxPlayers, settings.SizeMin, settings.SizeMax)
	return nil
}
