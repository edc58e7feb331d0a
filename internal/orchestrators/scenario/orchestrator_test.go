package scenario_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	orchestrator "github.com/KirkDiggler/scenario-gen/internal/orchestrators/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/idgen"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	scenariorepo "github.com/KirkDiggler/scenario-gen/internal/repositories/scenario"
	scenariorepomock "github.com/KirkDiggler/scenario-gen/internal/repositories/scenario/mock"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
	"github.com/KirkDiggler/scenario-gen/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite

	ctx      context.Context
	ctrl     *gomock.Controller
	mockRepo *scenariorepomock.MockRepository
	service  orchestrator.Service
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = scenariorepomock.NewMockRepository(s.ctrl)

	service, err := orchestrator.NewOrchestrator(&orchestrator.Config{
		ScenarioRepo: s.mockRepo,
		IDGenerator:  idgen.NewSequential("scn"),
	})
	s.Require().NoError(err)
	s.service = service
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) resolvedTemplate() *template.Template {
	return &template.Template{
		Settings: template.Settings{
			Name:       "orchestrated",
			MaxPlayers: 1,
			SizeMin:    48,
			SizeMax:    48,
			Roads:      100,
		},
		Contents: template.Contents{
			Zones: map[int]*template.ZoneOptions{
				0: {
					ID:         0,
					Type:       template.ZonePlayerStart,
					PlayerRace: scenario.RaceHuman,
					Size:       1,
					BorderType: template.BorderClosed,
					Capital: template.CapitalInfo{
						Guardian: true,
						Garrison: template.GroupInfo{
							Value: rng.RandomValue{Min: 300, Max: 300},
						},
					},
				},
			},
		},
	}
}

func (s *OrchestratorTestSuite) TestGenerate() {
	output, err := s.service.Generate(s.ctx, &orchestrator.GenerateInput{
		Template: s.resolvedTemplate(),
		Catalog:  testutils.ReferenceCatalog(s.T()),
		Seed:     1,
	})
	s.Require().NoError(err)

	s.Require().NotNil(output.Snapshot)
	s.Equal(uint32(1), output.Seed)
	s.Equal(1, output.Attempts)
	s.Equal(48, output.Snapshot.Size)
	s.Empty(output.RecordID, "nothing saved unless asked")
}

func (s *OrchestratorTestSuite) TestGenerate_Save() {
	s.mockRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input scenariorepo.SaveInput) (*scenariorepo.SaveOutput, error) {
			s.Equal("orchestrated", input.Record.TemplateName)
			s.NotNil(input.Record.Snapshot)
			return &scenariorepo.SaveOutput{Record: input.Record}, nil
		})

	output, err := s.service.Generate(s.ctx, &orchestrator.GenerateInput{
		Template: s.resolvedTemplate(),
		Catalog:  testutils.ReferenceCatalog(s.T()),
		Seed:     1,
		Save:     true,
	})
	s.Require().NoError(err)
	s.Equal("scn_1", output.RecordID)
}

func (s *OrchestratorTestSuite) TestGenerate_SaveFails() {
	s.mockRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	_, err := s.service.Generate(s.ctx, &orchestrator.GenerateInput{
		Template: s.resolvedTemplate(),
		Catalog:  testutils.ReferenceCatalog(s.T()),
		Seed:     1,
		Save:     true,
	})
	s.Error(err)
}

func (s *OrchestratorTestSuite) TestGenerate_MissingInputs() {
	_, err := s.service.Generate(s.ctx, &orchestrator.GenerateInput{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.Generate(s.ctx, &orchestrator.GenerateInput{
		Template: s.resolvedTemplate(),
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestNewOrchestrator_RequiresIDGenerator() {
	_, err := orchestrator.NewOrchestrator(&orchestrator.Config{})
	s.Error(err)
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
