package StatsService

import (
	"context"
	"fmt"

	"gitlab.com/devpro_studio/Flargd/names"
	"gitlab.com/devpro_studio/Flargd/src/repository/StatsRepository"
	"gitlab.com/devpro_studio/Paranoia/paranoia/interfaces"
	"gitlab.com/devpro_studio/Paranoia/paranoia/service"
)

type Service struct {
	service.Mock
	logger          interfaces.ILogger
	statsRepository StatsRepository.Interface
}

func New(name string) *Service {
	return &Service{
		Mock: service.Mock{
			NamePkg: name,
		},
	}
}

func NewForTest(statsRepository StatsRepository.Interface, logger interfaces.ILogger) *Service {
	return &Service{
		logger:          logger,
		statsRepository: statsRepository,
	}
}

func (t *Service) Init(app interfaces.IEngine, _ map[string]interface{}) error {
	t.logger = app.GetLogger()
	t.statsRepository = app.GetModule(interfaces.ModuleRepository, names.StatsRepository).(StatsRepository.Interface)
	return nil
}

// SetStat marks the flag as evaluated. Failures are logged and dropped.
func (t *Service) SetStat(c context.Context, flagKey string) {
	if err := t.statsRepository.SetStat(c, flagKey); err != nil {
		t.logger.Error(c, fmt.Errorf("set stat %s: %w", flagKey, err))
	}
}

func (t *Service) IsUsed(c context.Context, flagKey string) bool {
	return t.statsRepository.IsUsed(c, flagKey)
}
