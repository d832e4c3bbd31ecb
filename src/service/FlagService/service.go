package FlagService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"gitlab.com/devpro_studio/Flargd/names"
	"gitlab.com/devpro_studio/Flargd/src/domain/bucketing"
	"gitlab.com/devpro_studio/Flargd/src/domain/evaluation"
	"gitlab.com/devpro_studio/Flargd/src/domain/flagkey"
	"gitlab.com/devpro_studio/Flargd/src/model/apperr"
	"gitlab.com/devpro_studio/Flargd/src/model/db"
	"gitlab.com/devpro_studio/Flargd/src/model/dto"
	"gitlab.com/devpro_studio/Flargd/src/repository/FlagRepository"
	"gitlab.com/devpro_studio/Flargd/src/service/StatsService"
	"gitlab.com/devpro_studio/Paranoia/paranoia/interfaces"
	"gitlab.com/devpro_studio/Paranoia/paranoia/service"
	"gitlab.com/devpro_studio/go_utils/decode"
)

type Config struct {
	Owner string `yaml:"owner"`
}

type Service struct {
	service.Mock
	flagRepository FlagRepository.Interface
	statsService   StatsService.Interface
	clock          clock.Clock
	config         Config
}

func New(name string) *Service {
	return &Service{
		Mock: service.Mock{
			NamePkg: name,
		},
	}
}

func NewForTest(flagRepository FlagRepository.Interface, statsService StatsService.Interface, clk clock.Clock, owner string) *Service {
	return &Service{
		flagRepository: flagRepository,
		statsService:   statsService,
		clock:          clk,
		config:         Config{Owner: owner},
	}
}

func (t *Service) Init(app interfaces.IEngine, cfg map[string]interface{}) error {
	t.flagRepository = app.GetModule(interfaces.ModuleRepository, names.FlagRepository).(FlagRepository.Interface)
	t.statsService = app.GetModule(interfaces.ModuleService, names.StatsService).(StatsService.Interface)
	t.clock = clock.New()
	t.config = Config{Owner: "public"}

	err := decode.Decode(cfg, &t.config, "yaml", decode.DecoderStrongFoundDst)
	if err != nil {
		return err
	}

	if t.config.Owner == "" {
		return errors.New("flag service: owner must not be empty")
	}

	return nil
}

func (t *Service) CreateOrUpdate(c context.Context, app string, name string, percentage *int) (*db.Flag, bool, error) {
	key, err := t.key(app, name)
	if err != nil {
		return nil, false, err
	}
	if percentage != nil && (*percentage < 0 || *percentage > 100) {
		return nil, false, fmt.Errorf("%w: percentage must be within [0, 100], got %d", apperr.ErrInvalidInput, *percentage)
	}

	existing, err := t.flagRepository.Get(c, key)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, false, err
	}

	// Read-modify-write without isolation: concurrent writers to one key may lose an update.
	flag := mergeFlag(existing, t.config.Owner, app, name, percentage, t.now())
	if err := t.flagRepository.Put(c, key, flag); err != nil {
		return nil, false, err
	}

	return flag, existing == nil, nil
}

func (t *Service) Get(c context.Context, app string, name string) (*db.Flag, error) {
	key, err := t.key(app, name)
	if err != nil {
		return nil, err
	}

	return t.flagRepository.Get(c, key)
}

func (t *Service) Evaluate(c context.Context, app string, name string, identifier string) (*dto.EvaluationResult, error) {
	key, err := t.key(app, name)
	if err != nil {
		return nil, err
	}

	flag, err := t.flagRepository.GetCached(c, key)
	if err != nil {
		return nil, err
	}

	id, bucket := bucketing.Compute(identifier)
	result := &dto.EvaluationResult{
		Evaluation: evaluation.Evaluate(flag, bucket),
		Identifier: id,
	}

	t.statsService.SetStat(c, key)

	return result, nil
}

func (t *Service) IsUsed(c context.Context, app string, name string) (bool, error) {
	key, err := t.key(app, name)
	if err != nil {
		return false, err
	}

	return t.statsService.IsUsed(c, key), nil
}

func (t *Service) Ping(c context.Context) error {
	return t.flagRepository.Ping(c)
}

func (t *Service) key(app string, name string) (string, error) {
	if err := flagkey.Validate(t.config.Owner, app, name); err != nil {
		return "", err
	}

	return flagkey.Build(t.config.Owner, app, name), nil
}

// now is truncated to milliseconds to match the stored ISO-8601 precision.
func (t *Service) now() time.Time {
	return t.clock.Now().UTC().Truncate(time.Millisecond)
}
