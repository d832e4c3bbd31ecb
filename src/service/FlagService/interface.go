package FlagService

import (
	"context"

	"gitlab.com/devpro_studio/Flargd/src/model/db"
	"gitlab.com/devpro_studio/Flargd/src/model/dto"
)

type Interface interface {
	// CreateOrUpdate creates the flag or merges percentage into the stored one.
	// A nil percentage means 100. The bool reports whether the flag was created.
	CreateOrUpdate(c context.Context, app string, name string, percentage *int) (*db.Flag, bool, error)
	Get(c context.Context, app string, name string) (*db.Flag, error)
	// Evaluate buckets identifier, or a generated one when empty, against the flag.
	Evaluate(c context.Context, app string, name string, identifier string) (*dto.EvaluationResult, error)
	IsUsed(c context.Context, app string, name string) (bool, error)
	Ping(c context.Context) error
}
