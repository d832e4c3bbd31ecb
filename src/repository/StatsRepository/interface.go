package StatsRepository

import "context"

type Interface interface {
	SetStat(c context.Context, flagKey string) error
	IsUsed(c context.Context, flagKey string) bool
}
