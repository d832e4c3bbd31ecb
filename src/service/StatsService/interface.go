package StatsService

import "context"

type Interface interface {
	SetStat(c context.Context, flagKey string)
	IsUsed(c context.Context, flagKey string) bool
}
