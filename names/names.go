package names

const (
	CacheRedis       = "primary"
	CacheMemory      = "secondary"
	DatabasePrimary  = "primary"
	HttpServer       = "http"
	GrpcServer       = "grpc"
	FlagRepository   = "flag"
	StatsRepository  = "stats"
	FlagService      = "flag"
	StatsService     = "stats"
	PublicController = "public_http"
	HealthController = "health_grpc"
)
