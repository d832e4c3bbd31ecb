package PublicHTTP

type flagRequest struct {
	FlagName   string `json:"flagName"`
	Percentage *int   `json:"percentage"`
}

type evaluationResponse struct {
	Evaluation bool   `json:"evaluation"`
	Identifier string `json:"identifier"`
}

type statsResponse struct {
	Used bool `json:"used"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// flagRoute holds the path values of the /apps/{app}/flags/{flagName} routes.
type flagRoute struct {
	App        string
	FlagName   string
	Identifier string
}
