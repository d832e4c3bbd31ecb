package PublicHTTP

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gitlab.com/devpro_studio/Flargd/names"
	"gitlab.com/devpro_studio/Flargd/src/model/apperr"
	"gitlab.com/devpro_studio/Flargd/src/service/FlagService"
	"gitlab.com/devpro_studio/Paranoia/paranoia/controller"
	"gitlab.com/devpro_studio/Paranoia/paranoia/interfaces"
	httpSrv "gitlab.com/devpro_studio/Paranoia/pkg/server/http"
)

const greeting = "Hello! Flargd Edge Feature Flags!"

type Controller struct {
	controller.Mock
	logger      interfaces.ILogger
	flagService FlagService.Interface
}

func New(name string) *Controller {
	return &Controller{Mock: controller.Mock{NamePkg: name}}
}

func NewForTest(flagService FlagService.Interface, logger interfaces.ILogger) *Controller {
	return &Controller{flagService: flagService, logger: logger}
}

func (t *Controller) Init(app interfaces.IEngine, _ map[string]interface{}) error {
	t.logger = app.GetLogger()
	t.flagService = app.GetModule(interfaces.ModuleService, names.FlagService).(FlagService.Interface)

	http := app.GetPkg(interfaces.PkgServer, names.HttpServer).(httpSrv.IHttp)
	http.PushRoute("GET", "/", t.index, nil)
	http.PushRoute("POST", "/apps/{app}/flag", t.createOrUpdateFlag, nil)
	http.PushRoute("GET", "/apps/{app}/flags/{flagName}", t.getFlag, nil)
	http.PushRoute("GET", "/apps/{app}/flags/{flagName}/evaluation", t.evaluateFlag, nil)
	http.PushRoute("GET", "/apps/{app}/flags/{flagName}/evaluation/{identifier}", t.evaluateFlag, nil)
	http.PushRoute("GET", "/apps/{app}/flags/{flagName}/stats", t.flagStats, nil)
	return nil
}

// helpers
func respondJSON(ctx httpSrv.ICtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.GetResponse().Header().Set("Content-Type", "application/json; charset=utf-8")
	ctx.GetResponse().SetStatus(status)
	ctx.GetResponse().SetBody(b)
}

func parseJSON[T any](ctx httpSrv.ICtx, out *T) error {
	defer ctx.GetRequest().GetBody().Close()
	dec := json.NewDecoder(ctx.GetRequest().GetBody())
	return dec.Decode(out)
}

func routeOf(ctx httpSrv.ICtx) flagRoute {
	return flagRoute{
		App:        ctx.GetRouterValue("app"),
		FlagName:   ctx.GetRouterValue("flagName"),
		Identifier: ctx.GetRouterValue("identifier"),
	}
}

// respondError maps service errors to statuses. Internal failures are logged and
// answered with an opaque body.
func (t *Controller) respondError(c context.Context, ctx httpSrv.ICtx, route flagRoute, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		respondJSON(ctx, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		respondJSON(ctx, http.StatusNotFound, errorResponse{Error: "flag not found"})
	default:
		t.logger.Error(c, fmt.Errorf("app %q flag %q: %w", route.App, route.FlagName, err))
		respondJSON(ctx, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (t *Controller) index(_ context.Context, ctx httpSrv.ICtx) {
	respondJSON(ctx, http.StatusOK, greeting)
}

func (t *Controller) createOrUpdateFlag(c context.Context, ctx httpSrv.ICtx) {
	t.handleCreateOrUpdate(c, ctx, routeOf(ctx))
}

func (t *Controller) handleCreateOrUpdate(c context.Context, ctx httpSrv.ICtx, route flagRoute) {
	var req flagRequest
	if err := parseJSON(ctx, &req); err != nil {
		respondJSON(ctx, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}
	route.FlagName = req.FlagName

	flag, _, err := t.flagService.CreateOrUpdate(c, route.App, req.FlagName, req.Percentage)
	if err != nil {
		t.respondError(c, ctx, route, err)
		return
	}

	respondJSON(ctx, http.StatusCreated, flag)
}

func (t *Controller) getFlag(c context.Context, ctx httpSrv.ICtx) {
	t.handleGet(c, ctx, routeOf(ctx))
}

func (t *Controller) handleGet(c context.Context, ctx httpSrv.ICtx, route flagRoute) {
	flag, err := t.flagService.Get(c, route.App, route.FlagName)
	if err != nil {
		t.respondError(c, ctx, route, err)
		return
	}

	respondJSON(ctx, http.StatusOK, flag)
}

func (t *Controller) evaluateFlag(c context.Context, ctx httpSrv.ICtx) {
	t.handleEvaluate(c, ctx, routeOf(ctx))
}

func (t *Controller) handleEvaluate(c context.Context, ctx httpSrv.ICtx, route flagRoute) {
	res, err := t.flagService.Evaluate(c, route.App, route.FlagName, route.Identifier)
	if err != nil {
		t.respondError(c, ctx, route, err)
		return
	}

	respondJSON(ctx, http.StatusOK, evaluationResponse{
		Evaluation: res.Evaluation,
		Identifier: res.Identifier.Value,
	})
}

func (t *Controller) flagStats(c context.Context, ctx httpSrv.ICtx) {
	t.handleStats(c, ctx, routeOf(ctx))
}

func (t *Controller) handleStats(c context.Context, ctx httpSrv.ICtx, route flagRoute) {
	used, err := t.flagService.IsUsed(c, route.App, route.FlagName)
	if err != nil {
		t.respondError(c, ctx, route, err)
		return
	}

	respondJSON(ctx, http.StatusOK, statsResponse{Used: used})
}
