package HealthGRPC

import (
	"context"

	"gitlab.com/devpro_studio/Flargd/names"
	"gitlab.com/devpro_studio/Flargd/src/service/FlagService"
	"gitlab.com/devpro_studio/Paranoia/paranoia/controller"
	"gitlab.com/devpro_studio/Paranoia/paranoia/interfaces"
	"gitlab.com/devpro_studio/Paranoia/pkg/server/grpc"
	grpc2 "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the name accepted by Check besides the empty server-wide name.
const ServiceName = "flargd"

// Controller serves grpc.health.v1.Health, reporting whether the flag store answers.
type Controller struct {
	controller.Mock
	healthpb.UnimplementedHealthServer
	flagService FlagService.Interface
}

func NewController(name string) *Controller {
	return &Controller{
		Mock: controller.Mock{
			NamePkg: name,
		},
	}
}

func (t *Controller) Init(app interfaces.IEngine, _ map[string]interface{}) error {
	app.GetPkg(interfaces.PkgServer, names.GrpcServer).(grpc.IGrpc).RegisterService(&healthpb.Health_ServiceDesc, t)
	t.flagService = app.GetModule(interfaces.ModuleService, names.FlagService).(FlagService.Interface)

	return nil
}

func (t *Controller) Check(c context.Context, request *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if request.GetService() != "" && request.GetService() != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", request.GetService())
	}

	if err := t.flagService.Ping(c); err != nil {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}

	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

func (t *Controller) Watch(_ *healthpb.HealthCheckRequest, _ grpc2.ServerStreamingServer[healthpb.HealthCheckResponse]) error {
	return status.Errorf(codes.Unimplemented, "method Watch not implemented")
}
