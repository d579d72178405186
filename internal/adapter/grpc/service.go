package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// NumberServiceName is the fully qualified gRPC service name
const NumberServiceName = "sdl.v1.NumberService"

const (
	methodEvaluate              = "Evaluate"
	methodCalculate             = "Calculate"
	methodSplit                 = "Split"
	methodCreateInstallmentPlan = "CreateInstallmentPlan"
	methodGetInstallmentPlan    = "GetInstallmentPlan"
	methodListInstallmentPlans  = "ListInstallmentPlans"
)

// NumberServiceServer is the server API for NumberService
// Requests and responses are JSON-like google.protobuf.Struct messages
type NumberServiceServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Calculate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Split(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateInstallmentPlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetInstallmentPlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListInstallmentPlans(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterNumberServiceServer registers srv on s
func RegisterNumberServiceServer(s grpc.ServiceRegistrar, srv NumberServiceServer) {
	s.RegisterService(&NumberService_ServiceDesc, srv)
}

// unaryHandler adapts one NumberServiceServer method to a grpc.MethodDesc handler
func unaryHandler(method string, call func(NumberServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NumberServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + NumberServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(NumberServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// NumberService_ServiceDesc is the grpc.ServiceDesc for NumberService
var NumberService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: NumberServiceName,
	HandlerType: (*NumberServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodEvaluate, Handler: unaryHandler(methodEvaluate, NumberServiceServer.Evaluate)},
		{MethodName: methodCalculate, Handler: unaryHandler(methodCalculate, NumberServiceServer.Calculate)},
		{MethodName: methodSplit, Handler: unaryHandler(methodSplit, NumberServiceServer.Split)},
		{MethodName: methodCreateInstallmentPlan, Handler: unaryHandler(methodCreateInstallmentPlan, NumberServiceServer.CreateInstallmentPlan)},
		{MethodName: methodGetInstallmentPlan, Handler: unaryHandler(methodGetInstallmentPlan, NumberServiceServer.GetInstallmentPlan)},
		{MethodName: methodListInstallmentPlans, Handler: unaryHandler(methodListInstallmentPlans, NumberServiceServer.ListInstallmentPlans)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sdl/v1/number_service.proto",
}

// NumberServiceClient is the client API for NumberService
type NumberServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNumberServiceClient creates a client on top of an existing connection
func NewNumberServiceClient(cc grpc.ClientConnInterface) *NumberServiceClient {
	return &NumberServiceClient{cc: cc}
}

// Call invokes one NumberService method with a plain map request
func (c *NumberServiceClient) Call(ctx context.Context, method string, req map[string]interface{}, opts ...grpc.CallOption) (map[string]interface{}, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+NumberServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func (c *NumberServiceClient) Evaluate(ctx context.Context, req map[string]interface{}, opts ...grpc.CallOption) (map[string]interface{}, error) {
	return c.Call(ctx, methodEvaluate, req, opts...)
}

func (c *NumberServiceClient) Calculate(ctx context.Context, req map[string]interface{}, opts ...grpc.CallOption) (map[string]interface{}, error) {
	return c.Call(ctx, methodCalculate, req, opts...)
}

func (c *NumberServiceClient) Split(ctx context.Context, req map[string]interface{}, opts ...grpc.CallOption) (map[string]interface{}, error) {
	return c.Call(ctx, methodSplit, req, opts...)
}

func (c *NumberServiceClient) CreateInstallmentPlan(ctx context.Context, req map[string]interface{}, opts ...grpc.CallOption) (map[string]interface{}, error) {
	return c.Call(ctx, methodCreateInstallmentPlan, req, opts...)
}

func (c *NumberServiceClient) GetInstallmentPlan(ctx context.Context, req map[string]interface{}, opts ...grpc.CallOption) (map[string]interface{}, error) {
	return c.Call(ctx, methodGetInstallmentPlan, req, opts...)
}

func (c *NumberServiceClient) ListInstallmentPlans(ctx context.Context, req map[string]interface{}, opts ...grpc.CallOption) (map[string]interface{}, error) {
	return c.Call(ctx, methodListInstallmentPlans, req, opts...)
}
