package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	CheckoutServiceName  = "toolrental.v1.CheckoutService"
	CheckoutFullMethod   = "/" + CheckoutServiceName + "/Checkout"
	ReturnToolFullMethod = "/" + CheckoutServiceName + "/ReturnTool"
	GetRentalFullMethod  = "/" + CheckoutServiceName + "/GetRental"
)

// CheckoutServiceServer is the server API. Messages are google.protobuf.Struct
// so the service needs no generated code.
type CheckoutServiceServer interface {
	Checkout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ReturnTool(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetRental(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterCheckoutServiceServer(s grpc.ServiceRegistrar, srv CheckoutServiceServer) {
	s.RegisterService(&CheckoutServiceDesc, srv)
}

var CheckoutServiceDesc = grpc.ServiceDesc{
	ServiceName: CheckoutServiceName,
	HandlerType: (*CheckoutServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Checkout", Handler: unaryHandler(CheckoutFullMethod, CheckoutServiceServer.Checkout)},
		{MethodName: "ReturnTool", Handler: unaryHandler(ReturnToolFullMethod, CheckoutServiceServer.ReturnTool)},
		{MethodName: "GetRental", Handler: unaryHandler(GetRentalFullMethod, CheckoutServiceServer.GetRental)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "toolrental/v1/checkout.proto",
}

type unaryMethod func(CheckoutServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CheckoutServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CheckoutServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CheckoutServiceClient calls the service over a client connection
type CheckoutServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCheckoutServiceClient(cc grpc.ClientConnInterface) *CheckoutServiceClient {
	return &CheckoutServiceClient{cc: cc}
}

func (c *CheckoutServiceClient) Checkout(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CheckoutFullMethod, in, opts...)
}

func (c *CheckoutServiceClient) ReturnTool(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReturnToolFullMethod, in, opts...)
}

func (c *CheckoutServiceClient) GetRental(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetRentalFullMethod, in, opts...)
}

func (c *CheckoutServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
