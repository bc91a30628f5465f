// Package feedbackv1 declares the feedback.v1.FeedbackDashboard gRPC service.
//
// The service exchanges protobuf well-known types only, so it needs no
// generated message code: uploads and reports travel as BytesValue, view ids as
// StringValue and rendered views as Struct.
package feedbackv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "feedback.v1.FeedbackDashboard"

const (
	FeedbackDashboard_Analyze_FullMethodName      = "/" + ServiceName + "/Analyze"
	FeedbackDashboard_RenderView_FullMethodName   = "/" + ServiceName + "/RenderView"
	FeedbackDashboard_ExportReport_FullMethodName = "/" + ServiceName + "/ExportReport"
)

// FeedbackDashboardServer is the server API for the FeedbackDashboard service.
type FeedbackDashboardServer interface {
	// Analyze processes an uploaded table, or the default dataset when the
	// upload is empty, and makes it the current analysis.
	Analyze(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	// RenderView renders one dashboard view of the current analysis.
	RenderView(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// ExportReport returns the xlsx report of the current analysis.
	ExportReport(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
}

// RegisterFeedbackDashboardServer registers srv on s.
func RegisterFeedbackDashboardServer(s grpc.ServiceRegistrar, srv FeedbackDashboardServer) {
	s.RegisterService(&FeedbackDashboard_ServiceDesc, srv)
}

var FeedbackDashboard_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeedbackDashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: analyzeHandler},
		{MethodName: "RenderView", Handler: renderViewHandler},
		{MethodName: "ExportReport", Handler: exportReportHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "feedback/v1/dashboard.proto",
}

func analyzeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedbackDashboardServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FeedbackDashboard_Analyze_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FeedbackDashboardServer).Analyze(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func renderViewHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedbackDashboardServer).RenderView(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FeedbackDashboard_RenderView_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FeedbackDashboardServer).RenderView(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func exportReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedbackDashboardServer).ExportReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FeedbackDashboard_ExportReport_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FeedbackDashboardServer).ExportReport(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// FeedbackDashboardClient is the client API for the FeedbackDashboard service.
type FeedbackDashboardClient interface {
	Analyze(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	RenderView(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ExportReport(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type feedbackDashboardClient struct {
	cc grpc.ClientConnInterface
}

func NewFeedbackDashboardClient(cc grpc.ClientConnInterface) FeedbackDashboardClient {
	return &feedbackDashboardClient{cc}
}

func (c *feedbackDashboardClient) Analyze(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FeedbackDashboard_Analyze_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *feedbackDashboardClient) RenderView(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FeedbackDashboard_RenderView_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *feedbackDashboardClient) ExportReport(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, FeedbackDashboard_ExportReport_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
