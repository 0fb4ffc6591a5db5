// Package rpc serves the engine over gRPC as the takumi.Takumi service.
package rpc

import (
	"context"

	"google.golang.org/grpc"
)

type AnalyzeRequest struct {
	Position string `json:"tps"`
	Depth    int32  `json:"depth,omitempty"`
	TimeMs   int64  `json:"time_ms,omitempty"`
	Nodes    uint64 `json:"nodes,omitempty"`
}

type AnalyzeResponse struct {
	Pv     []string `json:"pv"`
	Value  int64    `json:"value"`
	Depth  int32    `json:"depth"`
	Nodes  uint64   `json:"nodes"`
	Cached bool     `json:"cached,omitempty"`
}

type LegalMovesRequest struct {
	Position string `json:"tps"`
}

type LegalMovesResponse struct {
	Moves []string `json:"moves"`
}

type StatusRequest struct {
	Position string `json:"tps"`
}

type StatusResponse struct {
	Over       bool   `json:"over"`
	Winner     string `json:"winner,omitempty"`
	Reason     string `json:"reason,omitempty"`
	WhiteFlats int    `json:"white_flats"`
	BlackFlats int    `json:"black_flats"`
}

type TakumiServer interface {
	Analyze(context.Context, *AnalyzeRequest) (*AnalyzeResponse, error)
	LegalMoves(context.Context, *LegalMovesRequest) (*LegalMovesResponse, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
}

func RegisterTakumiServer(s grpc.ServiceRegistrar, srv TakumiServer) {
	s.RegisterService(&serviceDesc, srv)
}

const serviceName = "takumi.Takumi"

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TakumiServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: analyzeHandler},
		{MethodName: "LegalMoves", Handler: legalMovesHandler},
		{MethodName: "Status", Handler: statusHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func analyzeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AnalyzeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TakumiServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Analyze"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TakumiServer).Analyze(ctx, req.(*AnalyzeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func legalMovesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LegalMovesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TakumiServer).LegalMoves(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/LegalMoves"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TakumiServer).LegalMoves(ctx, req.(*LegalMovesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TakumiServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Status"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TakumiServer).Status(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls a takumi.Takumi server. Every call is sent with the
// JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(Codec)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *Client) Analyze(ctx context.Context, in *AnalyzeRequest, opts ...grpc.CallOption) (*AnalyzeResponse, error) {
	out := new(AnalyzeResponse)
	if err := c.invoke(ctx, "Analyze", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LegalMoves(ctx context.Context, in *LegalMovesRequest, opts ...grpc.CallOption) (*LegalMovesResponse, error) {
	out := new(LegalMovesResponse)
	if err := c.invoke(ctx, "LegalMoves", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	out := new(StatusResponse)
	if err := c.invoke(ctx, "Status", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
