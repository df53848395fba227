package directory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"yacen/internal/crypto"
	"yacen/internal/domain"
	"yacen/internal/rpcauth"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "yacen.directory.v1.Directory"

	publishMethod = "/" + ServiceName + "/Publish"
	lookupMethod  = "/" + ServiceName + "/Lookup"

	maxNameLength = 256
)

var (
	contactsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "directory_contacts",
		Help: "Number of contacts held by the directory.",
	})

	lookupsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_lookups_total",
		Help: "Lookups served by the directory, by result.",
	}, []string{"result"})

	throttledCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "directory_throttled_requests_total",
		Help: "Requests rejected by the per-caller rate limit.",
	})
)

// directoryServer is the handler set the service descriptor dispatches to.
type directoryServer interface {
	Publish(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	Lookup(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

// Server is an in-memory contact directory. A contact may only be published
// by the holder of its key, as authenticated by rpcauth.
type Server struct {
	mu       sync.RWMutex
	contacts map[domain.Fingerprint]domain.Contact
	log      logrus.FieldLogger
	limiter  *peerLimiter
	now      func() time.Time
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRateLimit caps each caller key at rps requests per second with the
// given burst. Non-positive values disable the limit.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) { s.limiter = newPeerLimiter(rps, burst) }
}

// NewServer returns an empty directory.
func NewServer(log logrus.FieldLogger, opts ...ServerOption) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		contacts: make(map[domain.Fingerprint]domain.Contact),
		log:      log,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// admit authenticates the caller and applies the rate limit.
func (s *Server) admit(ctx context.Context) (domain.Ed25519Public, error) {
	peer, ok := rpcauth.PeerKey(ctx)
	if !ok {
		return peer, status.Error(codes.Unauthenticated, "request is not authenticated")
	}
	if !s.limiter.allow(peer, s.now()) {
		throttledCounter.Inc()
		return peer, status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}
	return peer, nil
}

// Register attaches the directory to g.
func (s *Server) Register(g *grpc.Server) { g.RegisterService(&serviceDesc, s) }

// NewGRPCServer returns a gRPC server that authenticates every request with
// verifier, signs every response with signer, and serves s. Both are required.
func NewGRPCServer(
	s *Server,
	verifier *rpcauth.RequestVerifier,
	signer *rpcauth.MessageSigner,
	opts ...grpc.ServerOption,
) (*grpc.Server, error) {
	if verifier == nil || signer == nil {
		return nil, errors.New("directory: request verifier and response signer are required")
	}
	opts = append(opts, grpc.UnaryInterceptor(rpcauth.UnaryServerInterceptor(verifier, signer)))
	g := grpc.NewServer(opts...)
	s.Register(g)
	return g, nil
}

// Publish stores the contact carried in req as JSON.
func (s *Server) Publish(ctx context.Context, req *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	peer, err := s.admit(ctx)
	if err != nil {
		return nil, err
	}
	var c domain.Contact
	if err := json.Unmarshal(req.GetValue(), &c); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode contact: %v", err)
	}
	if c.Name == "" || len(c.Name) > maxNameLength {
		return nil, status.Error(codes.InvalidArgument, "contact name must be 1-256 bytes")
	}
	if peer != c.PublicKey {
		return nil, status.Error(codes.PermissionDenied, "contacts may only be published by their key holder")
	}

	fp := crypto.Fingerprint(c.PublicKey.Slice())
	s.mu.Lock()
	s.contacts[fp] = c
	n := len(s.contacts)
	s.mu.Unlock()
	contactsGauge.Set(float64(n))

	s.log.WithFields(logrus.Fields{"fingerprint": fp, "name": c.Name}).Info("contact published")
	return &emptypb.Empty{}, nil
}

// Lookup returns the contact with the given fingerprint as JSON.
func (s *Server) Lookup(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if _, err := s.admit(ctx); err != nil {
		return nil, err
	}
	fp := domain.Fingerprint(req.GetValue())
	s.mu.RLock()
	c, ok := s.contacts[fp]
	s.mu.RUnlock()
	if !ok {
		lookupsCounter.WithLabelValues("not_found").Inc()
		return nil, status.Errorf(codes.NotFound, "no contact for %s", fp)
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode contact: %v", err)
	}
	lookupsCounter.WithLabelValues("found").Inc()
	return wrapperspb.Bytes(b), nil
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*directoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Publish", Handler: publishHandler},
		{MethodName: "Lookup", Handler: lookupHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func publishHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(directoryServer).Publish(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: publishMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(directoryServer).Publish(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func lookupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(directoryServer).Lookup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: lookupMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(directoryServer).Lookup(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
