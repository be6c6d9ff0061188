package gateway

import (
	"context"
	"errors"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophnotes/internal/conversation"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// Handler is the conversation engine as seen by the gateway.
type Handler interface {
	Handle(ctx context.Context, chatID int64, text string) []conversation.Reply
}

type GRPCServer struct {
	address   string
	engine    Handler
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, h Handler, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_gateway"),
		engine:    h,
		jwtSecret: []byte(secretKey),
	}
}

// newServer builds the grpc.Server with the service and interceptors
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	RegisterChatGatewayServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, l net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC gateway...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC gateway", "address", l.Addr().String())

	// stopping before Serve got going is still a clean stop
	if err := srv.Serve(l); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}

func (s *GRPCServer) Deliver(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	chatID, text, err := decodeRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	allowed, ok := chatIDFromContext(ctx)
	if !ok || allowed != chatID {
		s.logger.Warn(ctx, "chat id does not match token", "chat_id", chatID)
		return nil, status.Error(codes.PermissionDenied, "token is not valid for this chat")
	}

	replies := s.engine.Handle(ctx, chatID, text)
	return encodeReplies(replies), nil
}
