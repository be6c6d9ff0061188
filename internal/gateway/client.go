package gateway

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/conversation"
)

// GRPCClient talks to a remote gateway on behalf of one token.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, c.accessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a client for endpointURL. Extra dial options are
// appended to the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

// Deliver sends one chat message and returns the engine's replies.
func (c *GRPCClient) Deliver(ctx context.Context, chatID int64, text string) ([]conversation.Reply, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, DeliverMethod, encodeRequest(chatID, text), out); err != nil {
		return nil, err
	}

	replies, err := decodeReplies(out)
	if err != nil {
		return nil, fmt.Errorf("malformed gateway response: %w", err)
	}
	return replies, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
