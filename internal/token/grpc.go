package token

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/krishisakhi/sakhi-session/internal/model"
)

// VerifyTokenMethod is the full method name of the backend verification RPC.
const VerifyTokenMethod = "/krishisakhi.auth.v1.Auth/VerifyToken"

var _ model.TokenVerifier = (*GRPC)(nil)

// GRPC asks the Krishi Sakhi auth backend whether a token is still valid.
type GRPC struct {
	conn    grpc.ClientConnInterface
	timeout time.Duration
}

// NewGRPC creates a remote verifier. A zero timeout leaves the deadline to
// the caller's context.
func NewGRPC(conn grpc.ClientConnInterface, timeout time.Duration) *GRPC {
	return &GRPC{conn: conn, timeout: timeout}
}

// Verify calls the backend. Unauthenticated answers are rejections; every
// other failure is returned as an error.
func (g *GRPC) Verify(ctx context.Context, token string) (bool, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out := new(wrapperspb.BoolValue)
	err := g.conn.Invoke(ctx, VerifyTokenMethod, wrapperspb.String(token), out)
	if status.Code(err) == codes.Unauthenticated {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to call token verification: %w", err)
	}
	return out.GetValue(), nil
}
