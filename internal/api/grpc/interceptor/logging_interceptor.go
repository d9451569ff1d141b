package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
)

const requestIDKey = "x-request-id"

type LoggingInterceptor struct{}

func NewLoggingInterceptor() *LoggingInterceptor {
	return &LoggingInterceptor{}
}

// Unary returns a server interceptor that tags each call with a request id and logs its outcome
func (i *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requestID := i.extractRequestID(ctx)
		l := logger.Get().With("request_id", requestID, "method", info.FullMethod)
		ctx = logger.NewContext(ctx, l)

		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		if err != nil {
			l.Warn("gRPC call failed", "code", code.String(), "duration_ms", time.Since(start).Milliseconds(), "error", err)
		} else {
			l.Debug("gRPC call", "code", code.String(), "duration_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}

func (i *LoggingInterceptor) extractRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if ids := md.Get(requestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}
