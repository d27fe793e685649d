package health

import (
	"context"
	"time"

	"github.com/fekuna/stockmanager/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDMetadataKey = "x-request-id"

// RequestIDFromIncoming returns the caller supplied request id, if any.
func RequestIDFromIncoming(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(requestIDMetadataKey); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// LoggingInterceptor tags every unary call with a request id (echoed in the response header)
// and logs its outcome.
func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqID := RequestIDFromIncoming(ctx)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDMetadataKey, reqID))

		resp, err := handler(ctx, req)

		log.Info("grpc_request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0),
			zap.String("request_id", reqID),
		)
		return resp, err
	}
}
