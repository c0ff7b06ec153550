package router

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/mindweave/mindweave-server/internal/api/grpc/health"
	"github.com/mindweave/mindweave-server/internal/testutil"
)

type pingOK struct{}

func (pingOK) Ping(context.Context) error { return nil }

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	log := testutil.MakeNoopLogger()
	checker := health.NewChecker(pingOK{}, time.Hour, log)
	checker.Check(context.Background())

	s := New(checker, log).Register()
	info := s.GetServiceInfo()
	assert.Contains(t, info, "grpc.health.v1.Health")
	assert.Contains(t, info, "grpc.reflection.v1.ServerReflection")

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: health.JournalService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
