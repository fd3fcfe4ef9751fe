package obs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/obs"
)

func TestInitTracerDisabledExporter(t *testing.T) {
	shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{ServiceName: "transactpay-module", Exporter: "none"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracerUnknownExporter(t *testing.T) {
	shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{Exporter: "zipkin"})
	require.ErrorContains(t, err, "unsupported tracing exporter")
	require.NotNil(t, shutdown)
}
