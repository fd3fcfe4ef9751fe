package obs

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

const maxStatementLen = 300

var (
	_ pgx.QueryTracer = PGXTracer{}
	_ pgx.BatchTracer = PGXTracer{}
)

// PGXTracer emits one span per configuration or registry query, and one per batch.
type PGXTracer struct{}

// TraceQueryStart starts a span named after the SQL verb.
func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx, _ = startDBSpan(ctx, "pgx "+sqlOperation(data.SQL),
		attribute.String("db.statement", truncateSQL(data.SQL)),
		attribute.String("db.operation", sqlOperation(data.SQL)),
	)
	return ctx
}

// TraceQueryEnd ends the query span, recording rows affected or the error.
func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	endDBSpan(trace.SpanFromContext(ctx), data.Err, data.CommandTag.RowsAffected())
}

// TraceBatchStart starts a span covering a whole pgx.Batch.
func (PGXTracer) TraceBatchStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceBatchStartData) context.Context {
	size := 0
	if data.Batch != nil {
		size = data.Batch.Len()
	}
	ctx, _ = startDBSpan(ctx, "pgx batch", attribute.Int("db.batch.size", size))
	return ctx
}

// TraceBatchQuery adds an event for each statement of the batch.
func (PGXTracer) TraceBatchQuery(ctx context.Context, _ *pgx.Conn, data pgx.TraceBatchQueryData) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("batch.query", trace.WithAttributes(
		attribute.String("db.operation", sqlOperation(data.SQL)),
	))
	if data.Err != nil {
		span.RecordError(data.Err)
	}
}

// TraceBatchEnd ends the batch span.
func (PGXTracer) TraceBatchEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceBatchEndData) {
	endDBSpan(trace.SpanFromContext(ctx), data.Err, -1)
}

func startDBSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer("transactpay.pgx").Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("db.system", "postgresql"))
	span.SetAttributes(attrs...)
	if shopID := shop.ID(ctx); shopID != "" {
		span.SetAttributes(attribute.String("shop.id", shopID))
	}
	return ctx, span
}

func endDBSpan(span trace.Span, err error, rows int64) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if rows >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", rows))
	}
	span.End()
}

func sqlOperation(sql string) string {
	if fields := strings.Fields(sql); len(fields) > 0 {
		return strings.ToUpper(fields[0])
	}
	return "QUERY"
}

func truncateSQL(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) > maxStatementLen {
		return trimmed[:maxStatementLen] + "..."
	}
	return trimmed
}
