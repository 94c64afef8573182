package sqlite

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

// The audit trail is an append-only record of every status a given order has
// been through. Each row carries the W3C trace and span ids that were active
// when it was written, so a row can be joined directly to the distributed
// trace of the request that caused the transition.

func traceIDFromContext(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

func spanIDFromContext(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}

func (r *orderRepo) History(ctx context.Context, orderID string) ([]domain.AuditEntry, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT order_id, status, actor, trace_id, span_id, created_at
		 FROM   order_audit
		 WHERE  order_id = ?
		 ORDER  BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: order %q history: %w", orderID, err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var createdAt string
		if err := rows.Scan(&e.OrderID, &e.Status, &e.Actor, &e.TraceID, &e.SpanID, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan audit entry: %w", err)
		}
		if e.CreatedAt, err = parseRFC3339(createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
