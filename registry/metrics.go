package registry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/modelpath-ai/sdk/plugin"
)

// hookMetrics bundles the instruments recorded around hook execution.
// Instruments that fail to build are left nil and skipped at record time.
type hookMetrics struct {
	executions metric.Int64Counter
	skips      metric.Int64Counter
	duration   metric.Float64Histogram
}

func newHookMetrics(meter metric.Meter) *hookMetrics {
	m := &hookMetrics{}

	m.executions, _ = meter.Int64Counter("sdk.hook.executions",
		metric.WithDescription("Number of hook chain executions"))
	m.skips, _ = meter.Int64Counter("sdk.hook.plugin_skips",
		metric.WithDescription("Plugins skipped by activation condition"))
	m.duration, _ = meter.Float64Histogram("sdk.hook.duration",
		metric.WithDescription("Hook chain execution duration"),
		metric.WithUnit("s"))

	return m
}

func (m *hookMetrics) recordExecution(ctx context.Context, h plugin.Hook, d time.Duration, failed bool) {
	attrs := metric.WithAttributes(
		attribute.String("hook", h.String()),
		attribute.Bool("failed", failed),
	)
	if m.executions != nil {
		m.executions.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds(), attrs)
	}
}

func (m *hookMetrics) recordSkip(ctx context.Context, h plugin.Hook, pluginName string) {
	if m.skips == nil {
		return
	}
	m.skips.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hook", h.String()),
		attribute.String("plugin", pluginName),
	))
}
