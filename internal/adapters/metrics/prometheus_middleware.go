package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/mars-sim/mars-sim-sub055/internal/application/mediator"
)

// PrometheusMiddleware times every request passing through the mediator.
// Requests are labelled by bare type name, so
// "*commands.RunSimulationCommand" is recorded as "RunSimulationCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(requestName(request), time.Since(start).Seconds(), err)

		return response, err
	}
}

func requestName(request mediator.Request) string {
	if request == nil {
		return "unknown"
	}
	t := reflect.TypeOf(request)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return strings.TrimPrefix(t.String(), "*")
	}
	return t.Name()
}
