package parser

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName names the meter the parser counters are created on.
const InstrumentationName = "github.com/OCAP2/acmi/internal/parser"

func meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}
