package analyzer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AnalysesTotal counts finished analyses by outcome: "ok", "partial" when
// the tree could not be built, or the error kind.
var AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "evm_tx_analyzer_analyses_total",
	Help: "Total number of transaction analyses by outcome",
}, []string{"outcome"})
