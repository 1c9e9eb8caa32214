// Package metrics exposes Prometheus counters and histograms for the
// encode/solve/decode pipeline, in the style of the teacher's
// monitoring client and the sapcc-limes collector's metric
// declarations. Unlike the teacher (which scrapes a long-running
// Prometheus), this CLI runs once and exits, so Registry owns a
// private prometheus.Registry and writes its contents to a textfile-
// collector file on request instead of serving /metrics over HTTP.
package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every metric one run of smp_c emits.
type Registry struct {
	reg *prometheus.Registry

	VariablesAllocated *prometheus.CounterVec
	ClausesEmitted     prometheus.Counter
	ConstraintsEmitted prometheus.Counter
	SolverDuration     *prometheus.HistogramVec
	MatchingSize       prometheus.Gauge
}

// NewRegistry builds a Registry with all metrics registered against a
// fresh, private prometheus.Registry.
func NewRegistry() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.VariablesAllocated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smp_c_variables_allocated_total",
		Help: "Encoding variables allocated, by kind label.",
	}, []string{"kind"})

	r.ClausesEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smp_c_clauses_emitted_total",
		Help: "CNF clauses emitted by the SAT encoder.",
	})

	r.ConstraintsEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smp_c_constraints_emitted_total",
		Help: "LP constraints emitted by the MIP encoder.",
	})

	r.SolverDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smp_c_solver_duration_seconds",
		Help:    "Wall-clock time spent inside the external solver process.",
		Buckets: prometheus.DefBuckets,
	}, []string{"solver"})

	r.MatchingSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smp_c_matching_size",
		Help: "Number of residents assigned to a non-nil hospital in the decoded matching.",
	})

	r.reg.MustRegister(
		r.VariablesAllocated,
		r.ClausesEmitted,
		r.ConstraintsEmitted,
		r.SolverDuration,
		r.MatchingSize,
	)
	return r
}

// WriteTextfile renders every registered metric in the Prometheus
// textfile-collector format to path, the way a node_exporter textfile
// collector expects to find it (spec.md's Non-goals exclude a live
// metrics server, not a one-shot dump).
func (r *Registry) WriteTextfile(path string) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gathering metric families: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("metrics: creating textfile %q: %w", path, err)
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encoding metric family %q: %w", mf.GetName(), err)
		}
	}
	return nil
}
