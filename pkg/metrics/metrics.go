package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bpsolver/bpsolver/pkg/api"
)

const (
	Namespace = "bpsolver"

	VerdictLabel = "verdict"
	SourceLabel  = "source"
	BackendLabel = "backend"
)

// Recorder collects solver metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	decisions  *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	nodes      prometheus.Counter
	backtracks prometheus.Counter
	props      prometheus.Counter
	depth      prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "decisions_total",
				Help:      "Total number of feasibility decisions by verdict and deciding stage",
			},
			[]string{VerdictLabel, SourceLabel, BackendLabel},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "decision_duration_seconds",
				Help:      "Duration of feasibility decisions in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{SourceLabel},
		),
		nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "nodes_total",
			Help:      "Total number of search branches",
		}),
		backtracks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "backtracks_total",
			Help:      "Total number of refuted search branches",
		}),
		props: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "propagations_total",
			Help:      "Total number of propagator applications",
		}),
		depth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "max_depth",
			Help:      "Deepest branch reached per decision",
			Buckets:   prometheus.LinearBuckets(0, 4, 10),
		}),
	}
	r.registry.MustRegister(r.decisions, r.duration, r.nodes, r.backtracks, r.props, r.depth)
	return r
}

// Observe records a single decision.
func (r *Recorder) Observe(res *api.Result) {
	r.decisions.WithLabelValues(string(res.Verdict), string(res.Source), string(res.Backend)).Inc()
	r.duration.WithLabelValues(string(res.Source)).Observe(res.Stats.Elapsed.Seconds())
	if res.Source != api.SourceSearch {
		return
	}
	r.nodes.Add(float64(res.Stats.Nodes))
	r.backtracks.Add(float64(res.Stats.Backtracks))
	r.props.Add(float64(res.Stats.Propagations))
	r.depth.Observe(float64(res.Stats.MaxDepth))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in the text exposition format, as picked
// up by the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
