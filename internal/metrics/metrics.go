// Package metrics exports flip lifecycle counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/foldview/internal/flip"
	"github.com/five82/foldview/internal/geometry"
)

const namespace = "foldview"

var (
	DirectionLabels = []string{"direction"}

	// AnimationBuckets span a short edge bounce up to a slow full sweep.
	AnimationBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.15, 0.2, 0.3, 0.4, 0.5, 0.75, 1}
)

// Recorder implements flip.Recorder on Prometheus collectors.
type Recorder struct {
	started     *prometheus.CounterVec
	committed   *prometheus.CounterVec
	snappedBack prometheus.Counter
	edge        prometheus.Counter
	conflicts   prometheus.Counter
	rejected    prometheus.Counter
	cancelled   prometheus.Counter
	stale       prometheus.Counter
	animation   prometheus.Histogram
}

var _ flip.Recorder = (*Recorder)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flips_started_total",
			Help:      "Flips that left the beginning state, by direction.",
		}, DirectionLabels),
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flips_committed_total",
			Help:      "Flips whose animation completed, by final direction.",
		}, DirectionLabels),
		snappedBack: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flips_snapped_back_total",
			Help:      "Released flips that were too slow to turn the page and reversed.",
		}),
		edge: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edge_flips_total",
			Help:      "Flips attempted past the first or last page.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_total",
			Help:      "New flips dropped because they opposed a flip in flight.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestures_rejected_total",
			Help:      "Gestures refused because the top leaf had not passed halfway.",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Hard cancellations of every flip in flight.",
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_completions_total",
			Help:      "Animation completions ignored because their flip was gone or superseded.",
		}),
		animation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flip_animation_seconds",
			Help:      "Scheduled flip animation durations.",
			Buckets:   AnimationBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{
		r.started, r.committed, r.snappedBack, r.edge, r.conflicts,
		r.rejected, r.cancelled, r.stale, r.animation,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) FlipStarted(d geometry.Direction) {
	r.started.WithLabelValues(d.String()).Inc()
}

func (r *Recorder) FlipCommitted(d geometry.Direction) {
	r.committed.WithLabelValues(d.String()).Inc()
}

func (r *Recorder) SnappedBack()     { r.snappedBack.Inc() }
func (r *Recorder) EdgeFlip()        { r.edge.Inc() }
func (r *Recorder) Conflict()        { r.conflicts.Inc() }
func (r *Recorder) GestureRejected() { r.rejected.Inc() }
func (r *Recorder) Cancelled()       { r.cancelled.Inc() }
func (r *Recorder) StaleCompletion() { r.stale.Inc() }

func (r *Recorder) AnimationScheduled(d time.Duration) {
	r.animation.Observe(d.Seconds())
}

// Handler serves the gatherer's metrics in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log logr.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
