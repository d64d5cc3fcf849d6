package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publication_records_total",
			Help: "Total number of publication records read",
		},
		[]string{"status"}, // status: accepted, rejected
	)

	SourceAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_source_attempts_total",
			Help: "Total number of attempts to read the publication source",
		},
		[]string{"result"}, // result: success, retry, error
	)

	SourceRetryWaits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "record_source_retry_wait_seconds",
			Help:    "Backoff waited before retrying the publication source",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	GraphLoadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graph_load_errors_total",
			Help: "Total number of failed dataset loads",
		},
	)

	GraphBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graph_build_duration_seconds",
			Help:    "Duration of loading records and building the co-authorship graph",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	// Graph metrics
	GraphNodesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graph_nodes_total",
			Help: "Number of author nodes in the graph",
		},
	)

	GraphLinksTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graph_links_total",
			Help: "Number of co-authorship links",
		},
		[]string{"status"}, // status: kept, dropped
	)

	GraphCountriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graph_countries_total",
			Help: "Number of distinct author countries",
		},
	)

	// Simulation metrics
	SimulationTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simulation_ticks_total",
			Help: "Total number of simulation ticks executed",
		},
	)

	SimulationTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "simulation_tick_duration_seconds",
			Help:    "Duration of a single simulation tick",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	SimulationAlpha = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simulation_alpha",
			Help: "Current simulation temperature",
		},
	)

	SimulationKineticEnergy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simulation_kinetic_energy",
			Help: "Sum of squared node velocities after the last tick",
		},
	)

	SimulationState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simulation_state",
			Help: "Cooling state (0=cold, 1=warm, 2=settling)",
		},
	)

	SimulationPinnedNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simulation_pinned_nodes",
			Help: "Number of nodes currently pinned by drag interaction",
		},
	)

	SimulationReheats = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulation_reheats_total",
			Help: "Total number of times the simulation was warmed",
		},
		[]string{"reason"}, // reason: start, params, pin, restart
	)

	SnapshotSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_subscribers",
			Help: "Number of active snapshot subscribers",
		},
	)

	SnapshotsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshots_dropped_total",
			Help: "Snapshots not delivered because a subscriber was behind",
		},
	)

	// API cache metrics
	APICacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_cache_hits_total",
			Help: "Total number of API cache hits",
		},
		[]string{"endpoint"},
	)

	APICacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_cache_misses_total",
			Help: "Total number of API cache misses",
		},
		[]string{"endpoint"},
	)

	// API request metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Metrics collection error tracking
	MetricsCollectionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrics_collection_errors_total",
			Help: "Total number of errors during metrics collection",
		},
		[]string{"collector"},
	)

	// WebSocket metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of active WebSocket connections",
		},
	)

	WebSocketMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent to clients",
		},
	)
)
