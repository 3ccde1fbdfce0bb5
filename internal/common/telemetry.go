package common

import (
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Metrics struct {
	DeparturesAddedTotal    prometheus.Counter
	DeparturesDepartedTotal prometheus.Counter
	DeparturesDeletedTotal  prometheus.Counter
	OperationErrorsTotal    *prometheus.CounterVec
	RegisterSize            prometheus.Gauge
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		DeparturesAddedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_departures_added_total",
				Help: "Departures added to the register",
			},
		),
		DeparturesDepartedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_departures_departed_total",
				Help: "Departures removed because the clock passed their effective departure time",
			},
		),
		DeparturesDeletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_departures_deleted_total",
				Help: "Departures deleted by an operator",
			},
		),
		OperationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_operation_errors_total",
				Help: "Register operations rejected with an error",
			},
			[]string{"operation"},
		),
		RegisterSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dispatch_register_size",
				Help: "Departures currently in the register",
			},
		),
	}

	registry.MustRegister(
		metrics.DeparturesAddedTotal,
		metrics.DeparturesDepartedTotal,
		metrics.DeparturesDeletedTotal,
		metrics.OperationErrorsTotal,
		metrics.RegisterSize,
	)

	return metrics
}

type TelemetryServer struct {
	addr     string
	mux      *http.ServeMux
	registry *prometheus.Registry
	logger   *zap.Logger

	server   *http.Server
	listener net.Listener
}

func NewTelemetryServer(addr string, logger *zap.Logger) *TelemetryServer {
	telemetry := &TelemetryServer{
		addr:     addr,
		registry: prometheus.NewRegistry(),
		mux:      http.NewServeMux(),
		logger:   logger,
	}

	telemetry.mux.Handle(
		"/metrics",
		promhttp.HandlerFor(telemetry.registry, promhttp.HandlerOpts{}),
	)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dispatch_build_info",
			Help: "Build metadata",
		},
		[]string{"version", "git_commit"},
	)

	telemetry.registry.MustRegister(
		collectors.NewGoCollector(), // Go runtime metrics
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
	)

	buildInfo.WithLabelValues(Version, GitCommit).Set(1)

	telemetry.mux.HandleFunc("/debug/pprof/", pprof.Index)
	telemetry.mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	telemetry.mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	telemetry.mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	telemetry.mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return telemetry
}

func (telemetry *TelemetryServer) GetRegistry() *prometheus.Registry {
	return telemetry.registry
}

func (telemetry *TelemetryServer) Start() error {
	telemetry.server = &http.Server{
		Addr:              telemetry.addr,
		Handler:           telemetry.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	listener, err := net.Listen("tcp", telemetry.addr)
	if err != nil {
		return err
	}

	telemetry.listener = listener

	go func() {
		if err := telemetry.server.Serve(telemetry.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.logger.Error("telemetry server stopped", zap.Error(err))
		}
	}()

	telemetry.logger.Info("telemetry server started", zap.String("addr", listener.Addr().String()))
	return nil
}

// Addr is the bound listen address, useful when started on port 0.
func (telemetry *TelemetryServer) Addr() string {
	if telemetry.listener == nil {
		return telemetry.addr
	}
	return telemetry.listener.Addr().String()
}

func (telemetry *TelemetryServer) Stop() error {
	if telemetry.server == nil {
		return nil
	}

	return telemetry.server.Close()
}
