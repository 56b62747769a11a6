// Command controlplaned runs the control-plane server against a real
// NATS deployment: client streams connect over a rendezvous subject,
// UCX addresses are persisted in a JetStream KV bucket so uniqueness
// survives a restart, and subscription-service membership updates are
// diffused on the usual schedule.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AjayThorve/MRC/internal/clientregistry"
	"github.com/AjayThorve/MRC/internal/logging"
	"github.com/AjayThorve/MRC/internal/metrics"
	"github.com/AjayThorve/MRC/server"
	"github.com/AjayThorve/MRC/transport"
)

func main() {
	defaultNATSURL := nats.DefaultURL
	if v := os.Getenv("NATS_URL"); v != "" {
		defaultNATSURL = v
	}

	natsURL := flag.String("nats-url", defaultNATSURL, "NATS server URL")
	connectSubject := flag.String("connect-subject", "mrc.connect", "subject clients publish a connect request on")
	kvBucket := flag.String("kv-bucket", "mrc-ucx-addresses", "JetStream KV bucket for UCX address claims")
	listenAddress := flag.String("listen-address", "0.0.0.0:4430", "advertised address, for logging only")
	metricsAddress := flag.String("metrics-address", "", "address to serve /metrics on, empty to disable")
	flag.Parse()

	logger := logging.NewSlogDefault()

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Fatalf("connect to NATS: %v", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		log.Fatalf("init JetStream: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: *kvBucket})
	cancel()
	if err != nil {
		log.Fatalf("create KV bucket %s: %v", *kvBucket, err)
	}
	addressStore := clientregistry.NewJetStreamAddressStore(kv)

	acceptor, err := transport.NewNATSAcceptor(nc, *connectSubject, 128)
	if err != nil {
		log.Fatalf("start NATS acceptor: %v", err)
	}

	cfg := server.DefaultConfig()
	cfg.ListenAddress = *listenAddress

	var collector *metrics.PrometheusCollector
	registry := prometheus.NewRegistry()
	if *metricsAddress != "" {
		collector = metrics.NewPrometheus(registry, "mrc")
		go serveMetrics(*metricsAddress, registry, logger)
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithAddressStore(addressStore),
	}
	if collector != nil {
		opts = append(opts, server.WithMetrics(collector))
	}

	srv, err := server.New(cfg, acceptor, opts...)
	if err != nil {
		log.Fatalf("construct server: %v", err)
	}

	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("start server: %v", err)
	}
	logger.Info("controlplaned started", "natsURL", *natsURL, "connectSubject", *connectSubject)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	_ = acceptor.Close()
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *logging.SlogLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil { //nolint:gosec // operator-controlled bind address, no timeouts needed for a metrics-only mux
		logger.Error("metrics server exited", "error", err)
	}
}
