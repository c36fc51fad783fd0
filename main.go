package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/proxy"

	"github.com/kova98/articleanalyzer.api/config"
	"github.com/kova98/articleanalyzer.api/forwarders"
	"github.com/kova98/articleanalyzer.api/handlers"
	"github.com/kova98/articleanalyzer.api/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadConfig(); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, config.Config)
	slog.SetDefault(logger)

	client, err := httpClient(config.Config.ProxyURL, config.Config.ForwardTimeout)
	if err != nil {
		slog.Error("failed to create http client", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	webhook := forwarders.NewWebhook(logger, client, m, config.Config.WebhookURL, config.Config.ForwardTimeout)

	server := &http.Server{
		Addr:              config.Config.Addr(),
		Handler:           routes(webhook, m, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	slog.Info("Starting server", "addr", ln.Addr().String(), "env", config.Config.AppEnv, "webhook", redactURL(config.Config.WebhookURL))
	if err := serve(server, ln, sigCh, shutdownTimeout); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// serve runs server on ln until stop fires, then drains in-flight requests
// for at most timeout before returning. In-flight forwards are not waited for.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		<-stop
		slog.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		done <- server.Shutdown(ctx)
	}()

	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

// newLogger writes human-readable text in development and JSON everywhere else.
func newLogger(w io.Writer, cfg config.AppConfig) *slog.Logger {
	opts := slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.AppEnv == config.EnvDevelopment {
		return slog.New(slog.NewTextHandler(w, &opts))
	}
	return slog.New(slog.NewJSONHandler(w, &opts))
}

func routes(dispatcher handlers.Dispatcher, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	status := handlers.NewStatusHandler()
	submit := handlers.NewSubmitHandler(dispatcher, m)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", public(status.GetStatus))
	mux.HandleFunc("POST /submit", public(submit.Submit))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return withCORS(mux)
}

func httpClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{Timeout: timeout}

	if proxyURL == "" {
		return client, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, err
	}
	if parsedURL.Scheme != "socks5" {
		return client, nil
	}

	// SOCKS5 proxy with authentication
	var auth *proxy.Auth
	if parsedURL.User != nil {
		password, _ := parsedURL.User.Password()
		auth = &proxy.Auth{
			User:     parsedURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}
	slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)

	return client, nil
}

// redactURL keeps scheme and host; webhook paths often embed secrets.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid"
	}
	return u.Scheme + "://" + u.Host
}

// withCORS allows every origin, method and header. The request Origin is
// echoed back because a literal "*" is not accepted alongside credentials.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT")
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				w.Header().Set("Access-Control-Allow-Headers", strings.TrimSpace(reqHeaders))
			}
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code == http.StatusInternalServerError {
		slog.Error("internal error", "error", res.Error.Error())
	}
}
