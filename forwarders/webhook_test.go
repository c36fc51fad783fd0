package forwarders

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kova98/articleanalyzer.api/metrics"
	"github.com/kova98/articleanalyzer.api/models"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPayload = models.ForwardPayload{
	Email:      "a@b.com",
	ArticleURL: "https://example.com/x",
	SessionID:  "0b6f3a52-5f1e-4bde-9a43-56f0a1a3f1a2",
}

type received struct {
	method      string
	path        string
	contentType string
	payload     models.ForwardPayload
}

func newTestWebhook(t *testing.T, url string, timeout time.Duration) (*Webhook, *metrics.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	return NewWebhook(logger, &http.Client{}, m, url, timeout), m
}

func recordingHandler(t *testing.T, ch chan<- received, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p models.ForwardPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		ch <- received{r.Method, r.URL.Path, r.Header.Get("Content-Type"), p}
		w.WriteHeader(status)
	}
}

func forwardCount(t *testing.T, m *metrics.Metrics, outcome string) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Forwards.WithLabelValues(outcome).Write(&out))
	return out.GetCounter().GetValue()
}

func TestForward_PostsPayload(t *testing.T) {
	ch := make(chan received, 1)
	srv := httptest.NewServer(recordingHandler(t, ch, http.StatusOK))
	defer srv.Close()

	hook, m := newTestWebhook(t, srv.URL+"/webhook/article-analyzer", time.Second)

	require.NoError(t, hook.Forward(context.Background(), testPayload))

	got := <-ch
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/webhook/article-analyzer", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, testPayload, got.payload)
	assert.Equal(t, 1.0, forwardCount(t, m, metrics.OutcomeSuccess))
}

func TestForward_NonSuccessStatusIsError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			ch := make(chan received, 1)
			srv := httptest.NewServer(recordingHandler(t, ch, status))
			defer srv.Close()

			hook, m := newTestWebhook(t, srv.URL, time.Second)

			err := hook.Forward(context.Background(), testPayload)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), http.StatusText(status))
			assert.Equal(t, 1.0, forwardCount(t, m, metrics.OutcomeFailure))
		})
	}
}

func TestForward_UnreachableIsError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	hook, m := newTestWebhook(t, url, time.Second)

	assert.Error(t, hook.Forward(context.Background(), testPayload))
	assert.Equal(t, 1.0, forwardCount(t, m, metrics.OutcomeFailure))
	assert.Equal(t, 0.0, forwardCount(t, m, metrics.OutcomeSuccess))
}

func TestForward_TimeoutIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	hook, _ := newTestWebhook(t, srv.URL, 50*time.Millisecond)

	started := time.Now()
	err := hook.Forward(context.Background(), testPayload)
	assert.Error(t, err)
	assert.Less(t, time.Since(started), time.Second)
}

func TestForward_FollowsRedirects(t *testing.T) {
	ch := make(chan received, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("/new", recordingHandler(t, ch, http.StatusOK))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	hook, _ := newTestWebhook(t, srv.URL+"/old", time.Second)

	require.NoError(t, hook.Forward(context.Background(), testPayload))

	got := <-ch
	assert.Equal(t, "/new", got.path)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, testPayload, got.payload)
}

func TestDispatch_DoesNotWaitForWebhook(t *testing.T) {
	release := make(chan struct{})
	ch := make(chan received, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		recordingHandler(t, ch, http.StatusOK)(w, r)
	}))
	defer srv.Close()

	hook, _ := newTestWebhook(t, srv.URL, 5*time.Second)

	returned := make(chan struct{})
	go func() {
		hook.Dispatch(testPayload)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the webhook call")
	}

	close(release)

	select {
	case got := <-ch:
		assert.Equal(t, testPayload, got.payload)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook never received the payload")
	}
}

type panicTransport struct{}

func (panicTransport) RoundTrip(*http.Request) (*http.Response, error) {
	panic("transport exploded")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDispatch_RecoversFromPanic(t *testing.T) {
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	m := metrics.New(prometheus.NewRegistry())
	hook := NewWebhook(logger, &http.Client{Transport: panicTransport{}}, m, "http://hooks.example.com/webhook", time.Second)

	hook.Dispatch(testPayload)

	assert.Eventually(t, func() bool {
		return forwardCount(t, m, metrics.OutcomeFailure) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "forward panicked")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, logs.String(), testPayload.SessionID)
	assert.Equal(t, 0.0, forwardCount(t, m, metrics.OutcomeSuccess))
}
