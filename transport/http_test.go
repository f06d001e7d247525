package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opendevicelab/simtemp"
)

func newTestServer(t *testing.T, cfg simtemp.Config) (*httptest.Server, *simtemp.Device) {
	t.Helper()
	dev, err := simtemp.NewDevice("transport-test", cfg, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	t.Cleanup(func() { dev.Close() })

	srv := httptest.NewServer(NewServer(dev, zerolog.New(io.Discard)))
	t.Cleanup(srv.Close)
	return srv, dev
}

func TestHandleSampleBlocking(t *testing.T) {
	cfg := simtemp.DefaultConfig()
	cfg.PeriodMs = 5
	srv, _ := newTestServer(t, cfg)

	resp, err := http.Get(srv.URL + "/sample")
	if err != nil {
		t.Fatalf("GET /sample: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /sample status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if len(body) != simtemp.SampleSize {
		t.Errorf("body length = %d, want %d", len(body), simtemp.SampleSize)
	}
}

func TestHandleSampleNonBlockingWouldBlock(t *testing.T) {
	cfg := simtemp.DefaultConfig()
	cfg.PeriodMs = simtemp.MaxPeriodMs
	srv, _ := newTestServer(t, cfg)

	resp, err := http.Get(srv.URL + "/sample?nonblocking=1")
	if err != nil {
		t.Fatalf("GET /sample?nonblocking=1: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestHandleSampleMethodNotAllowed(t *testing.T) {
	cfg := simtemp.DefaultConfig()
	srv, _ := newTestServer(t, cfg)

	resp, err := http.Post(srv.URL+"/sample", "application/octet-stream", nil)
	if err != nil {
		t.Fatalf("POST /sample: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHandlePollTimeout(t *testing.T) {
	cfg := simtemp.DefaultConfig()
	cfg.PeriodMs = simtemp.MaxPeriodMs
	srv, _ := newTestServer(t, cfg)

	resp, err := http.Get(srv.URL + "/poll?timeout_ms=20")
	if err != nil {
		t.Fatalf("GET /poll: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestTimeout {
		t.Errorf("status = %d, want 408", resp.StatusCode)
	}
}

func TestAttrSamplingMsGetAndPut(t *testing.T) {
	srv, dev := newTestServer(t, simtemp.DefaultConfig())

	resp, err := http.Get(srv.URL + "/attr/sampling_ms")
	if err != nil {
		t.Fatalf("GET /attr/sampling_ms: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "100") {
		t.Errorf("GET /attr/sampling_ms body = %q, want to contain 100", body)
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/attr/sampling_ms", strings.NewReader("250"))
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /attr/sampling_ms: %v", err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", putResp.StatusCode)
	}
	if dev.SamplingMs() != 250 {
		t.Errorf("SamplingMs() after PUT = %d, want 250", dev.SamplingMs())
	}
}

func TestAttrSamplingMsRejectsInvalid(t *testing.T) {
	srv, _ := newTestServer(t, simtemp.DefaultConfig())

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/attr/sampling_ms", strings.NewReader("notanumber"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAttrModePut(t *testing.T) {
	srv, dev := newTestServer(t, simtemp.DefaultConfig())

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/attr/mode", strings.NewReader("noisy"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /attr/mode: %v", err)
	}
	resp.Body.Close()
	if dev.ModeString() != "noisy" {
		t.Errorf("ModeString() after PUT = %q, want noisy", dev.ModeString())
	}
}

func TestAttrStats(t *testing.T) {
	cfg := simtemp.DefaultConfig()
	cfg.PeriodMs = 5
	srv, _ := newTestServer(t, cfg)

	time.Sleep(30 * time.Millisecond)

	resp, err := http.Get(srv.URL + "/attr/stats")
	if err != nil {
		t.Fatalf("GET /attr/stats: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "total_samples=") {
		t.Errorf("stats body = %q, missing total_samples", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, simtemp.DefaultConfig())

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "simtemp_total_samples") {
		t.Errorf("metrics body missing simtemp_total_samples: %q", body)
	}
}
