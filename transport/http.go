// http.go: HTTP realization of the stream and control endpoints (§6)

// Package transport exposes a simtemp.Device over HTTP: the stream
// endpoint as a binary Sample GET, and the control endpoint as the four
// named text attributes from §4.6, one path per attribute, mirroring
// the original driver's sysfs files rather than bundling them behind a
// single JSON blob. A GET is a sysfs "show", a PUT is a sysfs "store".
//
// §6 frames the control/stream surface as transport-agnostic ("a
// filesystem path, an HTTP key/value endpoint, or a local socket; the
// contract is the same"); HTTP is the one this package implements. No
// HTTP router library appears anywhere in the retrieval pack this module
// was built from, so the stdlib http.ServeMux is used directly — see
// DESIGN.md for the corpus check backing that choice.
package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/opendevicelab/simtemp"
)

// Server adapts a *simtemp.Device to net/http, exposing the stream
// endpoint at /sample, the four control attributes under /attr/, and
// Prometheus instrumentation at /metrics.
type Server struct {
	dev *simtemp.Device
	log zerolog.Logger
	mux *http.ServeMux
}

// NewServer builds a Server for dev. The returned Server implements
// http.Handler and can be mounted directly or wrapped by http.Server.
func NewServer(dev *simtemp.Device, log zerolog.Logger) *Server {
	s := &Server{dev: dev, log: log, mux: http.NewServeMux()}

	s.mux.HandleFunc("/sample", s.handleSample)
	s.mux.HandleFunc("/poll", s.handlePoll)
	s.mux.HandleFunc("/attr/sampling_ms", s.handleSamplingMs)
	s.mux.HandleFunc("/attr/threshold_mC", s.handleThresholdMC)
	s.mux.HandleFunc("/attr/mode", s.handleMode)
	s.mux.HandleFunc("/attr/stats", s.handleStats)
	s.mux.Handle("/metrics", promhttp.HandlerFor(dev.Registry(), promhttp.HandlerOpts{}))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleSample implements the stream endpoint's read: GET /sample
// returns exactly SampleSize bytes of the wire format (§6). A
// "?nonblocking=1" query parameter maps to §4.5's non-blocking read and
// yields 503 Service Unavailable with ErrWouldBlock's text as the body on
// an empty buffer rather than suspending.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	nonBlocking := r.URL.Query().Get("nonblocking") == "1"

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := s.dev.WriteSampleTo(r.Context(), w, nonBlocking); err != nil {
		writeError(w, err)
		return
	}
}

// handlePoll implements §4.5 poll: GET /poll?timeout_ms=500 blocks up to
// timeout_ms (default 1000) and reports readiness. 204 means ready, 408
// means the timeout elapsed with the buffer still empty.
func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	timeoutMs := 1000
	if v := r.URL.Query().Get("timeout_ms"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, simtemp.ErrInvalidArgument.Error(), http.StatusBadRequest)
			return
		}
		timeoutMs = parsed
	}

	ready, err := s.dev.Poll(r.Context(), time.Duration(timeoutMs)*time.Millisecond)
	if err != nil {
		writeError(w, err)
		return
	}
	if ready {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Error(w, "timeout", http.StatusRequestTimeout)
}

func (s *Server) handleSamplingMs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		fmt.Fprintf(w, "%d\n", s.dev.SamplingMs())
	case http.MethodPut, http.MethodPost:
		ms, err := readIntAttr(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.dev.SetSamplingMs(ms); err != nil {
			writeError(w, err)
			return
		}
		fmt.Fprintf(w, "%d\n", s.dev.SamplingMs())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleThresholdMC(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		fmt.Fprintf(w, "%d\n", s.dev.ThresholdMC())
	case http.MethodPut, http.MethodPost:
		mc, err := readIntAttr(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.dev.SetThresholdMC(int32(mc)); err != nil {
			writeError(w, err)
			return
		}
		fmt.Fprintf(w, "%d\n", s.dev.ThresholdMC())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		fmt.Fprintf(w, "%s\n", s.dev.ModeString())
	case http.MethodPut, http.MethodPost:
		body, err := readBodyAttr(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.dev.SetMode(body); err != nil {
			writeError(w, err)
			return
		}
		fmt.Fprintf(w, "%s\n", s.dev.ModeString())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	io.WriteString(w, s.dev.StatsText())
}

func readIntAttr(r *http.Request) (int, error) {
	body, err := readBodyAttr(r)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		return 0, simtemp.ErrInvalidArgument
	}
	return n, nil
}

func readBodyAttr(r *http.Request) (string, error) {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, 256))
	if err != nil {
		return "", fmt.Errorf("%w: %v", simtemp.ErrIOError, err)
	}
	return string(data), nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, simtemp.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, simtemp.ErrWouldBlock):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, simtemp.ErrInterrupted):
		http.Error(w, err.Error(), http.StatusGone)
	case errors.Is(err, simtemp.ErrIOError):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
