// Package api exposes the subnet calculator over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"

	"subnetcalc/internal/ipv4"
	"subnetcalc/internal/observability"
	"subnetcalc/internal/subnet"
)

type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Server serves the calculator API.
type Server struct {
	mux     *http.ServeMux
	logger  observability.Logger
	metrics *observability.Metrics
}

// NewServer creates a new HTTP server.
// If logger is nil, a default logger will be used.
// If metrics is nil, metrics collection is disabled.
func NewServer(mux *http.ServeMux, logger observability.Logger, metrics *observability.Metrics) *Server {
	if logger == nil {
		logger = observability.NewLogger(observability.DefaultConfig())
	}
	return &Server{mux: mux, logger: logger, metrics: metrics}
}

// RegisterRoutes registers all HTTP routes.
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("/metrics", s.metrics.Handler())
	}
	s.mux.HandleFunc("/api/v1/subnet", s.handleSubnet)
	s.mux.HandleFunc("/api/v1/masks", s.handleMasks)
}

func (s *Server) writeErr(ctx context.Context, w http.ResponseWriter, code int, msg string, detail string) {
	fields := []any{
		"status", code,
		"error", msg,
	}
	if detail != "" {
		fields = append(fields, "detail", detail)
	}
	if code >= 500 {
		s.logger.ErrorContext(ctx, "request failed", fields...)
		sentry.CaptureMessage(fmt.Sprintf("HTTP %d: %s (detail: %s)", code, msg, detail))
	} else {
		s.logger.WarnContext(ctx, "request failed", fields...)
	}
	writeJSON(w, code, apiError{Error: msg, Detail: detail})
}

// writeCalcErr maps a calculator error to an HTTP status code using the
// sentinel errors from the ipv4 package, falling back to 500 for
// anything unrecognized.
func (s *Server) writeCalcErr(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ipv4.ErrNonContiguousMask):
		s.writeErr(ctx, w, http.StatusBadRequest, "invalid mask", err.Error())
	case errors.Is(err, ipv4.ErrInvalidAddress):
		s.writeErr(ctx, w, http.StatusBadRequest, "invalid address", err.Error())
	case errors.Is(err, ipv4.ErrPrefixOutOfRange):
		s.writeErr(ctx, w, http.StatusBadRequest, "invalid prefix length", err.Error())
	default:
		s.writeErr(ctx, w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// calcRequest is the JSON body for POST /api/v1/subnet. Exactly one of
// PrefixLen or Mask must be supplied alongside IP.
type calcRequest struct {
	IP        string `json:"ip"`
	PrefixLen *int   `json:"prefix_len,omitempty"`
	Mask      string `json:"mask,omitempty"`
}

// GET  /api/v1/subnet?ip=192.168.1.10&prefix=24
// GET  /api/v1/subnet?ip=172.16.5.200&mask=255.255.255.128
// POST /api/v1/subnet {"ip": "...", "prefix_len": 24} or {"ip": "...", "mask": "..."}
func (s *Server) handleSubnet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in calcRequest
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		in.IP = strings.TrimSpace(q.Get("ip"))
		in.Mask = strings.TrimSpace(q.Get("mask"))
		if raw := strings.TrimSpace(q.Get("prefix")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				s.writeErr(ctx, w, http.StatusBadRequest, "invalid prefix length", fmt.Sprintf("prefix %q is not an integer", raw))
				return
			}
			in.PrefixLen = &n
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			s.writeErr(ctx, w, http.StatusBadRequest, "invalid json", "")
			return
		}
		in.IP = strings.TrimSpace(in.IP)
		in.Mask = strings.TrimSpace(in.Mask)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodPost}, ", "))
		s.writeErr(ctx, w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	if in.IP == "" {
		s.writeErr(ctx, w, http.StatusBadRequest, "ip is required", "")
		return
	}
	if (in.PrefixLen == nil) == (in.Mask == "") {
		s.writeErr(ctx, w, http.StatusBadRequest, "exactly one of prefix and mask is required", "")
		return
	}

	var (
		result subnet.Subnet
		err    error
		source string
	)
	if in.PrefixLen != nil {
		source = "cidr"
		result, err = subnet.FromCIDR(in.IP, *in.PrefixLen)
	} else {
		source = "mask"
		result, err = subnet.FromMask(in.IP, in.Mask)
	}
	if s.metrics != nil {
		s.metrics.RecordCalculation(source, err == nil)
	}
	if err != nil {
		s.writeCalcErr(ctx, w, err)
		return
	}

	s.logger.InfoContext(ctx, "subnet computed",
		"source", source,
		"ip", in.IP,
		"prefix_len", result.PrefixLen,
		"network", result.Network,
	)
	writeJSON(w, http.StatusOK, result)
}

// maskInfo describes one canonical mask for mask pickers.
type maskInfo struct {
	PrefixLen  int    `json:"prefix_len"`
	Mask       string `json:"mask"`
	TotalHosts int64  `json:"total_hosts"`
}

// GET /api/v1/masks
// Returns the 33 canonical dotted-decimal masks ordered by prefix length.
func (s *Server) handleMasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErr(r.Context(), w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	masks := ipv4.CanonicalMasks()
	out := make([]maskInfo, 0, len(masks))
	for _, m := range masks {
		network := uint32(0)
		broadcast := network | ^uint32(m)
		out = append(out, maskInfo{
			PrefixLen:  m.Bits(),
			Mask:       m.String(),
			TotalHosts: int64(broadcast) - int64(network) - 1,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
