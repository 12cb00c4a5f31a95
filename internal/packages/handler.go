package packages

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/package-lab/internal/identity"
	"github.com/JaimeStill/package-lab/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var createTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "package_lab_packages_create_total",
		Help: "Create package invocations by response status code.",
	},
	[]string{"status"},
)

// Event is one transport-neutral create invocation.
type Event struct {
	Body   string          `json:"body"`
	Claims identity.Claims `json:"claims"`
}

// Response is the transport-neutral outcome of an Event.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Handler adapts create invocations to a System.
type Handler struct {
	sys         System
	keys        identity.ClaimKeys
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler. maxBodySize bounds HTTP request bodies;
// zero or less disables the bound.
func NewHandler(sys System, keys identity.ClaimKeys, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		keys:        keys,
		logger:      logger.With("handler", "packages"),
		maxBodySize: maxBodySize,
	}
}

// Handle processes one Event. A fresh identity Context is scoped to the
// call and destroyed on every exit path.
func (h *Handler) Handle(ctx context.Context, ev Event) Response {
	var req PackageRequest
	if ev.Body != "" {
		if err := json.Unmarshal([]byte(ev.Body), &req); err != nil {
			h.requestLogger(ctx).Debug("malformed request body", "error", err)
			req = PackageRequest{}
		}
	}

	ic := identity.NewContext(h.keys)
	release := ic.Scope(ev.Claims)
	defer release()

	ctx = identity.WithContext(ctx, ic)

	resp := h.create(ctx, req)
	createTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	return resp
}

func (h *Handler) create(ctx context.Context, req PackageRequest) Response {
	user, err := identity.UserFromContext(ctx)
	if err != nil {
		return h.failure(ctx, err)
	}

	result, err := h.sys.Create(ctx, req, user)
	if err != nil {
		return h.failure(ctx, err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		return h.failure(ctx, err)
	}

	return Response{StatusCode: http.StatusOK, Body: string(body)}
}

// requestLogger tags records with the transport request id, when present.
func (h *Handler) requestLogger(ctx context.Context) *slog.Logger {
	if id := middleware.RequestID(ctx); id != "" {
		return h.logger.With("request_id", id)
	}
	return h.logger
}

func (h *Handler) failure(ctx context.Context, err error) Response {
	status := MapHTTPStatus(err)
	logger := h.requestLogger(ctx)

	if status == http.StatusInternalServerError {
		logger.Error("create package failed", "error", err, "status", status)
		return Response{StatusCode: status, Body: "Error: " + err.Error()}
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		logger.Warn("create package rejected", "error", ve.Detail(), "status", status)
	} else {
		logger.Warn("create package rejected", "error", err, "status", status)
	}

	return Response{StatusCode: status, Body: err.Error()}
}
