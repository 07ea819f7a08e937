// Package api implements the Analytics Admin v1beta compatible HTTP surface of
// the twin.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apperrors "github.com/louisbranch/ga4-admin-mcp/internal/platform/errors"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/admintwin/store"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// Handler serves the twin routes from a memory store.
type Handler struct {
	store *store.MemoryStore
}

// NewHandler creates a handler over s.
func NewHandler(s *store.MemoryStore) *Handler {
	return &Handler{store: s}
}

// NewRouter returns a router with the API and admin routes mounted.
func NewRouter(s *store.MemoryStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	NewHandler(s).Routes(r)
	return otelhttp.NewHandler(r, "admintwin")
}

// Routes mounts the v1beta routes and the twin's admin extras.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1beta", func(r chi.Router) {
		r.Get("/accountSummaries", h.ListAccountSummaries)
		r.Route("/properties/{property}", func(r chi.Router) {
			r.Get("/dataStreams", h.ListDataStreams)
			r.Get("/customDimensions", h.ListCustomDimensions)
			r.Post("/customDimensions", h.CreateCustomDimension)
			r.Get("/conversionEvents", h.ListConversionEvents)
			r.Post("/conversionEvents", h.CreateConversionEvent)
		})
	})

	r.Get("/admin/state", h.AdminState)
	r.Post("/admin/state", h.AdminLoadState)
	r.Post("/admin/reset", h.AdminReset)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apperrors.New(apperrors.CodeNotFound, "Requested entity was not found."))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apperrors.New(apperrors.CodeUnimplemented, "Method not found."))
	})
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

type errorBody struct {
	Error errorStatus `json:"error"`
}

type errorStatus struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Details []json.RawMessage `json:"details,omitempty"`
}

// writeError writes the Google JSON error envelope for err. Errors that are
// not *apperrors.Error become INTERNAL.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.CodeInternal, "Internal error encountered.", err)
	}
	status := appErr.Code.HTTPStatus()
	body := errorStatus{
		Code:    status,
		Message: appErr.Message,
		Status:  string(appErr.Code),
	}
	if detail, err := marshalDetail(appErr.ErrorInfo()); err != nil {
		log.Printf("encode error detail: %v", err)
	} else {
		body.Details = []json.RawMessage{detail}
	}
	writeJSON(w, status, errorBody{Error: body})
}

// marshalDetail renders a status detail the way Google APIs do: the message
// packed in an Any, with its "@type" inlined.
func marshalDetail(msg proto.Message) (json.RawMessage, error) {
	packed, err := anypb.New(msg)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(packed)
}
