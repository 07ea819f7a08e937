package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/louisbranch/ga4-admin-mcp/internal/platform/errors"
	"github.com/louisbranch/ga4-admin-mcp/internal/platform/pagination"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/admintwin/store"
)

var pageSizes = pagination.PageSizeConfig{Default: 50, Max: 200}

type listAccountSummariesResponse struct {
	AccountSummaries []store.AccountSummary `json:"accountSummaries,omitempty"`
	NextPageToken    string                 `json:"nextPageToken,omitempty"`
}

type listDataStreamsResponse struct {
	DataStreams   []store.DataStream `json:"dataStreams,omitempty"`
	NextPageToken string             `json:"nextPageToken,omitempty"`
}

type listCustomDimensionsResponse struct {
	CustomDimensions []store.CustomDimension `json:"customDimensions,omitempty"`
	NextPageToken    string                  `json:"nextPageToken,omitempty"`
}

type listConversionEventsResponse struct {
	ConversionEvents []store.ConversionEvent `json:"conversionEvents,omitempty"`
	NextPageToken    string                  `json:"nextPageToken,omitempty"`
}

type createCustomDimensionRequest struct {
	ParameterName              string `json:"parameterName"`
	DisplayName                string `json:"displayName"`
	Description                string `json:"description"`
	Scope                      string `json:"scope"`
	DisallowAdsPersonalization bool   `json:"disallowAdsPersonalization"`
}

type createConversionEventRequest struct {
	EventName string `json:"eventName"`
}

// ListAccountSummaries handles GET /v1beta/accountSummaries
func (h *Handler) ListAccountSummaries(w http.ResponseWriter, r *http.Request) {
	summaries := h.store.AccountSummaries()
	start, end, next, err := pageWindow(r, len(summaries))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listAccountSummariesResponse{
		AccountSummaries: summaries[start:end],
		NextPageToken:    next,
	})
}

// ListDataStreams handles GET /v1beta/properties/{property}/dataStreams
func (h *Handler) ListDataStreams(w http.ResponseWriter, r *http.Request) {
	streams, err := h.store.DataStreams(chi.URLParam(r, "property"))
	if err != nil {
		writeError(w, err)
		return
	}
	start, end, next, err := pageWindow(r, len(streams))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listDataStreamsResponse{
		DataStreams:   streams[start:end],
		NextPageToken: next,
	})
}

// ListCustomDimensions handles GET /v1beta/properties/{property}/customDimensions
func (h *Handler) ListCustomDimensions(w http.ResponseWriter, r *http.Request) {
	dims, err := h.store.CustomDimensions(chi.URLParam(r, "property"))
	if err != nil {
		writeError(w, err)
		return
	}
	start, end, next, err := pageWindow(r, len(dims))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listCustomDimensionsResponse{
		CustomDimensions: dims[start:end],
		NextPageToken:    next,
	})
}

// CreateCustomDimension handles POST /v1beta/properties/{property}/customDimensions
func (h *Handler) CreateCustomDimension(w http.ResponseWriter, r *http.Request) {
	var req createCustomDimensionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dim, err := h.store.CreateCustomDimension(chi.URLParam(r, "property"), store.CustomDimension{
		ParameterName:              req.ParameterName,
		DisplayName:                req.DisplayName,
		Description:                req.Description,
		Scope:                      req.Scope,
		DisallowAdsPersonalization: req.DisallowAdsPersonalization,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dim)
}

// ListConversionEvents handles GET /v1beta/properties/{property}/conversionEvents
func (h *Handler) ListConversionEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ConversionEvents(chi.URLParam(r, "property"))
	if err != nil {
		writeError(w, err)
		return
	}
	start, end, next, err := pageWindow(r, len(events))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listConversionEventsResponse{
		ConversionEvents: events[start:end],
		NextPageToken:    next,
	})
}

// CreateConversionEvent handles POST /v1beta/properties/{property}/conversionEvents
func (h *Handler) CreateConversionEvent(w http.ResponseWriter, r *http.Request) {
	var req createConversionEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	event, err := h.store.CreateConversionEvent(chi.URLParam(r, "property"), req.EventName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// AdminState handles GET /admin/state
func (h *Handler) AdminState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// AdminLoadState handles POST /admin/state with a JSON or YAML seed body.
func (h *Handler) AdminLoadState(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "Unable to read request body.", err))
		return
	}
	// YAML is a superset of JSON, so one parser covers both.
	seed, err := store.ParseSeed(data)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, err.Error(), err))
		return
	}
	if err := h.store.Load(seed); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, err.Error(), err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// AdminReset handles POST /admin/reset
func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "Invalid JSON payload received. "+err.Error(), err)
	}
	return nil
}

// pageWindow reads pageSize and pageToken and returns the slice bounds of
// the requested page plus the token of the following one.
func pageWindow(r *http.Request, total int) (start, end int, next string, err error) {
	query := r.URL.Query()
	size := 0
	if raw := query.Get("pageSize"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 0 {
			return 0, 0, "", apperrors.New(apperrors.CodeInvalidArgument, "page_size must be a non-negative integer.")
		}
	}
	offset, err := pagination.DecodeOffset(query.Get("pageToken"))
	if err != nil {
		return 0, 0, "", apperrors.Wrap(apperrors.CodeInvalidArgument, "Invalid page token.", err)
	}
	start, end, nextOffset := pagination.Window(total, offset, pagination.ClampPageSize(size, pageSizes))
	if nextOffset >= 0 {
		next = pagination.EncodeOffset(nextOffset)
	}
	return start, end, next, nil
}
