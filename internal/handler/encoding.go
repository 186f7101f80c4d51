package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	"github.com/Schera-ole/hostmetrics/internal/service"
)

const (
	contentTypeJSON = "application/json"
	contentTypeCBOR = "application/cbor"
)

// wantsCBOR reports whether the client asked for CBOR.
func wantsCBOR(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), contentTypeCBOR)
}

// respond encodes v as CBOR when the client accepts it and as JSON
// otherwise.
func respond(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, status int, v any) {
	if wantsCBOR(r) {
		data, err := cbor.Marshal(v)
		if err != nil {
			logger.Errorw("encoding cbor response", "error", err)
			http.Error(w, "encoding response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypeCBOR)
		w.WriteHeader(status)
		w.Write(data)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorw("encoding json response", "error", err)
	}
}

// statusFor maps an error kind to the HTTP status reported to clients.
func statusFor(err error) int {
	switch {
	case errors.Is(err, internalerrors.ErrUnsupportedPlatform):
		return http.StatusNotImplemented
	case errors.Is(err, internalerrors.ErrSourceUnavailable),
		errors.Is(err, internalerrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, internalerrors.ErrMalformedData):
		return http.StatusBadGateway
	case errors.Is(err, internalerrors.ErrMeasurement),
		errors.Is(err, internalerrors.ErrNotCached),
		errors.Is(err, service.ErrInvalidMetric):
		return http.StatusBadRequest
	case errors.Is(err, internalerrors.ErrCancelled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.Is(err, internalerrors.ErrMetricNotFound),
		errors.Is(err, internalerrors.ErrUnknownCategory):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw("request failed", "uri", r.RequestURI, "status", status, "error", err)
	} else {
		logger.Debugw("request rejected", "uri", r.RequestURI, "status", status, "error", err)
	}
	respond(w, r, logger, status, errorResponse{Error: err.Error()})
}
