package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/service/media"
	"github.com/secmon-lab/medmatch/pkg/usecase"
	"github.com/secmon-lab/medmatch/pkg/utils/errutil"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
	"github.com/secmon-lab/medmatch/pkg/utils/safe"
)

const (
	prescriptionImageField = "image"
	capturePhotoField      = "photo"
)

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrIncompleteInput),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, usecase.ErrEmptyPhoto),
		errors.Is(err, media.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrPrescriptionNotFound),
		errors.Is(err, usecase.ErrSessionNotFound),
		errors.Is(err, media.ErrBlobNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrSessionNotReady),
		errors.Is(err, usecase.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, interfaces.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, interfaces.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusOf(err), model.MissingFields(err)...)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

// readPhoto reads a single image part from a multipart request
func (s *Server) readPhoto(r *http.Request, field string) (*model.Photo, error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, goerr.Wrap(model.ErrInvalidInput, "invalid multipart body", goerr.V("cause", err.Error()))
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, goerr.Wrap(usecase.ErrEmptyPhoto, "image part is missing", goerr.V("field", field))
		}
		return nil, goerr.Wrap(model.ErrInvalidInput, "failed to read image part", goerr.V("field", field))
	}
	defer safe.Close(r.Context(), file)

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read uploaded image")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &model.Photo{Data: data, ContentType: contentType}, nil
}

func (s *Server) listPrescriptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.uc.Prescription.List(r.Context()))
}

func (s *Server) extractPrescription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	photo, err := s.readPhoto(r, prescriptionImageField)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	draft, err := s.uc.Prescription.Extract(ctx, photo)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, draft)
}

func (s *Server) commitPrescription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input model.PrescriptionInput
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&input); err != nil {
		handleError(ctx, w, goerr.Wrap(model.ErrInvalidInput, "malformed prescription JSON", goerr.V("cause", err.Error())))
		return
	}

	result, err := s.uc.Prescription.Commit(ctx, &input)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, result)
}

func (s *Server) deletePrescription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := model.PrescriptionID(chi.URLParam(r, "id"))

	if err := s.uc.Prescription.Delete(ctx, id); err != nil {
		handleError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) startCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	photo, err := s.readPhoto(r, capturePhotoField)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	session, err := s.uc.Capture.Start(ctx, photo)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	w.Header().Set("Location", "/api/captures/"+session.ID.String())
	writeJSON(ctx, w, http.StatusAccepted, session)
}

func (s *Server) getCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := s.uc.Capture.Get(ctx, model.CaptureID(chi.URLParam(r, "id")))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, session)
}

func (s *Server) resetCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.uc.Capture.Reset(ctx, model.CaptureID(chi.URLParam(r, "id"))); err != nil {
		handleError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) confirmCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conf, err := s.uc.Capture.Confirm(ctx, model.CaptureID(chi.URLParam(r, "id")))
	if conf == nil {
		handleError(ctx, w, err)
		return
	}
	if err != nil {
		// the log is recorded in memory; only the snapshot write failed
		_ = errutil.Handle(ctx, err, "medication log not persisted")
	}
	writeJSON(ctx, w, http.StatusCreated, conf)
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	compliance, err := model.ParseComplianceFilter(q.Get("compliance"))
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	entries := s.uc.History.List(ctx, model.LogFilter{
		Search:     q.Get("search"),
		Compliance: compliance,
	})
	logging.From(ctx).Debug("History listed", "count", len(entries))
	writeJSON(ctx, w, http.StatusOK, entries)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.uc.Dashboard.Summary(r.Context()))
}

func (s *Server) remoteDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.uc.Dashboard.RemoteView(r.Context()))
}

func (s *Server) activePrescriptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.uc.Dashboard.ActivePrescriptions(r.Context()))
}

func (s *Server) todaysMedication(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.uc.Dashboard.TodaysMedication(r.Context()))
}

// getMedia streams a stored photo. Stored locators have the form blob:<id>.
func (s *Server) getMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc, contentType, err := s.media.Open(ctx, "blob:"+chi.URLParam(r, "id"))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	defer safe.Close(ctx, rc)

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	n := safe.Copy(ctx, w, rc)
	logging.From(ctx).Debug("Served media", "id", chi.URLParam(r, "id"), "bytes", n)
}
