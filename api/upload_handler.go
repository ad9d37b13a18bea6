package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/rpupo63/photo-portfolio/upload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipartMemory is how much of a batch is kept in memory before spilling to disk.
const multipartMemory = 32 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  Uploader
	maxBytes  int64
	timeout   time.Duration
}

func newUploadHandler(uploader Uploader, maxBytes int64, timeout time.Duration) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
		maxBytes:  maxBytes,
		timeout:   timeout,
	}
}

// UploadResponse summarises a batch; Results is in the order the files were sent.
type UploadResponse struct {
	Results    []upload.Result `json:"results"`
	Persisted  int             `json:"persisted"`
	Duplicates int             `json:"duplicates"`
	Failed     int             `json:"failed"`
}

// uploadPhotos accepts a multipart batch. Each "files" part may be paired by
// position with "titles", "descriptions" and "tags" values.
func (h uploadHandler) uploadPhotos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxBytes))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart form", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("files"))
			return
		}

		values := r.MultipartForm.Value
		candidates := make([]upload.Candidate, 0, len(files))
		for i, fh := range files {
			data, err := readPart(fh)
			if err != nil {
				h.responder.WriteError(w, errs.NewMalformedPayloadError("file "+fh.Filename, err))
				return
			}
			candidates = append(candidates, upload.Candidate{
				FileName:    fh.Filename,
				Data:        data,
				Title:       valueAt(values["titles"], i),
				Description: valueAt(values["descriptions"], i),
				Tags:        valueAt(values["tags"], i),
			})
		}

		if h.responder.CheckContextTimeout(w, r, h.timeout) {
			return
		}

		results := h.uploader.Process(r.Context(), candidates)

		resp := UploadResponse{Results: results}
		for _, res := range results {
			switch res.Status {
			case upload.StatusPersisted:
				resp.Persisted++
			case upload.StatusDuplicateSkipped:
				resp.Duplicates++
			default:
				resp.Failed++
			}
		}

		h.logger.Info().
			Int("files", len(candidates)).
			Int("persisted", resp.Persisted).
			Int("duplicates", resp.Duplicates).
			Int("failed", resp.Failed).
			Msg("upload batch processed")

		h.responder.WriteJSON(w, resp)
	}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
