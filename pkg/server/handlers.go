package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/topo2graph/pkg/buildinfo"
	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/pipeline"
	"github.com/matzehuels/topo2graph/pkg/topology"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var mediaFormats = map[string]topology.Format{
	"text/plain":             topology.FormatTerm,
	"application/x-topology": topology.FormatTerm,
	"application/yaml":       topology.FormatYAML,
	"application/x-yaml":     topology.FormatYAML,
	"text/yaml":              topology.FormatYAML,
	"application/json":       topology.FormatJSON,
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	opts, err := requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Code:    string(errors.ErrCodeUsage),
				Message: "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
			})
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeUsage, err, "read body"))
		return
	}

	res, err := s.runner.ConvertBytes(r.Context(), "request "+RequestID(r.Context()), body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if res.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(res.JSON, '\n'))
}

// requestOptions derives pipeline options from the query string and
// Content-Type.
func requestOptions(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	q := r.URL.Query()

	if f := q.Get("format"); f != "" {
		format, err := topology.ParseFormat(f)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	} else {
		opts.Format = topology.FormatTerm
		if ct := r.Header.Get("Content-Type"); ct != "" {
			media, _, err := mime.ParseMediaType(ct)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidFormat, "invalid Content-Type %q", ct)
			}
			format, ok := mediaFormats[media]
			if !ok {
				return opts, errors.New(errors.ErrCodeInvalidFormat, "unsupported Content-Type %q", media)
			}
			opts.Format = format
		}
	}
	if opts.Format == topology.FormatAuto {
		opts.Format = topology.FormatTerm
	}

	var err error
	if opts.Strict, err = boolParam(q.Get("strict")); err != nil {
		return opts, err
	}
	if opts.Compact, err = boolParam(q.Get("compact")); err != nil {
		return opts, err
	}
	return opts, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeUsage, "invalid boolean %q", v)
	}
	return b, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.GetCode(err) == errors.ErrCodeInvalidFormat:
		status = http.StatusUnsupportedMediaType
	case errors.IsInput(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeUsage):
		status = http.StatusBadRequest
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("translate failed", "id", RequestID(r.Context()), "err", err)
		msg = "internal error"
	}
	s.writeJSON(w, status, ErrorResponse{Code: string(code), Message: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
