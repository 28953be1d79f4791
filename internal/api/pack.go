package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/sheetpack/pkg/errors"
	"github.com/matzehuels/sheetpack/pkg/pipeline"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

// packRequest is the POST /v1/pack body. It reuses the pipeline option
// names so CLI config and API payloads read the same.
type packRequest struct {
	Images       []sheet.Dim `json:"images"`
	Paper        string      `json:"paper,omitempty"`
	Unit         string      `json:"unit,omitempty"`
	Margin       float64     `json:"margin,omitempty"`
	ScaleFloor   float64     `json:"scale_floor,omitempty"`
	AllowUpscale bool        `json:"allow_upscale,omitempty"`
	Center       bool        `json:"center,omitempty"`
	Refresh      bool        `json:"refresh,omitempty"`
}

// packResponse carries the computed plan plus run metadata.
type packResponse struct {
	RunID    string         `json:"run_id"`
	DocHash  string         `json:"doc_hash"`
	Document sheet.Document `json:"document"`
	Pages    int            `json:"pages"`
	CacheHit bool           `json:"cache_hit"`
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Images) == 0 {
		writeError(w, http.StatusBadRequest, "images is required")
		return
	}

	opts := pipeline.Options{
		Dims:         req.Images,
		Paper:        req.Paper,
		Unit:         req.Unit,
		Margin:       req.Margin,
		ScaleFloor:   req.ScaleFloor,
		AllowUpscale: req.AllowUpscale,
		Center:       req.Center,
		Refresh:      req.Refresh,
		Formats:      []string{pipeline.FormatJSON},
		Logger:       s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), errors.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, packResponse{
		RunID:    result.RunID,
		DocHash:  result.DocHash,
		Document: result.Document,
		Pages:    len(result.Document.Pages),
		CacheHit: result.CacheInfo.PlanHit,
	})
}

// statusFor maps pipeline errors to HTTP status codes. Validation
// failures are the client's fault; everything else is ours.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == errors.ErrCodeEmptyInput, code == errors.ErrCodeFileNotFound:
		return http.StatusBadRequest
	case code == "":
		// Option validation errors are plain fmt errors.
		if strings.Contains(err.Error(), "invalid options") {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
