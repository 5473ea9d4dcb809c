package server

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/moodboard/pkg/buildinfo"
	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	cio "github.com/matzehuels/moodboard/pkg/io"
	"github.com/matzehuels/moodboard/pkg/markdown"
	"github.com/matzehuels/moodboard/pkg/render"
)

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeNotFound, code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeNetwork, code == errors.ErrCodeTimeout:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body is not valid JSON")
	}
	return nil
}

// readCanvas parses a canvas from the request body.
func readCanvas(w http.ResponseWriter, r *http.Request) (*cio.Result, error) {
	data, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	return cio.Import(r.Context(), data)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"version":       buildinfo.Version,
		"metadataCache": s.meta.Len(),
	})
}

type classifyRequest struct {
	Content  string          `json:"content"`
	IsImage  bool            `json:"isImage"`
	Data     string          `json:"data"`
	Position canvas.Position `json:"position"`
}

type classifyResponse struct {
	Kind string      `json:"kind"`
	Node canvas.Node `json:"node"`
}

// classify handles POST /v1/classify. Raw bytes may be sent base64-encoded
// in "data" instead of "content".
func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Data == "" {
		res := s.classifier.Classify(req.Content, req.IsImage, req.Position)
		writeJSON(w, http.StatusOK, classifyResponse{Kind: string(res.Kind), Node: res.Node})
		return
	}
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "data is not base64"))
		return
	}
	res, err := s.classifier.ClassifyBytes(raw, req.Position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{Kind: string(res.Kind), Node: res.Node})
}

// metadata handles GET /v1/metadata?url=.
func (s *Server) metadata(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	if err := errors.ValidateURL(u); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.meta.Fetch(r.Context(), u))
}

type markdownRequest struct {
	Markdown string `json:"markdown"`
}

type markdownResponse struct {
	HTML  string `json:"html"`
	Title string `json:"title"`
}

// markdown handles POST /v1/markdown.
func (s *Server) markdown(w http.ResponseWriter, r *http.Request) {
	var req markdownRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, markdownResponse{HTML: markdown.ToHTML(req.Markdown), Title: markdown.Title(req.Markdown)})
}

type validateResponse struct {
	Valid    bool           `json:"valid"`
	Nodes    int            `json:"nodes"`
	Edges    int            `json:"edges"`
	Warnings []canvas.Issue `json:"warnings"`
}

// validateCanvas handles POST /v1/canvas/validate. Structural problems
// answer 422; repairable integrity issues are listed as warnings.
func (s *Server) validateCanvas(w http.ResponseWriter, r *http.Request) {
	res, err := readCanvas(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []canvas.Issue{}
	}
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:    len(res.Warnings) == 0,
		Nodes:    res.Document.NodeCount(),
		Edges:    res.Document.EdgeCount(),
		Warnings: warnings,
	})
}

// normalizeCanvas handles POST /v1/canvas/normalize: the canvas is
// repaired and written back in the persisted format.
func (s *Server) normalizeCanvas(w http.ResponseWriter, r *http.Request) {
	res, err := readCanvas(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCanvas(w, r, res.Document, res.Viewport)
}

// welcome handles GET /v1/canvas/welcome.
func (s *Server) welcome(w http.ResponseWriter, r *http.Request) {
	doc, err := cio.Welcome()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCanvas(w, r, doc, doc.Viewport)
}

func (s *Server) writeCanvas(w http.ResponseWriter, r *http.Request, doc *canvas.Document, vp *canvas.Viewport) {
	art, err := cio.Export(r.Context(), doc, cio.WithViewport(vp))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+art.Filename+`"`)
	_, _ = w.Write(art.Data)
}

// renderDOT handles POST /v1/render/dot. The response is DOT text, or SVG
// with ?format=svg.
func (s *Server) renderDOT(w http.ResponseWriter, r *http.Request) {
	res, err := readCanvas(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := render.Options{Detailed: r.URL.Query().Get("detailed") == "true", RankDir: r.URL.Query().Get("rankdir")}

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = io.WriteString(w, render.ToDOT(res.Document, opts))
	case "svg":
		svg, err := s.renderer.Document(r.Context(), res.Document, opts)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render preview"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", format))
	}
}
