package server

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/memegen/pkg/buildinfo"
	"github.com/matzehuels/memegen/pkg/document"
	"github.com/matzehuels/memegen/pkg/editor"
	"github.com/matzehuels/memegen/pkg/errors"
)

// Response headers set on exports.
const (
	HeaderCache    = "X-Memegen-Cache"
	HeaderWarnings = "X-Memegen-Warnings"
)

// =============================================================================
// Health and Sessions
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Get().Version,
		"sessions": s.sessions.len(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	img, err := s.readImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.cfg.Editor
	opts.Captions = append([]string(nil), opts.Captions...)
	if opts.DisplayWidth, err = floatQuery(r, "width"); err != nil {
		s.writeError(w, r, err)
		return
	}

	ed, err := editor.New(img, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := s.sessions.add(ed)
	s.logger.Info("created session", "id", sess.id, "size", ed.Native())
	writeJSON(w, http.StatusCreated, describe(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.sessions.remove(sess.id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetImage(w http.ResponseWriter, r *http.Request) {
	img, err := s.readImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	if err := sess.ed.SetBaseImage(img); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, describe(sess))
}

func describe(sess *session) sessionJSON {
	native := sess.ed.Native()
	return sessionJSON{
		ID:     sess.id.String(),
		Width:  native.X,
		Height: native.Y,
		Scale:  sess.ed.Scale(),
		Layers: layersJSON(sess.ed.Layers()),
	}
}

// =============================================================================
// Text Layers
// =============================================================================

func (s *Server) handleListLayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, layersJSON(sessionFrom(r).ed.Layers()))
}

func (s *Server) handleCreateLayer(w http.ResponseWriter, r *http.Request) {
	var body createJSON
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	var placeholder string
	if body.Placeholder != nil {
		placeholder = *body.Placeholder
	}
	pos := editor.At(body.Position)
	if body.Rect != nil {
		pos = editor.InRect(image.Rect(body.Rect.X, body.Rect.Y, body.Rect.X+body.Rect.Width, body.Rect.Y+body.Rect.Height))
	}

	ed := sessionFrom(r).ed
	name, err := ed.CreateTextLayer(placeholder, pos, body.patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeLayer(w, r, ed, name, http.StatusCreated)
}

func (s *Server) handleUpdateLayer(w http.ResponseWriter, r *http.Request) {
	var body patchJSON
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	ed, name := sessionFrom(r).ed, chi.URLParam(r, "name")
	if err := ed.UpdateTextLayer(name, body.patch()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeLayer(w, r, ed, name, http.StatusOK)
}

func (s *Server) handleRemoveLayer(w http.ResponseWriter, r *http.Request) {
	if err := sessionFrom(r).ed.RemoveTextLayer(chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveLayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	ed, name := sessionFrom(r).ed, chi.URLParam(r, "name")
	if err := ed.MoveTextLayer(name, body.X, body.Y); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeLayer(w, r, ed, name, http.StatusOK)
}

func (s *Server) handleResizeLayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Width float64 `json:"width"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	ed, name := sessionFrom(r).ed, chi.URLParam(r, "name")
	if err := ed.ResizeTextLayer(name, body.Width); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeLayer(w, r, ed, name, http.StatusOK)
}

func (s *Server) writeLayer(w http.ResponseWriter, r *http.Request, ed *editor.Editor, name string, status int) {
	t, err := ed.TextLayer(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, textJSON(t))
}

// =============================================================================
// Drawing
// =============================================================================

func (s *Server) handleDrawingAction(w http.ResponseWriter, r *http.Request) {
	ed := sessionFrom(r).ed
	switch action := chi.URLParam(r, "action"); action {
	case "enable":
		if err := ed.EnableDrawing(); err != nil {
			s.writeError(w, r, err)
			return
		}
	case "disable":
		ed.DisableDrawing()
	case "erase":
		ed.EraseDrawing()
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "unknown drawing action %q", action))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDrawingOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AboveText *bool `json:"aboveText"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.AboveText == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "aboveText is required"))
		return
	}
	sessionFrom(r).ed.SetDrawingAboveText(*body.AboveText)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStrokes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Color  *string      `json:"color"`
		Width  *float64     `json:"width"`
		Points [][2]float64 `json:"points"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	ed := sessionFrom(r).ed
	if !ed.DrawingEnabled() {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "drawing is disabled"))
		return
	}
	if len(body.Points) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "stroke has no points"))
		return
	}
	if body.Color != nil {
		if err := ed.SetInkColor(*body.Color); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if body.Width != nil {
		if err := ed.SetInkWidth(*body.Width); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	pts := make([]editor.Point, len(body.Points))
	for i, p := range body.Points {
		pts[i] = editor.Point{X: p[0], Y: p[1]}
	}
	ed.Stroke(pts)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Rendering
// =============================================================================

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ed := sessionFrom(r).ed
	if r.URL.Query().Has("width") {
		width, err := floatQuery(r, "width")
		if err == nil {
			err = errors.ValidatePositive("width", width)
		}
		if err == nil {
			err = ed.SetDisplayWidth(width)
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "json":
		out, err := ed.RenderPreview(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, overlayJSON(out))
	case "html":
		out, err := ed.RenderPreview(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := out.HTML(&buf, ed.Base()); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	case "raster":
		out, err := ed.PreviewPNG(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", out.ContentType)
		w.Header().Set(HeaderCache, cacheStatus(out.Cached))
		w.Header().Set(HeaderWarnings, strconv.Itoa(len(out.Warnings)))
		_, _ = w.Write(out.Data)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown preview mode %q", mode))
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var format editor.Format
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := editor.ParseFormat(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}

	out, err := sessionFrom(r).ed.Export(r.Context(), format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "meme"+out.Format.Extension()))
	w.Header().Set(HeaderCache, cacheStatus(out.Cached))
	w.Header().Set(HeaderWarnings, strconv.Itoa(len(out.Warnings)))
	_, _ = w.Write(out.Data)
}

// =============================================================================
// Documents
// =============================================================================

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	data, err := document.Marshal(sessionFrom(r).ed.Serialize())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode document"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := document.ReadJSON(http.MaxBytesReader(w, r.Body, s.cfg.MaxImageBytes))
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
		}
		s.writeError(w, r, err)
		return
	}
	warnings, err := sessionFrom(r).ed.Deserialize(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"layers":   layersJSON(sessionFrom(r).ed.Layers()),
		"warnings": warningsJSON(warnings),
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) readImage(w http.ResponseWriter, r *http.Request) (image.Image, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxImageBytes)

	// Check the header dimensions before allocating the decoded image.
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(body, &head))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image")
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > s.cfg.MaxImagePixels {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"image is %dx%d, over the limit of %d pixels", cfg.Width, cfg.Height, s.cfg.MaxImagePixels)
	}

	img, err := imaging.Decode(io.MultiReader(&head, body), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image")
	}
	return img, nil
}

// floatQuery parses an optional float query parameter; absent means zero.
func floatQuery(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", key, raw)
	}
	return v, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
