package editor

import (
	"github.com/matzehuels/memegen/pkg/document"
	"github.com/matzehuels/memegen/pkg/errors"
)

// Serialize returns the document of the current layers.
func (e *Editor) Serialize() document.Document {
	return document.Serialize(e.store.ListLayers())
}

// Deserialize replaces every text layer with those of doc. Font size and
// border width are clamped to the limits. The drawing layer and its ink are
// kept. Unknown record types are skipped and returned as
// warnings; on failure the layers are left unchanged.
func (e *Editor) Deserialize(doc document.Document) ([]errors.Warning, error) {
	text, warnings, err := document.Decode(doc, e.store.Native(), e.store.Style())
	if err != nil {
		return nil, err
	}
	for i := range text {
		e.opts.Limits.clampLayer(&text[i])
	}
	if err := e.store.ReplaceText(text); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "invalid layer")
	}
	for _, w := range warnings {
		e.logger.Warn("skipped record", "layer", w.Layer, "err", w.Err)
	}
	e.logger.Debug("loaded document", "layers", len(text))
	return warnings, nil
}
