// Package layer holds the document model: an ordered stack of text layers plus
// at most one freehand drawing layer.
//
// The [Store] is the only authoritative copy of layer state. Hosts mutate it
// through explicit calls and then trigger a re-render themselves; the store
// performs no I/O and knows nothing about rendering.
//
// # Coordinates
//
// X, Y, MaxWidth, FontSize and BorderWidth are always native image pixels.
// Renderers multiply by the display scale transiently while drawing; the store
// never holds display-scaled values.
//
// # Stacking
//
// Text layers stack in insertion order (later on top). The drawing layer never
// interleaves with them: a single flag places it above or below the whole text
// band.
//
// # Names
//
// Every text layer gets a unique name ("layer1", "layer2", ...) that is stable
// for its lifetime and never handed out again within the same store.
package layer
