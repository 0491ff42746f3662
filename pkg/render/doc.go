// Package render turns a layer snapshot into pixels or into positioned
// preview nodes at a caller-chosen display scale.
//
// # Overview
//
// Two backends implement [Renderer]:
//
//   - [Raster] draws every text layer into its own transparent surface with
//     gg, outline first and fill on top. It is used for export at scale 1.0
//     and for raster previews.
//   - [Overlay] produces lightweight [Node] blocks carrying CSS-like styling,
//     the outline approximated by four diagonal text shadows. It is meant for
//     cheap live previews and only approximates the raster output.
//
// Both backends share the same geometry: a text layer at native (x, y) with
// width maxWidth becomes a block at (x*s, y*s) with width maxWidth*s, text is
// wrapped with [textlayout.Wrap] at maxWidth*s using a measurer at
// fontSize*s, and the lines are centered horizontally in the block. The
// baseline of line i sits at y*s + fontSize*s + i*lineHeight*fontSize*s.
//
// # Failures
//
// A layer with a non-positive font size or max width (or one whose font
// cannot be loaded) is skipped and reported through [Output.Warnings]; the
// remaining layers still render. Render itself only fails when the scale is
// not positive or the image size is unknown.
//
// Renderers never mutate the snapshot. Derived heights are reported in
// native pixels through [Output.Heights] so that the caller can write them
// back into the store.
//
// Stacking is left to the composite package: surfaces and nodes come out in
// store order.
package render
