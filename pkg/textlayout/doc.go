// Package textlayout wraps text into lines that fit a pixel width.
//
// Measurement is delegated to the host through a [Measurer], usually a font
// face lookup (see [FaceMeasurer]). The wrapping algorithm itself is greedy,
// word based, and deterministic:
//
//  1. Split the text on single spaces into words.
//  2. Start the first line with the first word.
//  3. For each following word, tentatively append it with one space. If the
//     tentative line measures strictly less than the maximum width it is
//     accepted; otherwise the current line is closed and the word starts a
//     new line.
//  4. The final line is always emitted.
//
// Words are never broken and text is never shrunk to fit, so a single word
// wider than the box produces a line that overflows it. This is a known
// limitation of the layout, not something callers should paper over with
// truncation.
//
// The resulting line count drives the derived height of a text layer:
//
//	height = round(lines * lineHeight * fontSize)
package textlayout
