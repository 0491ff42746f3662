// Package document converts layer stacks to and from a portable JSON format.
//
// # Format
//
// A document is a JSON array of records, one per layer, in store order from
// bottom to top:
//
//	[
//	  {"type": "text", "name": "layer1", "text": "TOP TEXT", "x": 0, "y": 0,
//	   "maxWidth": 600, "fontSize": 42, "lineHeight": 1.2, "font": "Impact, Arial",
//	   "color": "#FFFFFF", "borderColor": "#000000", "borderWidth": 2},
//	  {"type": "drawing"}
//	]
//
// All numeric fields are native pixels. Numeric strings such as "42" are
// accepted on input, since older documents stored form attribute values.
//
// The drawing record marks where the ink layer composites (first when it is
// below the text, last when above). Its pixels are not part of the format and
// drawing records are ignored on input.
//
// # Reading
//
// [Decode] applies records in reverse and prepends each text layer, so the
// store order of a serialized document is reproduced exactly. Missing text
// fields take the configured style defaults. Unknown record types are
// skipped with an UNSUPPORTED_LAYER_KIND warning; anything else that is not
// a well-formed record (non-array input, missing type, missing or duplicate
// names) fails with MALFORMED_DOCUMENT.
//
// # Files
//
// [ReadJSON] and [WriteJSON] work on streams; [ImportJSON] and [ExportJSON]
// are file wrappers around them.
package document
