// Package highlights provides an edge-aware highlight recovery filter for still images.
//
// The filter splits lightness into a smooth base layer and a detail residual, compresses
// the bright part of the base with a knee curve, guards near-white tones against turning
// gray and recombines the result with the untouched detail and chroma.
// File decoding, path expansion and batch processing helpers are provided for the CLI in cmd/hltool.
package highlights
