// Package flacfmt classifies FLAC streams by the profile they comply with. [1]
//
// The FLAC format defines a Subset of itself, which restricts block sizes,
// sample rates, linear prediction orders and Rice partition orders to values
// streaming and hardware decoders are guaranteed to support. Streams outside
// of the Subset are still valid FLAC streams.
//
// The numeric limits of the format are defined by package format, partitioned
// Rice residual coding is implemented by package rice, and frame headers and
// StreamInfo metadata blocks by packages frame and meta.
//
// [1]: https://www.xiph.org/flac/format.html#subset
package flacfmt
