// itqlsh implements an approximate nearest-neighbor index over
// fixed-dimensional real vectors using Iterative Quantization (ITQ), a
// learned-rotation variant of Locality-Sensitive Hashing.
//
// The algorithmic core lives in the pkg/ subpackages (pkg/itq,
// pkg/shardstore, pkg/topk, pkg/hamming, pkg/vector, pkg/metric,
// pkg/code); this root package carries the ambient pieces shared across
// them: Config, the Logger interface, and the error-kind taxonomy from
// the error handling design.
package itqlsh
