// Package curve holds the piecewise-affine curve constructors a backend
// exposes: a linear segment builder and a curve factory.
//
// Only construction and point evaluation live here. Min-plus convolution and
// deconvolution are implemented by curve consumers, not by this package.
package curve
