// Package imaging provides the image operations used by the OCR path:
// grayscale conversion, contrast-limited adaptive histogram equalization,
// Gaussian denoising, adaptive and fixed binarization, directional
// morphology for ruling-line detection, and connected-component analysis.
//
// All transforms are pure: they never mutate their input and always
// allocate a new image. Foreground is white (255) in every binary image
// produced here, since both binarization steps are inverse.
package imaging
