// Package model provides the intermediate representation for extracted
// document content.
//
// This package defines the user-facing data structures produced by the
// extraction pipeline. All extraction operations ultimately build these
// types, making them the primary API for consuming results.
//
// # Structure
//
// An [ExtractionResult] holds everything recovered from one PDF:
//
//   - Pages  - one [Page] per PDF page, in page order
//   - Tables - zero or more [TableRegion] values, in page order
//
// Pages are indexed from 1 and are contiguous: page indices always form
// the sequence 1..N. A [TableRegion] always references an existing page.
//
// # Geometry
//
// [BBox] is an axis-aligned rectangle in render pixels (the coordinate
// space of a page rasterized at a given DPI), not in PDF points.
package model
