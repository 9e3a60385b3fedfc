// Package escriba converts PDF documents to Markdown. It extracts the
// embedded text layer of digital pages, runs OCR over scanned pages,
// recovers tables through a backend cascade, and assembles the result
// as one Markdown document with per-page sections and a table appendix.
//
// Basic usage:
//
//	md, warnings, err := escriba.Open("contrato.pdf").Markdown(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("warnings:", escriba.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := escriba.Open("escaneado.pdf").
//	    Language("spa").
//	    DPI(300).
//	    Workers(4).
//	    Markdown(ctx)
//
// Extraction degrades rather than fails: a failing page becomes an
// error placeholder in the output, a failing table backend hands over
// to the next one, and a failed refinement keeps the unrefined
// document. Only an unreadable input file fails the whole run.
package escriba

// Open prepares an Extractor for the PDF at path. Configuration
// methods return new instances, so an Extractor can be shared and
// chained freely. The file is opened when a terminal operation such as
// Markdown or PageTexts runs.
func Open(path string) *Extractor {
	return &Extractor{
		path:    path,
		options: defaultOptions(),
	}
}

// Must wraps a call returning (T, error) and panics on error. Intended
// for scripts and tests.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult wraps a terminal call returning (T, []Warning, error),
// discards the warnings, and panics on error.
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
