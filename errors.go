package escriba

import "fmt"

// InputError reports a document that cannot be opened or parsed. It is
// the only fatal error class: everything downstream degrades instead.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// PageError reports the failure of a single page. The page is recorded
// as an error placeholder and extraction continues.
type PageError struct {
	Page int
	Op   string
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %s: %v", e.Page, e.Op, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// CatastrophicError reports that the sequential extraction loop died,
// typically through a panic in a parser. The document is retried page
// by page through the parallel coordinator before giving up.
type CatastrophicError struct {
	Err error
}

func (e *CatastrophicError) Error() string {
	return fmt.Sprintf("extraction loop failed: %v", e.Err)
}

func (e *CatastrophicError) Unwrap() error { return e.Err }
