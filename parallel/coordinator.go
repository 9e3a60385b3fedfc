// Package parallel runs per-page extraction across a worker pool.
//
// Each worker opens its own copy of the document, so page processing
// never shares parser state across goroutines. Results are gathered by
// page index, and page failures degrade to placeholder text instead of
// failing the run. Only a run where every single page fails is an
// error.
package parallel

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/osanmartin/escriba/pdfdoc"
)

// PageText is the recovered content of one page. Scanned records that
// the text came from OCR; a scanned page may legitimately end up with
// empty text.
type PageText struct {
	Text    string
	Scanned bool
}

// PageFunc processes one page of an open document and returns its text.
type PageFunc func(doc pdfdoc.Document, pageNr int) (PageText, error)

// Placeholder returns the text recorded for a page that failed.
func Placeholder(pageNr int) string {
	return fmt.Sprintf("[ERROR ON PAGE %d]", pageNr)
}

// Coordinator fans page work out to a bounded pool of workers.
type Coordinator struct {
	open    pdfdoc.Opener
	workers int
	log     *slog.Logger
}

// New creates a coordinator. A workers value below 1 uses one worker
// per CPU.
func New(open pdfdoc.Opener, workers int, log *slog.Logger) *Coordinator {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{open: open, workers: workers, log: log}
}

type pageResult struct {
	pageNr int
	page   PageText
	err    error
}

// Run processes pages 1..pageCount of the document at path and returns
// their contents in page order. Failed pages carry the error
// placeholder. Run fails only when the context is canceled, a worker
// cannot open the document, or every page fails.
func (c *Coordinator) Run(ctx context.Context, path string, pageCount int, fn PageFunc) ([]PageText, error) {
	if pageCount < 1 {
		return nil, fmt.Errorf("document has no pages")
	}

	workers := c.workers
	if workers > pageCount {
		workers = pageCount
	}

	jobs := make(chan int)
	results := make(chan pageResult, pageCount)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, path, jobs, results, fn)
		}()
	}

	go func() {
		defer close(jobs)
		for pageNr := 1; pageNr <= pageCount; pageNr++ {
			select {
			case jobs <- pageNr:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pages := make([]PageText, pageCount)
	seen := 0
	failed := 0
	for r := range results {
		seen++
		if r.err != nil {
			failed++
			c.log.Warn("page failed", "page", r.pageNr, "error", r.err)
			pages[r.pageNr-1] = PageText{Text: Placeholder(r.pageNr)}
			continue
		}
		pages[r.pageNr-1] = r.page
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen < pageCount {
		return nil, fmt.Errorf("only %d of %d pages processed", seen, pageCount)
	}
	if failed == pageCount {
		return nil, fmt.Errorf("all %d pages failed", pageCount)
	}
	return pages, nil
}

// worker opens its own document and drains the job channel. An open
// failure fails every job the worker would have taken.
func (c *Coordinator) worker(ctx context.Context, path string, jobs <-chan int, results chan<- pageResult, fn PageFunc) {
	doc, openErr := c.open(path)
	if doc != nil {
		defer doc.Close()
	}

	for pageNr := range jobs {
		if err := ctx.Err(); err != nil {
			results <- pageResult{pageNr: pageNr, err: err}
			continue
		}
		if openErr != nil {
			results <- pageResult{pageNr: pageNr, err: fmt.Errorf("reopen document: %w", openErr)}
			continue
		}
		page, err := c.runPage(doc, pageNr, fn)
		results <- pageResult{pageNr: pageNr, page: page, err: err}
	}
}

// runPage isolates fn so a panicking page converts to a page error
// instead of killing the worker.
func (c *Coordinator) runPage(doc pdfdoc.Document, pageNr int, fn PageFunc) (page PageText, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d panicked: %v", pageNr, r)
		}
	}()
	return fn(doc, pageNr)
}
