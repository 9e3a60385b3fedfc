// Package assemble renders an extraction result as a Markdown document
// and optionally passes it through a refinement hook.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/osanmartin/escriba/model"
)

// Assembler renders extraction results. The zero value is not usable;
// construct with New.
type Assembler struct {
	refiner Refiner
	log     *slog.Logger
}

// New creates an assembler. The refiner may be nil, in which case the
// assembled Markdown is returned as is.
func New(refiner Refiner, log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{refiner: refiner, log: log}
}

// Document renders the result: a title from the source file stem, one
// section per page in page order, and a table appendix grouped by
// backend and page. When a refiner is configured it is applied best
// effort; a refinement that fails or damages the document structure is
// discarded and the unrefined Markdown returned.
func (a *Assembler) Document(ctx context.Context, result *model.ExtractionResult) string {
	md := a.render(result)
	if a.refiner == nil {
		return md
	}

	refined, err := a.refiner.Refine(ctx, md)
	if err != nil {
		a.log.Warn("refinement failed, keeping unrefined output", "error", err)
		return md
	}
	if reason := validateRefined(md, refined); reason != "" {
		a.log.Warn("refinement rejected", "reason", reason)
		return md
	}
	return refined
}

func (a *Assembler) render(result *model.ExtractionResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n", result.TitleStem)
	for _, page := range result.Pages {
		fmt.Fprintf(&sb, "\n## Page %d\n\n%s\n", page.Index, strings.TrimSpace(page.Text()))
	}

	a.renderTables(&sb, result.Tables)
	return strings.TrimSpace(sb.String())
}

// renderTables writes the appendix. Tables arrive ordered by page;
// consecutive tables from the same backend and page share one section.
func (a *Assembler) renderTables(sb *strings.Builder, tables []model.TableRegion) {
	groupKey := ""
	n := 0
	for _, t := range tables {
		key := fmt.Sprintf("%s · page %d", t.Backend, t.PageIndex)
		if key != groupKey {
			fmt.Fprintf(sb, "\n## Tables (%s)\n", key)
			groupKey = key
			n = 0
		}
		n++
		fmt.Fprintf(sb, "\n### Table %d\n\n%s\n", n, strings.TrimSpace(t.Markdown))
	}
}
