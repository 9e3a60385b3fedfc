package assemble

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/osanmartin/escriba/model"
)

func sampleResult(t *testing.T) *model.ExtractionResult {
	t.Helper()
	result := model.NewExtractionResult("contrato")

	p1 := model.NewPage(1)
	p1.RawText = "Primera página del contrato."
	if err := result.AddPage(p1); err != nil {
		t.Fatal(err)
	}

	p2 := model.NewPage(2)
	p2.Scanned = true
	p2.OCRText = "Texto reconocido de la segunda página."
	if err := result.AddPage(p2); err != nil {
		t.Fatal(err)
	}

	result.Finalize()
	return result
}

func TestDocument_Layout(t *testing.T) {
	a := New(nil, nil)
	got := a.Document(context.Background(), sampleResult(t))

	if !strings.HasPrefix(got, "# contrato\n") {
		t.Errorf("missing title heading:\n%s", got)
	}
	wantOrder := []string{
		"# contrato",
		"## Page 1",
		"Primera página del contrato.",
		"## Page 2",
		"Texto reconocido de la segunda página.",
	}
	pos := -1
	for _, part := range wantOrder {
		i := strings.Index(got, part)
		if i < 0 {
			t.Fatalf("missing %q in:\n%s", part, got)
		}
		if i < pos {
			t.Fatalf("%q appears out of order in:\n%s", part, got)
		}
		pos = i
	}
}

func TestDocument_TableAppendix(t *testing.T) {
	result := model.NewExtractionResult("informe")
	p := model.NewPage(1)
	p.RawText = "cuerpo"
	if err := result.AddPage(p); err != nil {
		t.Fatal(err)
	}
	p2 := model.NewPage(2)
	p2.RawText = "más cuerpo"
	if err := result.AddPage(p2); err != nil {
		t.Fatal(err)
	}

	tablesMD := "| A | B |\n|---|---|\n| 1 | 2 |"
	for _, tr := range []model.TableRegion{
		{PageIndex: 1, Backend: model.BackendLattice, Markdown: tablesMD},
		{PageIndex: 1, Backend: model.BackendLattice, Markdown: tablesMD},
		{PageIndex: 2, Backend: model.BackendStream, Markdown: tablesMD},
	} {
		if err := result.AddTable(tr); err != nil {
			t.Fatal(err)
		}
	}
	result.Finalize()

	got := New(nil, nil).Document(context.Background(), result)

	if !strings.Contains(got, "## Tables (lattice · page 1)") {
		t.Errorf("lattice group heading missing:\n%s", got)
	}
	if !strings.Contains(got, "## Tables (stream · page 2)") {
		t.Errorf("stream group heading missing:\n%s", got)
	}
	if !strings.Contains(got, "### Table 2") {
		t.Errorf("second table in group not numbered:\n%s", got)
	}
	if strings.Count(got, "## Tables (lattice · page 1)") != 1 {
		t.Errorf("same group emitted twice:\n%s", got)
	}
}

func TestDocument_NoTablesNoAppendix(t *testing.T) {
	got := New(nil, nil).Document(context.Background(), sampleResult(t))
	if strings.Contains(got, "## Tables") {
		t.Errorf("appendix emitted without tables:\n%s", got)
	}
}

func TestDocument_RefinerApplied(t *testing.T) {
	refiner := RefinerFunc(func(ctx context.Context, md string) (string, error) {
		return strings.ReplaceAll(md, "Primera", "1a"), nil
	})
	got := New(refiner, nil).Document(context.Background(), sampleResult(t))
	if !strings.Contains(got, "1a página") {
		t.Errorf("refinement not applied:\n%s", got)
	}
}

func TestDocument_RefinerErrorKeepsOriginal(t *testing.T) {
	refiner := RefinerFunc(func(ctx context.Context, md string) (string, error) {
		return "", errors.New("llm unavailable")
	})
	got := New(refiner, nil).Document(context.Background(), sampleResult(t))
	if !strings.Contains(got, "Primera página del contrato.") {
		t.Errorf("original lost after refiner error:\n%s", got)
	}
}

func TestDocument_RefinerDroppingPagesRejected(t *testing.T) {
	refiner := RefinerFunc(func(ctx context.Context, md string) (string, error) {
		// Keeps only the first page section.
		i := strings.Index(md, "## Page 2")
		return md[:i], nil
	})
	got := New(refiner, nil).Document(context.Background(), sampleResult(t))
	if !strings.Contains(got, "## Page 2") {
		t.Errorf("structure-destroying refinement kept:\n%s", got)
	}
}

func TestDocument_RefinerEmptyOutputRejected(t *testing.T) {
	refiner := RefinerFunc(func(ctx context.Context, md string) (string, error) {
		return "   \n  ", nil
	})
	got := New(refiner, nil).Document(context.Background(), sampleResult(t))
	if !strings.Contains(got, "# contrato") {
		t.Errorf("empty refinement kept:\n%s", got)
	}
}
