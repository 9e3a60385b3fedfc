package tables

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/osanmartin/escriba/imaging"
	"github.com/osanmartin/escriba/model"
	"github.com/osanmartin/escriba/ocr"
)

const ocrRegionConfidence = 0.6

// cellSplitRe splits an OCR line into cells on runs of two or more
// spaces, the gap Tesseract leaves between table columns.
var cellSplitRe = regexp.MustCompile(`\s{2,}`)

// OCRRegion extracts tables from scanned pages. Candidate regions are
// located by ruled-line morphology on the page bitmap, cropped,
// preprocessed, and recognized one region at a time.
type OCRRegion struct {
	cfg    Config
	engine ocr.Engine
	base   ocr.Config
}

// NewOCRRegion creates an OCR-region backend using the given engine.
func NewOCRRegion(cfg Config, engine ocr.Engine, base ocr.Config) *OCRRegion {
	return &OCRRegion{cfg: cfg, engine: engine, base: base}
}

func (o *OCRRegion) Name() string { return "ocr-region" }

func (o *OCRRegion) Kind() model.SourceBackend { return model.BackendOCRRegion }

func (o *OCRRegion) Extract(page *Page) ([]model.TableRegion, error) {
	if page.Image == nil || o.engine == nil {
		return nil, nil
	}

	regions := imaging.TableRegions(page.Image)
	var tables []model.TableRegion
	for _, region := range regions {
		crop := page.Image.SubImage(region)
		prepared := imaging.Preprocess(crop)

		cfg := o.base
		cfg.PSM = ocr.PSM_SINGLE_BLOCK
		text, err := ocr.Recognize(o.engine, prepared, cfg)
		if err != nil {
			return nil, fmt.Errorf("recognize table region on page %d: %w", page.Index, err)
		}

		grid := gridFromText(text)
		if len(grid) < o.cfg.MinRows || len(grid[0]) < o.cfg.MinCols {
			continue
		}

		tables = append(tables, model.TableRegion{
			PageIndex:  page.Index,
			BBox:       model.BBoxFromRect(region),
			Markdown:   model.GridToMarkdown(grid),
			Confidence: ocrRegionConfidence,
		})
	}
	return tables, nil
}

// gridFromText turns recognized region text into rows of cells. The
// first row fixes the column count.
func gridFromText(text string) [][]string {
	var grid [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		grid = append(grid, cellSplitRe.Split(line, -1))
	}
	return grid
}
