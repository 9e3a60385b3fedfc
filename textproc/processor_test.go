package textproc

import (
	"strings"
	"testing"
)

func TestJoinHyphenation(t *testing.T) {
	p := New()

	tests := []struct {
		in   string
		want string
	}{
		{"infor-\nmación completa", "información completa"},
		{"self-\ncontained", "selfcontained"},
		{"una lista:\n- item", "una lista:\n- item"},
		{"fin-  \n  al", "final"},
	}

	for _, tt := range tests {
		if got := p.JoinHyphenation(tt.in); got != tt.want {
			t.Errorf("JoinHyphenation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_PreservesSpanish(t *testing.T) {
	p := New()

	in := "¿Cómo está? ¡Ñandú! señal número"
	got := p.Normalize(in)
	if got != in {
		t.Errorf("Normalize(%q) = %q, want unchanged", in, got)
	}
}

func TestNormalize_FixesLigatures(t *testing.T) {
	p := New()

	if got := p.Normalize("ﬁnal oﬃcial"); got != "final official" {
		t.Errorf("got %q, want ligatures expanded", got)
	}
}

func TestNormalize_StripsControlChars(t *testing.T) {
	p := New()

	got := p.Normalize("hola\x00mundo\x07ya")
	if strings.ContainsAny(got, "\x00\x07") {
		t.Errorf("control characters survived: %q", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	p := New()

	in := "uno    dos\tтри\n\n\n\ncuatro  \n cinco"
	got := p.CollapseWhitespace(in)
	want := "uno dos три\n\ncuatro\ncinco"
	if got != want {
		t.Errorf("CollapseWhitespace = %q, want %q", got, want)
	}
}

func TestFilterNoiseLines(t *testing.T) {
	p := New()

	in := strings.Join([]string{
		"Texto normal de la página",
		"|||| ---- |.|.| ====",
		"",
		"123 456 789 000",
		"Artículo 12 del contrato",
	}, "\n")

	got := p.FilterNoiseLines(in)
	if strings.Contains(got, "||||") {
		t.Error("symbol noise line survived")
	}
	if strings.Contains(got, "123 456") {
		t.Error("numeric noise line survived")
	}
	if !strings.Contains(got, "Texto normal") || !strings.Contains(got, "Artículo 12") {
		t.Errorf("real text dropped: %q", got)
	}
	if !strings.Contains(got, "\n\n") {
		t.Error("blank line separating paragraphs was removed")
	}
}

func TestNormalizeLists(t *testing.T) {
	p := New()

	tests := []struct {
		in   string
		want string
	}{
		{"1. primero", "1. primero"},
		{"2) segundo", "2. segundo"},
		{"(3) tercero", "3. tercero"},
		{"4- cuarto", "4. cuarto"},
		{"• viñeta", "- viñeta"},
		{"– raya", "- raya"},
		{"- ya normal", "- ya normal"},
		{"sin marcador", "sin marcador"},
	}

	for _, tt := range tests {
		if got := p.NormalizeLists(tt.in); got != tt.want {
			t.Errorf("NormalizeLists(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPromoteHeadings(t *testing.T) {
	in := strings.Join([]string{
		"ARTÍCULO 1. Objeto del contrato",
		"Considerando que las partes acuerdan",
		"el artículo anterior establece lo contrario para este caso en " +
			"particular y no debe promoverse porque es demasiado largo",
		"### CAPÍTULO II",
	}, "\n")

	got := PromoteHeadings(in)
	lines := strings.Split(got, "\n")

	if lines[0] != "### ARTÍCULO 1. Objeto del contrato" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "### Considerando que las partes acuerdan" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if strings.HasPrefix(lines[2], "###") {
		t.Errorf("long body line promoted: %q", lines[2])
	}
	if lines[3] != "### CAPÍTULO II" {
		t.Errorf("existing heading changed: %q", lines[3])
	}
}

func TestCorrections(t *testing.T) {
	c, err := ParseCorrections(strings.NewReader(
		"artfculo,artículo\nclausuia,cláusula\n,skipped\nshort\n"))
	if err != nil {
		t.Fatalf("ParseCorrections: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("loaded %d rules, want 2", c.Len())
	}

	got := c.Apply("El ARTFCULO y la clausuia del artfculos")
	if !strings.Contains(got, "artículo y") {
		t.Errorf("case-insensitive correction missed: %q", got)
	}
	if !strings.Contains(got, "cláusula") {
		t.Errorf("correction missed: %q", got)
	}
	if !strings.Contains(got, "artfculos") {
		t.Errorf("partial word replaced, want whole-word only: %q", got)
	}
}

func TestLoadCorrections_MissingFile(t *testing.T) {
	c, err := LoadCorrections("/nonexistent/corrections.csv")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("got %d rules from missing file", c.Len())
	}
	if got := c.Apply("sin cambios"); got != "sin cambios" {
		t.Errorf("empty store modified text: %q", got)
	}
}

func TestProcess_FullPipeline(t *testing.T) {
	c, err := ParseCorrections(strings.NewReader("artfculo,artículo\n"))
	if err != nil {
		t.Fatalf("ParseCorrections: %v", err)
	}
	p := NewWithCorrections(c)

	in := strings.Join([]string{
		"ARTFCULO 1. Las partes con-",
		"vienen   lo siguiente:",
		"|.|.| ---- ====",
		"(1) primera obligación",
		"• segunda obligación",
	}, "\n")

	got := p.Process(in)

	if !strings.Contains(got, "### artículo 1. Las partes convienen lo siguiente:") {
		t.Errorf("pipeline output:\n%s", got)
	}
	if strings.Contains(got, "|.|.|") {
		t.Error("noise line survived pipeline")
	}
	if !strings.Contains(got, "1. primera obligación") {
		t.Errorf("numbered list not normalized:\n%s", got)
	}
	if !strings.Contains(got, "- segunda obligación") {
		t.Errorf("bullet list not normalized:\n%s", got)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	p := New()

	in := strings.Join([]string{
		"CONSIDERANDO que el trabajo previo es-",
		"taba incompleto, las partes   acuerdan:",
		"1) revisar el texto",
		"• aprobar la versión final",
	}, "\n")

	once := p.Process(in)
	twice := p.Process(once)
	if once != twice {
		t.Errorf("pipeline not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
	}
}

func TestProcess_Empty(t *testing.T) {
	p := New()
	if got := p.Process(""); got != "" {
		t.Errorf("Process(\"\") = %q", got)
	}
}
