package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"doc-translator/internal/testutil"
)

// createPptxWithSlides writes a pptx with one entry per slide number,
// each holding the given raw txBody XML.
func createPptxWithSlides(t *testing.T, path string, slides map[int]string) {
	t.Helper()

	files := map[string]string{
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`,
		"ppt/presentation.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`,
	}

	var overrides strings.Builder
	overrides.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)

	for num, body := range slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", num)
		files[name] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody><a:bodyPr/>` + body + `</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
		overrides.WriteString(fmt.Sprintf(`<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, name))
	}

	files["[Content_Types].xml"] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/>` + overrides.String() + `</Types>`

	testutil.WriteZip(t, path, files)
}

func TestOpenPptxBlockTexts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pptx")
	testutil.CreatePptx(t, path, [][]string{
		{"Title", "Subtitle"},
		{"Body"},
	})

	doc, err := OpenPptx(path)
	if err != nil {
		t.Fatalf("OpenPptx: %v", err)
	}

	want := []string{"Title", "Subtitle", "Body"}
	got := doc.BlockTexts()
	if len(got) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOpenPptxOrdersSlidesNumerically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pptx")
	// Zip entry order is map order, which is random; numeric slide
	// order must come from the part names, with slide10 after slide2.
	createPptxWithSlides(t, path, map[int]string{
		1:  `<a:p><a:r><a:t>one</a:t></a:r></a:p>`,
		2:  `<a:p><a:r><a:t>two</a:t></a:r></a:p>`,
		10: `<a:p><a:r><a:t>ten</a:t></a:r></a:p>`,
	})

	doc, err := OpenPptx(path)
	if err != nil {
		t.Fatalf("OpenPptx: %v", err)
	}

	want := []string{"one", "two", "ten"}
	got := doc.BlockTexts()
	if len(got) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPptxSetBlockTextAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pptx")
	testutil.CreatePptx(t, path, [][]string{
		{"Hola"},
		{"Mundo"},
	})

	doc, err := OpenPptx(path)
	if err != nil {
		t.Fatalf("OpenPptx: %v", err)
	}
	if err := doc.SetBlockText(1, "World"); err != nil {
		t.Fatalf("SetBlockText: %v", err)
	}
	out := filepath.Join(dir, "out.pptx")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := OpenPptx(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.BlockTexts()
	if got[0] != "Hola" || got[1] != "World" {
		t.Errorf("texts after save = %v, want [Hola World]", got)
	}

	// Slide 1 had no replacements and must be untouched.
	if raw := readZipEntry(t, out, "ppt/slides/slide1.xml"); raw != readZipEntry(t, path, "ppt/slides/slide1.xml") {
		t.Errorf("untouched slide was rewritten")
	}
}

func TestPptxMultipleShapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pptx")
	createPptxWithSlides(t, path, map[int]string{
		1: `<a:p><a:r><a:t>first shape</a:t></a:r></a:p></p:txBody></p:sp><p:sp><p:txBody><a:bodyPr/><a:p><a:r><a:t>second shape</a:t></a:r></a:p>`,
	})

	doc, err := OpenPptx(path)
	if err != nil {
		t.Fatalf("OpenPptx: %v", err)
	}

	want := []string{"first shape", "second shape"}
	got := doc.BlockTexts()
	if len(got) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPptxResolvesNamespacePrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pptx")
	testutil.WriteZip(t, path, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/><Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/></Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`,
		"ppt/presentation.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`,
		"ppt/slides/slide1.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<q:sld xmlns:d="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:q="http://schemas.openxmlformats.org/presentationml/2006/main"><q:cSld><q:spTree><q:sp><q:txBody><d:bodyPr/><d:p><d:r><d:t>Hola</d:t></d:r></d:p></q:txBody></q:sp></q:spTree></q:cSld></q:sld>`,
	})

	doc, err := OpenPptx(path)
	if err != nil {
		t.Fatalf("OpenPptx: %v", err)
	}
	texts := doc.BlockTexts()
	if len(texts) != 1 || texts[0] != "Hola" {
		t.Fatalf("texts = %v, want [Hola]", texts)
	}

	if err := doc.SetBlockText(0, "Hello"); err != nil {
		t.Fatalf("SetBlockText: %v", err)
	}
	out := filepath.Join(dir, "out.pptx")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := OpenPptx(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.BlockTexts()[0]; got != "Hello" {
		t.Errorf("text after save = %q, want Hello", got)
	}
	if raw := readZipEntry(t, out, "ppt/slides/slide1.xml"); !strings.Contains(raw, `<d:t xml:space="preserve">Hello</d:t>`) {
		t.Errorf("replacement did not keep the slide's own prefix:\n%s", raw)
	}
}

func TestOpenPptxNoSlides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pptx")
	createPptxWithSlides(t, path, nil)

	doc, err := OpenPptx(path)
	if err != nil {
		t.Fatalf("OpenPptx: %v", err)
	}
	if got := doc.BlockTexts(); len(got) != 0 {
		t.Errorf("got %d blocks, want 0", len(got))
	}
}

func TestOpenPptxInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pptx")
	testutil.WriteZip(t, path, map[string]string{
		"[Content_Types].xml": "<Types/>",
	})

	if _, err := OpenPptx(path); err == nil || !strings.Contains(err.Error(), presentationPart) {
		t.Errorf("err = %v, want missing %s", err, presentationPart)
	}
}

func TestSlideNumber(t *testing.T) {
	tests := []struct {
		name string
		num  int
		ok   bool
	}{
		{"ppt/slides/slide1.xml", 1, true},
		{"ppt/slides/slide10.xml", 10, true},
		{"ppt/slides/slide2.xml", 2, true},
		{"ppt/slides/_rels/slide1.xml.rels", 0, false},
		{"ppt/notesSlides/notesSlide1.xml", 0, false},
		{"ppt/slides/slideabc.xml", 0, false},
		{"ppt/slides/slide0.xml", 0, false},
		{"ppt/presentation.xml", 0, false},
	}

	for _, tt := range tests {
		num, ok := slideNumber(tt.name)
		if num != tt.num || ok != tt.ok {
			t.Errorf("slideNumber(%q) = (%d, %v), want (%d, %v)", tt.name, num, ok, tt.num, tt.ok)
		}
	}
}
