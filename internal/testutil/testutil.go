// Package testutil provides shared test doubles and minimal office
// document fixtures.
package testutil

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"doc-translator/internal/translation"
)

// MockBackend is a scriptable translation backend. By default it
// echoes every segment; Translations overrides individual segments.
type MockBackend struct {
	// Translations maps a source segment to its translation. Segments
	// not in the map are returned unchanged.
	Translations map[string]string
	// Err, when set, fails every call. If ErrContaining is also set,
	// only payloads containing that substring fail.
	Err           error
	ErrContaining string
	// DropSegments removes that many trailing segments from each
	// response, simulating a model that merges delimiters. If
	// DropContaining is also set, only payloads containing that
	// substring are affected.
	DropSegments   int
	DropContaining string
	// Delay is how long each call takes; the context is honored.
	Delay time.Duration

	mu    sync.Mutex
	Calls []string
}

// TranslateText implements translation.Backend.
func (m *MockBackend) TranslateText(ctx context.Context, payload, sourceLang, targetLang string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, payload)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if m.Err != nil && (m.ErrContaining == "" || strings.Contains(payload, m.ErrContaining)) {
		return "", m.Err
	}

	segments := strings.Split(payload, translation.Delimiter)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if t, ok := m.Translations[seg]; ok {
			out = append(out, t)
		} else {
			out = append(out, seg)
		}
	}

	if m.DropSegments > 0 && (m.DropContaining == "" || strings.Contains(payload, m.DropContaining)) {
		keep := len(out) - m.DropSegments
		if keep < 1 {
			keep = 1
		}
		out = out[:keep]
	}

	return strings.Join(out, " "+translation.Delimiter+" "), nil
}

// CallCount returns how many requests the backend received.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Office document fixtures ---

// CreateDocx writes a minimal valid Word document to path, one
// paragraph per entry of paragraphs. Empty entries become empty
// paragraphs.
func CreateDocx(t *testing.T, path string, paragraphs []string) {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		if p == "" {
			body.WriteString("<w:p/>")
			continue
		}
		body.WriteString("<w:p><w:r><w:t>")
		body.WriteString(EscapeXML(p))
		body.WriteString("</w:t></w:r></w:p>")
	}

	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`

	contentTypes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	WriteZip(t, path, map[string]string{
		"[Content_Types].xml": contentTypes,
		"_rels/.rels":         rels,
		"word/document.xml":   documentXML,
	})
}

// CreatePptx writes a minimal valid PowerPoint presentation to path.
// Each entry of slides becomes one slide with a single shape holding
// one text paragraph per string.
func CreatePptx(t *testing.T, path string, slides [][]string) {
	t.Helper()

	files := map[string]string{
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`,
		"ppt/presentation.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`,
	}

	var overrides strings.Builder
	overrides.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)

	for i, paras := range slides {
		var body strings.Builder
		for _, p := range paras {
			if p == "" {
				body.WriteString("<a:p/>")
				continue
			}
			body.WriteString("<a:p><a:r><a:t>")
			body.WriteString(EscapeXML(p))
			body.WriteString("</a:t></a:r></a:p>")
		}

		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		files[name] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody><a:bodyPr/>` + body.String() + `</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
		overrides.WriteString(fmt.Sprintf(`<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, name))
	}

	files["[Content_Types].xml"] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/>` + overrides.String() + `</Types>`

	WriteZip(t, path, files)
}

// WriteZip writes a zip archive with the given entries to path.
func WriteZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// EscapeXML escapes text for embedding in an XML fixture.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
