package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// --- Container I/O ---

// zipEntry is one file inside an OOXML container, held in memory so
// the container can be rewritten with most entries untouched.
type zipEntry struct {
	name string
	data []byte
}

// readContainer reads every entry of the archive at path into memory,
// preserving archive order.
func readContainer(path string) ([]zipEntry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	entries := make([]zipEntry, 0, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read archive entry %s: %w", f.Name, err)
		}
		entries = append(entries, zipEntry{name: f.Name, data: data})
	}
	return entries, nil
}

// findEntry returns the index of the named entry, or -1.
func findEntry(entries []zipEntry, name string) int {
	for i, e := range entries {
		if e.name == name {
			return i
		}
	}
	return -1
}

// writeContainer writes entries to a new archive at path.
func writeContainer(path string, entries []zipEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("create archive entry %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("write archive entry %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize archive: %w", err)
	}
	return f.Close()
}

// --- XML part scanning ---

// textRun is one text element inside a paragraph, with the byte span
// of the whole element in the raw part data and the tag as written.
type textRun struct {
	start int64
	end   int64
	tag   string
	text  string
}

// paragraph is one text paragraph of an XML part.
type paragraph struct {
	runs []textRun
}

// text returns the paragraph's full text, run texts concatenated.
func (p paragraph) text() string {
	if len(p.runs) == 1 {
		return p.runs[0].text
	}
	var sb strings.Builder
	for _, r := range p.runs {
		sb.WriteString(r.text)
	}
	return sb.String()
}

type pendingRun struct {
	start int64
	tag   string
	text  strings.Builder
}

// nsScope tracks in-scope xmlns prefix bindings during a raw token
// scan, one frame per open element. The empty prefix key holds the
// default namespace.
type nsScope struct {
	frames []map[string]string
}

func (s *nsScope) push(attrs []xml.Attr) {
	var frame map[string]string
	for _, a := range attrs {
		var prefix string
		switch {
		case a.Name.Space == "xmlns":
			prefix = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			prefix = ""
		default:
			continue
		}
		if frame == nil {
			frame = make(map[string]string)
		}
		frame[prefix] = a.Value
	}
	s.frames = append(s.frames, frame)
}

func (s *nsScope) pop() {
	if n := len(s.frames); n > 0 {
		s.frames = s.frames[:n-1]
	}
}

// resolve returns the namespace URI bound to prefix at the current
// depth, or the empty string when unbound.
func (s *nsScope) resolve(prefix string) string {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if uri, ok := s.frames[i][prefix]; ok {
			return uri
		}
	}
	return ""
}

// scanPart locates paragraphs and their text runs in one streaming
// pass, recording byte offsets so replacements can later be spliced
// into the raw bytes without re-encoding the XML. RawToken reports
// names as written, so xmlns bindings are tracked here and elements
// are matched on resolved namespace plus local name, whatever prefix
// the part binds. Each run records its tag as written so replacements
// reuse the part's own prefix.
//
// Paragraph elements can nest (a text box inside a body paragraph);
// text runs attach to the innermost open paragraph, and the paragraph
// order follows the order of the opening tags.
func scanPart(data []byte, ns, paraLocal, textLocal string) ([]paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var paras []paragraph
	var open []int // indexes into paras, innermost paragraph last
	var pending *pendingRun
	var scope nsScope

	matches := func(name xml.Name, local string) bool {
		return name.Local == local && scope.resolve(name.Space) == ns
	}

	for {
		offset := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			scope.push(t.Attr)
			switch {
			case matches(t.Name, paraLocal):
				open = append(open, len(paras))
				paras = append(paras, paragraph{})
			case matches(t.Name, textLocal):
				if len(open) > 0 && pending == nil {
					pending = &pendingRun{start: offset, tag: rawName(t.Name)}
				}
			}
		case xml.EndElement:
			switch {
			case matches(t.Name, paraLocal):
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			case matches(t.Name, textLocal):
				if pending != nil && len(open) > 0 {
					idx := open[len(open)-1]
					paras[idx].runs = append(paras[idx].runs, textRun{
						start: pending.start,
						end:   dec.InputOffset(),
						tag:   pending.tag,
						text:  pending.text.String(),
					})
				}
				pending = nil
			}
			scope.pop()
		case xml.CharData:
			if pending != nil {
				pending.text.Write(t)
			}
		}
	}

	return paras, nil
}

// rawName renders an element name the way it appears in the source,
// prefix included.
func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// --- Text replacement ---

// edit replaces the byte span [start, end) with repl.
type edit struct {
	start, end int64
	repl       []byte
}

// rewritePart splices replacement texts into the raw part data. For
// each replaced paragraph the first text run receives the whole new
// text and the remaining runs are emptied, so run-level formatting
// survives the replacement.
func rewritePart(data []byte, paras []paragraph, repl map[int]string) ([]byte, error) {
	var edits []edit
	for ref, text := range repl {
		if ref < 0 || ref >= len(paras) {
			return nil, fmt.Errorf("paragraph %d out of range", ref)
		}
		runs := paras[ref].runs
		if len(runs) == 0 {
			return nil, fmt.Errorf("paragraph %d has no text runs", ref)
		}
		edits = append(edits, edit{start: runs[0].start, end: runs[0].end, repl: renderTextElement(runs[0].tag, text)})
		for _, r := range runs[1:] {
			edits = append(edits, edit{start: r.start, end: r.end, repl: []byte("<" + r.tag + "/>")})
		}
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out bytes.Buffer
	out.Grow(len(data))
	last := int64(0)
	for _, e := range edits {
		out.Write(data[last:e.start])
		out.Write(e.repl)
		last = e.end
	}
	out.Write(data[last:])
	return out.Bytes(), nil
}

// renderTextElement serializes a replacement text element. xml:space
// is always declared so leading and trailing whitespace in the new
// text survives whitespace collapsing.
func renderTextElement(tag, text string) []byte {
	if text == "" {
		return []byte("<" + tag + "/>")
	}
	var buf bytes.Buffer
	buf.WriteString("<" + tag + ` xml:space="preserve">`)
	xml.EscapeText(&buf, []byte(text))
	buf.WriteString("</" + tag + ">")
	return buf.Bytes()
}
