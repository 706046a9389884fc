package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	presentationPart = "ppt/presentation.xml"

	drawingMLNamespace = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

// Pptx is an open PowerPoint presentation. One block per text
// paragraph inside a shape's text body, slides visited in numeric
// order (slide2 before slide10).
type Pptx struct {
	entries []zipEntry
	slides  []pptxSlide
	blocks  []pptxBlockRef
	repl    map[int]string
}

type pptxSlide struct {
	entry int // index into entries
	num   int
	paras []paragraph
}

type pptxBlockRef struct {
	slide int // index into slides
	para  int
}

// OpenPptx reads and validates the PowerPoint presentation at path.
func OpenPptx(path string) (*Pptx, error) {
	entries, err := readContainer(path)
	if err != nil {
		return nil, err
	}

	if findEntry(entries, contentTypesPart) < 0 {
		return nil, fmt.Errorf("invalid pptx: missing %s", contentTypesPart)
	}
	if findEntry(entries, presentationPart) < 0 {
		return nil, fmt.Errorf("invalid pptx: missing %s", presentationPart)
	}

	var slides []pptxSlide
	for i, e := range entries {
		num, ok := slideNumber(e.name)
		if !ok {
			continue
		}
		paras, err := scanPart(e.data, drawingMLNamespace, "p", "t")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.name, err)
		}
		slides = append(slides, pptxSlide{entry: i, num: num, paras: paras})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var blocks []pptxBlockRef
	for si, s := range slides {
		for pi := range s.paras {
			blocks = append(blocks, pptxBlockRef{slide: si, para: pi})
		}
	}

	return &Pptx{
		entries: entries,
		slides:  slides,
		blocks:  blocks,
		repl:    make(map[int]string),
	}, nil
}

// slideNumber extracts N from ppt/slides/slideN.xml.
func slideNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "ppt/slides/slide")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, ".xml")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// BlockTexts returns one entry per text paragraph, slides in numeric
// order and paragraphs in slide order within each slide.
func (p *Pptx) BlockTexts() []string {
	texts := make([]string, len(p.blocks))
	for i, b := range p.blocks {
		texts[i] = p.slides[b.slide].paras[b.para].text()
	}
	return texts
}

// SetBlockText records a replacement for block ref. The change is
// applied when the presentation is saved.
func (p *Pptx) SetBlockText(ref int, text string) error {
	if ref < 0 || ref >= len(p.blocks) {
		return fmt.Errorf("block %d out of range (presentation has %d)", ref, len(p.blocks))
	}
	b := p.blocks[ref]
	if len(p.slides[b.slide].paras[b.para].runs) == 0 {
		return fmt.Errorf("block %d has no text runs", ref)
	}
	p.repl[ref] = text
	return nil
}

// Save writes the presentation to path. Only slides with replaced text
// are rewritten; every other entry is copied through byte for byte.
func (p *Pptx) Save(path string) error {
	out := make([]zipEntry, len(p.entries))
	copy(out, p.entries)

	perSlide := make(map[int]map[int]string)
	for ref, text := range p.repl {
		b := p.blocks[ref]
		if perSlide[b.slide] == nil {
			perSlide[b.slide] = make(map[int]string)
		}
		perSlide[b.slide][b.para] = text
	}

	for si, repl := range perSlide {
		s := p.slides[si]
		rewritten, err := rewritePart(p.entries[s.entry].data, s.paras, repl)
		if err != nil {
			return fmt.Errorf("rewrite %s: %w", p.entries[s.entry].name, err)
		}
		out[s.entry] = zipEntry{name: p.entries[s.entry].name, data: rewritten}
	}

	return writeContainer(path, out)
}
