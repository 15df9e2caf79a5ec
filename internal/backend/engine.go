package backend

import (
	"bytes"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"fontsieve/internal/faults"
	"fontsieve/internal/unirange"
)

// Engine reduces a parsed font to the glyphs needed for a selection and
// returns the subsetted sfnt bytes.
type Engine interface {
	Subset(data []byte, sel *unirange.Selection) ([]byte, error)
}

// SFNTEngine subsets TrueType and OpenType fonts with seehuhn.de/go/sfnt.
//
// The result keeps .notdef, every glyph reached from a selected codepoint and
// the components of composite glyphs. Layout tables are dropped since their
// glyph references do not survive renumbering.
type SFNTEngine struct{}

// Subset implements Engine.
func (SFNTEngine) Subset(data []byte, sel *unirange.Selection) ([]byte, error) {
	font, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, faults.Wrap(faults.ErrMalformedInput, "inprocess", "parse", "", err)
	}
	if font.CMapTable == nil {
		return nil, faults.Wrap(faults.ErrDeclined, "inprocess", "cmap", "font has no cmap table", nil)
	}
	lookup, err := font.CMapTable.GetBest()
	if err != nil {
		return nil, faults.Wrap(faults.ErrDeclined, "inprocess", "cmap", "no usable unicode mapping", err)
	}

	numGlyphs := font.NumGlyphs()
	keep := []glyph.ID{0}
	newID := map[glyph.ID]glyph.ID{0: 0}
	retain := func(gid glyph.ID) {
		if _, seen := newID[gid]; seen {
			return
		}
		newID[gid] = glyph.ID(len(keep))
		keep = append(keep, gid)
	}

	// BMP subtables truncate runes to 16 bits on lookup.
	_, highest := lookup.CodeRange()
	mapped := make(map[rune]glyph.ID)
	sel.Visit(func(r rune) {
		if r > highest {
			return
		}
		gid := lookup.Lookup(r)
		if gid == 0 || int(gid) >= numGlyphs {
			return
		}
		mapped[r] = gid
		retain(gid)
	})
	if len(mapped) == 0 {
		return nil, faults.Wrap(faults.ErrDeclined, "inprocess", "subset", "font covers none of the selected codepoints", nil)
	}

	if outlines, ok := font.Outlines.(*glyf.Outlines); ok {
		for i := 0; i < len(keep); i++ {
			g := outlines.Glyphs[keep[i]]
			if g == nil {
				continue
			}
			for _, component := range g.Components() {
				if int(component) < numGlyphs {
					retain(component)
				}
			}
		}
	}

	font.CMapTable = nil
	font.Gdef = nil
	font.Gsub = nil
	font.Gpos = nil
	subset := font.Subset(keep)

	subset.CMapTable = buildCMap(mapped, newID)

	var buf bytes.Buffer
	if _, err := subset.Write(&buf); err != nil {
		return nil, faults.Wrap(faults.ErrDeclined, "inprocess", "write", "encode subset font", err)
	}
	if buf.Len() == 0 {
		return nil, faults.Wrap(faults.ErrDeclined, "inprocess", "write", "empty subset font", nil)
	}
	return buf.Bytes(), nil
}

// buildCMap maps the retained codepoints to their renumbered glyphs. The BMP
// subtable is always written; a format 12 subtable is added as soon as one
// codepoint lies outside the BMP.
func buildCMap(mapped map[rune]glyph.ID, newID map[glyph.ID]glyph.ID) cmap.Table {
	bmp := cmap.Format4{}
	full := cmap.Format12{}
	for r, gid := range mapped {
		if r <= 0xFFFF {
			bmp[uint16(r)] = newID[gid]
		}
		full[uint32(r)] = newID[gid]
	}
	table := cmap.Table{
		cmap.Key{PlatformID: 0, EncodingID: 3}: bmp.Encode(0),
		cmap.Key{PlatformID: 3, EncodingID: 1}: bmp.Encode(0),
	}
	if len(full) > len(bmp) {
		table[cmap.Key{PlatformID: 0, EncodingID: 4}] = full.Encode(0)
		table[cmap.Key{PlatformID: 3, EncodingID: 10}] = full.Encode(0)
	}
	return table
}

// Compressor packs a subsetted sfnt into the output container.
type Compressor func(font []byte) ([]byte, error)
