package webfont

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/andybalholm/brotli"
	"seehuhn.de/go/sfnt/header"
)

const (
	woff2Signature  = 0x774F4632 // "wOF2"
	woff2HeaderSize = 48

	// Transform version 3 marks glyf and loca as stored untransformed.
	nullTransformGlyf = 3 << 6
)

// knownTags lists the table tags that WOFF2 encodes as a 6-bit index.
var knownTags = [...]string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

var knownTagIndex = func() map[string]byte {
	m := make(map[string]byte, len(knownTags))
	for i, tag := range knownTags {
		m[tag] = byte(i)
	}
	return m
}()

type woff2Table struct {
	tag  string
	data []byte
}

// EncodeWOFF2 wraps a TrueType or OpenType font in a WOFF2 container. Tables
// are stored without the optional glyf/loca transforms and compressed as a
// single Brotli stream at the given quality (0-11).
func EncodeWOFF2(font []byte, quality int) ([]byte, error) {
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		return nil, fmt.Errorf("woff2: compression quality %d out of range", quality)
	}

	r := bytes.NewReader(font)
	info, err := header.Read(r)
	if err != nil {
		return nil, fmt.Errorf("woff2: read table directory: %w", err)
	}

	tables := make([]woff2Table, 0, len(info.Toc))
	for tag := range info.Toc {
		data, err := info.ReadTableBytes(r, tag)
		if err != nil {
			return nil, fmt.Errorf("woff2: read table %q: %w", tag, err)
		}
		tables = append(tables, woff2Table{tag: tag, data: data})
	}
	if len(tables) == 0 {
		return nil, errors.New("woff2: font has no tables")
	}
	orderTables(tables)

	var stream bytes.Buffer
	bw := brotli.NewWriterLevel(&stream, quality)
	for _, t := range tables {
		if _, err := bw.Write(t.data); err != nil {
			return nil, fmt.Errorf("woff2: compress %q: %w", t.tag, err)
		}
	}
	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("woff2: finish compression: %w", err)
	}

	var directory bytes.Buffer
	sfntSize := uint32(12 + 16*len(tables))
	for _, t := range tables {
		writeDirectoryEntry(&directory, t)
		sfntSize += pad4(uint32(len(t.data)))
	}

	compressedSize := uint32(stream.Len())
	total := uint32(woff2HeaderSize) + uint32(directory.Len()) + pad4(compressedSize)

	out := make([]byte, 0, total)
	out = binary.BigEndian.AppendUint32(out, woff2Signature)
	out = binary.BigEndian.AppendUint32(out, info.ScalerType)
	out = binary.BigEndian.AppendUint32(out, total)
	out = binary.BigEndian.AppendUint16(out, uint16(len(tables)))
	out = binary.BigEndian.AppendUint16(out, 0) // reserved
	out = binary.BigEndian.AppendUint32(out, sfntSize)
	out = binary.BigEndian.AppendUint32(out, compressedSize)
	out = binary.BigEndian.AppendUint16(out, 1) // majorVersion
	out = binary.BigEndian.AppendUint16(out, 0) // minorVersion
	out = append(out, make([]byte, 20)...)      // no metadata or private block
	out = append(out, directory.Bytes()...)
	out = append(out, stream.Bytes()...)
	for uint32(len(out)) < total {
		out = append(out, 0)
	}
	return out, nil
}

// orderTables sorts tables by tag and moves loca directly behind glyf, which
// the container format requires.
func orderTables(tables []woff2Table) {
	sort.Slice(tables, func(i, j int) bool { return tables[i].tag < tables[j].tag })

	glyf, loca := -1, -1
	for i, t := range tables {
		switch t.tag {
		case "glyf":
			glyf = i
		case "loca":
			loca = i
		}
	}
	if glyf < 0 || loca < 0 || loca == glyf+1 {
		return
	}
	locaTable := tables[loca]
	copy(tables[glyf+2:loca+1], tables[glyf+1:loca])
	tables[glyf+1] = locaTable
}

func writeDirectoryEntry(buf *bytes.Buffer, t woff2Table) {
	var flags byte
	index, known := knownTagIndex[t.tag]
	if known {
		flags = index
	} else {
		flags = 63
	}
	if t.tag == "glyf" || t.tag == "loca" {
		flags |= nullTransformGlyf
	}
	buf.WriteByte(flags)
	if !known {
		buf.WriteString(t.tag)
	}
	buf.Write(appendUIntBase128(nil, uint32(len(t.data))))
}

// appendUIntBase128 encodes v as big-endian groups of seven bits with the
// high bit set on every byte but the last.
func appendUIntBase128(dst []byte, v uint32) []byte {
	var tmp [5]byte
	n := len(tmp)
	for {
		n--
		tmp[n] = byte(v & 0x7F)
		if n != len(tmp)-1 {
			tmp[n] |= 0x80
		}
		v >>= 7
		if v == 0 {
			break
		}
	}
	return append(dst, tmp[n:]...)
}

func pad4(n uint32) uint32 {
	return (n + 3) &^ 3
}
