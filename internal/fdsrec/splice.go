package fdsrec

import (
	"sort"
	"strings"
)

// Placement tells how Splice positioned the new block.
type Placement int

const (
	// PlaceBlock replaced the contiguous span from the first species record to the REAC record.
	PlaceBlock Placement = iota
	// PlaceScattered replaced the span covering scattered relevant records.
	PlaceScattered
	// PlaceAfterHeader inserted after the HEAD (or MESH) record.
	PlaceAfterHeader
	// PlacePrepend inserted at the start of the document.
	PlacePrepend
)

func (p Placement) String() string {
	switch p {
	case PlaceBlock:
		return "block"
	case PlaceScattered:
		return "scattered"
	case PlaceAfterHeader:
		return "after-header"
	case PlacePrepend:
		return "prepend"
	}
	return "unknown"
}

// SpliceResult is the modified document and where the block went. Span is the
// replaced range of the original document; it is empty for insertions.
type SpliceResult struct {
	Document  string
	Placement Placement
	Span      Span
}

// relevantRecords returns every species and REAC record in document order.
func relevantRecords(doc, fuelID string) []Match {
	all := append(speciesRecordRule(fuelID).FindAll(doc), reacRecordRule.FindAll(doc)...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })
	return all
}

// LocateBlock returns the span from the first to the last reaction-related record.
func LocateBlock(doc, fuelID string) (Span, bool) {
	all := relevantRecords(doc, fuelID)
	if len(all) == 0 {
		return Span{}, false
	}
	return Span{Start: all[0].Start, End: all[len(all)-1].End}, true
}

// OriginalBlock returns the verbatim text of the located block, trimmed of
// surrounding whitespace.
func OriginalBlock(doc, fuelID string) (string, bool) {
	span, ok := LocateBlock(doc, fuelID)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(doc[span.Start:span.End]), true
}

// contiguousBlock returns the span from the first species record through the
// end of the first REAC record that follows it.
func contiguousBlock(doc, fuelID string) (Span, bool) {
	first, ok := speciesRecordRule(fuelID).Find(doc)
	if !ok {
		return Span{}, false
	}
	for _, r := range reacRecordRule.FindAll(doc) {
		if r.Start >= first.End {
			return Span{Start: first.Start, End: r.End}, true
		}
	}
	return Span{}, false
}

// Splice places block into doc, replacing the existing reaction records when
// there are any. Bytes outside the returned span are never changed.
func Splice(doc, block, fuelID string) SpliceResult {
	if span, ok := contiguousBlock(doc, fuelID); ok {
		return replace(doc, block, span, PlaceBlock)
	}
	if span, ok := LocateBlock(doc, fuelID); ok {
		return replace(doc, block, span, PlaceScattered)
	}

	anchor, ok := headRule.Find(doc)
	if !ok {
		anchor, ok = meshRule.Find(doc)
	}
	if ok {
		at := anchor.End
		return SpliceResult{
			Document:  doc[:at] + "\n" + withNewline(block) + "\n" + doc[at:],
			Placement: PlaceAfterHeader,
			Span:      Span{Start: at, End: at},
		}
	}
	return SpliceResult{
		Document:  withNewline(block) + "\n" + doc,
		Placement: PlacePrepend,
	}
}

func replace(doc, block string, span Span, placement Placement) SpliceResult {
	if strings.HasSuffix(doc[span.Start:span.End], "\n") {
		block = withNewline(block)
	}
	return SpliceResult{
		Document:  doc[:span.Start] + block + doc[span.End:],
		Placement: placement,
		Span:      span,
	}
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
