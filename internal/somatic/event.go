// Package somatic detects somatic STR mutation events in paired
// tumor-normal records.
package somatic

import "github.com/inodb/strsig/internal/vcf"

// Event is a somatic STR mutation: the tumor repeat length differs from
// the normal repeat length at a locus. Change is never zero.
type Event struct {
	Chrom    string
	Pos      int64
	Motif    string // repeat unit sequence
	MotifLen int    // len(Motif)
	RefLen   int    // reference repeat count
	Change   int    // effective(tumor) - effective(normal), signed
}

// EffectiveLength reduces a sample's per-allele repeat counts to a single
// scalar: the largest observed allele repeat count. This is the documented
// default reduction for multi-allele samples; exact parity with tools that
// compare alleles pairwise is not guaranteed.
func EffectiveLength(repcn []int) int {
	max := 0
	for _, n := range repcn {
		if n > max {
			max = n
		}
	}
	return max
}

// Extract compares the tumor and normal repeat lengths of a validated
// record. It returns the somatic event and true when the lengths differ,
// and nil, false for non-somatic loci.
func Extract(rec *vcf.STRRecord) (*Event, bool) {
	change := EffectiveLength(rec.Tumor) - EffectiveLength(rec.Normal)
	if change == 0 {
		return nil, false
	}

	return &Event{
		Chrom:    rec.Chrom,
		Pos:      rec.Pos,
		Motif:    rec.Motif,
		MotifLen: len(rec.Motif),
		RefLen:   rec.RefLen,
		Change:   change,
	}, true
}
