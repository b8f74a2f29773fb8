package vcf

import (
	"strconv"
	"strings"
)

// Sample block positions within an STR record. Paired tumor-normal VCFs
// carry the normal genotype in the first sample column and the tumor
// genotype in the second.
const (
	NormalIndex = 0
	TumorIndex  = 1
)

// STRRecord is the validated STR payload of a paired tumor-normal variant
// record: the repeat unit, the reference repeat count, and the per-allele
// repeat copy numbers for each sample.
type STRRecord struct {
	Chrom  string
	Pos    int64
	Motif  string // INFO RU, repeat unit sequence
	RefLen int    // INFO REF, reference repeat count
	Normal []int  // FORMAT REPCN of the normal sample, one entry per allele
	Tumor  []int  // FORMAT REPCN of the tumor sample, one entry per allele
}

// STRRecord validates the variant's STR annotations and extracts them.
// It rejects structurally invalid records (missing RU/REF/REPCN, wrong
// sample count, non-integer repeat counts) but accepts biologically odd
// ones such as a single-allele REPCN.
func (v *Variant) STRRecord() (*STRRecord, error) {
	motif, ok := v.Info["RU"]
	if !ok || motif == "" {
		return nil, &MissingFieldError{Field: "RU", Chrom: v.Chrom, Pos: v.Pos}
	}

	refStr, ok := v.Info["REF"]
	if !ok || refStr == "" {
		return nil, &MissingFieldError{Field: "REF", Chrom: v.Chrom, Pos: v.Pos}
	}
	refLen, err := strconv.Atoi(refStr)
	if err != nil || refLen < 0 {
		return nil, &MalformedValueError{Field: "REF", Value: refStr, Chrom: v.Chrom, Pos: v.Pos}
	}

	if len(v.Samples) != 2 {
		return nil, &SampleCountError{Got: len(v.Samples), Chrom: v.Chrom, Pos: v.Pos}
	}

	normal, err := v.repcn(NormalIndex)
	if err != nil {
		return nil, err
	}
	tumor, err := v.repcn(TumorIndex)
	if err != nil {
		return nil, err
	}

	return &STRRecord{
		Chrom:  v.Chrom,
		Pos:    v.Pos,
		Motif:  motif,
		RefLen: refLen,
		Normal: normal,
		Tumor:  tumor,
	}, nil
}

// repcn parses the REPCN FORMAT value of the sample at index i into
// per-allele repeat counts.
func (v *Variant) repcn(i int) ([]int, error) {
	raw := v.FormatValue("REPCN", i)
	if raw == "" {
		return nil, &MissingFieldError{Field: "REPCN", Chrom: v.Chrom, Pos: v.Pos}
	}

	parts := strings.Split(raw, ",")
	counts := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, &MalformedValueError{Field: "REPCN", Value: raw, Chrom: v.Chrom, Pos: v.Pos}
		}
		counts = append(counts, n)
	}

	return counts, nil
}
