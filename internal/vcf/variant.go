// Package vcf provides streaming parsing of STR-annotated VCF files.
package vcf

import (
	"fmt"
	"strings"
)

// Variant represents a single data line from a VCF file.
type Variant struct {
	Chrom   string            // Chromosome name (e.g., "12", "chr12")
	Pos     int64             // 1-based genomic position
	ID      string            // Variant identifier (e.g., rs ID)
	Ref     string            // Reference allele
	Alt     string            // Alternate allele(s), comma separated
	Qual    float64           // Quality score (0 if ".")
	Filter  string            // Filter status (PASS or filter name)
	Info    map[string]string // INFO key-value pairs; flag keys map to ""
	Format  []string          // FORMAT field keys, in column order
	Samples []string          // Raw per-sample blocks, in column order
}

// InfoFlag reports whether a flag-type INFO key is present.
func (v *Variant) InfoFlag(key string) bool {
	_, ok := v.Info[key]
	return ok
}

// FormatValue returns the value of a FORMAT key for the sample at index i,
// or "" if the key or sample is absent.
func (v *Variant) FormatValue(key string, i int) string {
	if i < 0 || i >= len(v.Samples) {
		return ""
	}
	values := strings.Split(v.Samples[i], ":")
	for j, k := range v.Format {
		if k == key {
			if j < len(values) {
				return values[j]
			}
			return ""
		}
	}
	return ""
}

// Locus returns the variant's "chrom_pos" identifier.
func (v *Variant) Locus() string {
	return fmt.Sprintf("%s_%d", v.Chrom, v.Pos)
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}
