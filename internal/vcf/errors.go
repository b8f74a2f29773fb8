package vcf

import "fmt"

// MissingFieldError indicates a required STR annotation field is absent
// from a record.
type MissingFieldError struct {
	Field string
	Chrom string
	Pos   int64
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s:%d: missing required field %s", e.Chrom, e.Pos, e.Field)
}

// SampleCountError indicates a record does not carry exactly two sample
// blocks (normal, tumor).
type SampleCountError struct {
	Got   int
	Chrom string
	Pos   int64
}

func (e *SampleCountError) Error() string {
	return fmt.Sprintf("%s:%d: expected 2 samples (normal, tumor), found %d", e.Chrom, e.Pos, e.Got)
}

// MalformedValueError indicates a field value that could not be parsed,
// e.g. a non-integer token in REPCN.
type MalformedValueError struct {
	Field string
	Value string
	Chrom string
	Pos   int64
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("%s:%d: malformed %s value %q", e.Chrom, e.Pos, e.Field, e.Value)
}
