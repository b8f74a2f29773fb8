package matrix

import (
	"bufio"
	"io"
	"strconv"
)

// WriteTSV serializes the matrix as tab-separated values: a header row of
// an empty cell followed by feature keys in sorted order, then one row per
// sample in sorted order with the sample id and its counts. This layout is
// the contract consumed by the factorization step.
func (m *Matrix) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, key := range m.Features {
		bw.WriteByte('\t')
		bw.WriteString(key)
	}
	bw.WriteByte('\n')

	for i, sample := range m.Samples {
		bw.WriteString(sample)
		for _, n := range m.Counts[i] {
			bw.WriteByte('\t')
			bw.WriteString(strconv.Itoa(n))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}
