package matrix

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"
)

// Dense returns the counts as a gonum dense matrix for numeric consumers
// such as the factorization step. The returned matrix is a copy.
func (m *Matrix) Dense() *mat.Dense {
	if len(m.Samples) == 0 || len(m.Features) == 0 {
		return nil
	}
	data := make([]float64, 0, len(m.Samples)*len(m.Features))
	for _, row := range m.Counts {
		for _, n := range row {
			data = append(data, float64(n))
		}
	}
	return mat.NewDense(len(m.Samples), len(m.Features), data)
}

// WriteNpy writes the counts as a float64 numpy array in row-major order,
// shape (samples, features).
func (m *Matrix) WriteNpy(w io.Writer) error {
	bufw := bufio.NewWriter(w)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return fmt.Errorf("create npy writer: %w", err)
	}
	npw.Shape = []int{len(m.Samples), len(m.Features)}

	data := make([]float64, 0, len(m.Samples)*len(m.Features))
	for _, row := range m.Counts {
		for _, n := range row {
			data = append(data, float64(n))
		}
	}
	if err := npw.WriteFloat64(data); err != nil {
		return fmt.Errorf("write npy data: %w", err)
	}
	return bufw.Flush()
}

// WriteNpyFiles writes base+".npy" plus base+".samples.txt" and
// base+".features.txt" sidecar label files, one label per line.
func (m *Matrix) WriteNpyFiles(base string) error {
	f, err := os.Create(base + ".npy")
	if err != nil {
		return fmt.Errorf("create npy file: %w", err)
	}
	if err := m.WriteNpy(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := writeLabels(base+".samples.txt", m.Samples); err != nil {
		return err
	}
	return writeLabels(base+".features.txt", m.Features)
}

func writeLabels(path string, labels []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create label file: %w", err)
	}
	bw := bufio.NewWriter(f)
	for _, label := range labels {
		bw.WriteString(label)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
