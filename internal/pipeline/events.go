package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// eventsHeader is the column layout of the event-level CSV export.
var eventsHeader = []string{"sample", "chrom", "pos", "motif", "motif_len", "ref_len", "change"}

// WriteEventsCSV writes one row per somatic event. The change column
// carries an explicit sign, matching the feature-key grammar.
func WriteEventsCSV(w io.Writer, events []SampleEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventsHeader); err != nil {
		return fmt.Errorf("write events header: %w", err)
	}
	for _, se := range events {
		ev := se.Event
		row := []string{
			se.Sample,
			ev.Chrom,
			strconv.FormatInt(ev.Pos, 10),
			ev.Motif,
			strconv.Itoa(ev.MotifLen),
			strconv.Itoa(ev.RefLen),
			fmt.Sprintf("%+d", ev.Change),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write event row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
