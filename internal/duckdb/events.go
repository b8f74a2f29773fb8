package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/strsig/internal/pipeline"
	"github.com/inodb/strsig/internal/somatic"
)

// WriteEvents batch-inserts somatic events using the Appender API.
func (s *Store) WriteEvents(events []pipeline.SampleEvent) error {
	if len(events) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "somatic_events")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, se := range events {
		ev := se.Event
		if err := appender.AppendRow(
			se.Sample, ev.Chrom, ev.Pos, ev.Motif,
			int32(ev.MotifLen), int32(ev.RefLen), int32(ev.Change),
		); err != nil {
			return fmt.Errorf("append somatic event: %w", err)
		}
	}

	return appender.Flush()
}

// ClearEvents removes all stored somatic events.
func (s *Store) ClearEvents() error {
	_, err := s.db.Exec("DELETE FROM somatic_events")
	return err
}

// CountBySample returns the number of stored events per sample.
func (s *Store) CountBySample() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT sample, COUNT(*) FROM somatic_events GROUP BY sample`)
	if err != nil {
		return nil, fmt.Errorf("query event counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var sample string
		var n int64
		if err := rows.Scan(&sample, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		counts[sample] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event counts: %w", err)
	}
	return counts, nil
}

// EventsForSample returns the stored events for one sample, ordered by
// chromosome and position.
func (s *Store) EventsForSample(sample string) ([]pipeline.SampleEvent, error) {
	rows, err := s.db.Query(`SELECT chrom, pos, motif, motif_len, ref_len, len_change
		FROM somatic_events WHERE sample=? ORDER BY chrom, pos`, sample)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []pipeline.SampleEvent
	for rows.Next() {
		var ev somatic.Event
		if err := rows.Scan(&ev.Chrom, &ev.Pos, &ev.Motif, &ev.MotifLen, &ev.RefLen, &ev.Change); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, pipeline.SampleEvent{Sample: sample, Event: &ev})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
