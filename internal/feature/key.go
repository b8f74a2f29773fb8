// Package feature encodes somatic STR events into canonical feature-key
// strings that identify mutation matrix columns.
package feature

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/strsig/internal/somatic"
)

// MotifMode selects how the repeat unit contributes to a feature key.
type MotifMode int

const (
	// MotifNone omits the motif component.
	MotifNone MotifMode = iota
	// MotifLength encodes the motif as "LEN{len(RU)}".
	MotifLength
	// MotifRU encodes the raw repeat unit sequence.
	MotifRU
)

// String returns the flag-level name of the mode.
func (m MotifMode) String() string {
	switch m {
	case MotifNone:
		return "none"
	case MotifLength:
		return "length"
	case MotifRU:
		return "ru"
	default:
		return fmt.Sprintf("MotifMode(%d)", int(m))
	}
}

// ParseMotifMode parses a motif mode name: none, length, or ru.
func ParseMotifMode(s string) (MotifMode, error) {
	switch s {
	case "none":
		return MotifNone, nil
	case "length":
		return MotifLength, nil
	case "ru":
		return MotifRU, nil
	default:
		return MotifNone, fmt.Errorf("unknown motif mode %q (expected none, length, or ru)", s)
	}
}

// Config controls feature-key encoding. Segments appear in fixed order
// (motif, reference length, change) joined by "_"; disabled segments are
// simply absent.
type Config struct {
	Motif     MotifMode
	RefLength bool // include the reference repeat count
	Change    bool // include the signed tumor-normal change
}

// Encode builds the feature key for a somatic event. ok is false when the
// configuration produces no segments, or requires a change and the event
// has none; such events contribute no matrix column.
func (c Config) Encode(ev *somatic.Event) (key string, ok bool) {
	var parts []string

	switch c.Motif {
	case MotifLength:
		parts = append(parts, "LEN"+strconv.Itoa(ev.MotifLen))
	case MotifRU:
		parts = append(parts, ev.Motif)
	}

	if c.RefLength {
		parts = append(parts, strconv.Itoa(ev.RefLen))
	}

	if c.Change {
		if ev.Change == 0 {
			return "", false
		}
		parts = append(parts, fmt.Sprintf("%+d", ev.Change))
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "_"), true
}

// Components holds the decoded segments of a feature key. Fields for
// disabled segments keep their zero values.
type Components struct {
	Motif    string // repeat unit, MotifRU only
	MotifLen int    // motif length, MotifLength only
	RefLen   int
	Change   int
}

// Decode splits a feature key back into its components under the given
// configuration. The grammar is unambiguous as long as a MotifRU repeat
// unit contains no underscore, which holds for sequence motifs.
func Decode(key string, c Config) (Components, error) {
	var out Components
	parts := strings.Split(key, "_")
	want := 0
	if c.Motif != MotifNone {
		want++
	}
	if c.RefLength {
		want++
	}
	if c.Change {
		want++
	}
	if len(parts) != want {
		return out, fmt.Errorf("key %q: expected %d segments, found %d", key, want, len(parts))
	}

	i := 0
	switch c.Motif {
	case MotifLength:
		n, err := strconv.Atoi(strings.TrimPrefix(parts[i], "LEN"))
		if err != nil || !strings.HasPrefix(parts[i], "LEN") {
			return out, fmt.Errorf("key %q: malformed motif-length segment %q", key, parts[i])
		}
		out.MotifLen = n
		i++
	case MotifRU:
		out.Motif = parts[i]
		i++
	}

	if c.RefLength {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return out, fmt.Errorf("key %q: malformed reference-length segment %q", key, parts[i])
		}
		out.RefLen = n
		i++
	}

	if c.Change {
		if !strings.HasPrefix(parts[i], "+") && !strings.HasPrefix(parts[i], "-") {
			return out, fmt.Errorf("key %q: change segment %q lacks explicit sign", key, parts[i])
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil || n == 0 {
			return out, fmt.Errorf("key %q: malformed change segment %q", key, parts[i])
		}
		out.Change = n
	}

	return out, nil
}

// Presets are the named matrix-building modes exposed by the CLI.
var Presets = map[string]Config{
	"ru":          {Motif: MotifRU, RefLength: true, Change: true},
	"len":         {Motif: MotifLength, RefLength: true, Change: true},
	"change_only": {Motif: MotifNone, RefLength: false, Change: true},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
