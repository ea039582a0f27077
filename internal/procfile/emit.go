package procfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"

	"navterm/internal/model"
)

// EmitFile appends new detail blocks to the Supplemental file at path for every
// record in records (the full, globally-sorted merge stream) whose ICAO
// matches the file, per C6 (spec §4.6). It re-parses the file's current
// procedure/detail fingerprints itself, so callers only need to pass the file
// path and the full record stream.
func EmitFile(path string, records []model.MergedRecord) error {
	icao := icaoStem(filepath.Base(path))

	parsed, err := Parse(path)
	if err != nil {
		return err
	}

	var blocks []string
	var currentTransition, currentVia string
	seqno := 0
	started := false

	for _, row := range records {
		if row.ICAO != icao {
			continue
		}

		transition, via := model.TransitionVia(row)
		procedure := model.ProcedureFingerprint(icao, transition, via)
		name := model.DetailFingerprint(transition, via)

		if !parsed.HasProcedure(procedure) || parsed.Details[name] {
			continue
		}

		if !started || transition != currentTransition || via != currentVia {
			currentTransition, currentVia = transition, via
			seqno = 0
			started = true
		} else {
			seqno++
		}

		blocks = append(blocks, formatBlock(transition, via, seqno, row))
	}

	if len(blocks) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &model.IoError{Op: "open for append", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString("\n" + strings.Join(blocks, "\n") + "\n"); err != nil {
		return &model.IoError{Op: "append", Path: path, Err: err}
	}
	return nil
}

// formatBlock renders a single detail block: a [transition.via.seqno] header
// followed by one key=value line per non-empty extra field, in a fixed,
// deterministic order.
func formatBlock(transition, via string, seqno int, row model.MergedRecord) string {
	extras := orderedmap.New()
	putStr(extras, "leg", row.Leg)
	putStr(extras, "turn_direction", row.TurnDirection)
	putStr(extras, "name", row.Name)
	putFloat(extras, "latitude", row.Latitude)
	putFloat(extras, "longitude", row.Longitude)
	putStr(extras, "frequency", row.Frequency)
	putFloat(extras, "nav_bear", row.NavBear)
	putFloat(extras, "nav_dist", row.NavDist)
	putFloat(extras, "heading", row.Heading)
	putFloat(extras, "dist", row.Dist)
	putStr(extras, "cross_this_point", row.CrossThisPoint)
	putStr(extras, "altitude", row.Altitude)
	if row.Map != 0 {
		extras.Set("map", strconv.Itoa(row.Map))
	}
	putFloat(extras, "slope", row.Slope)
	putStr(extras, "speed", row.Speed)
	putFloat(extras, "center_lat", row.CenterLat)
	putFloat(extras, "center_lon", row.CenterLon)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s.%s.%d]", transition, via, seqno)
	for _, key := range extras.Keys() {
		v, _ := extras.Get(key)
		fmt.Fprintf(&b, "\n%s=%s", key, v)
	}
	return strings.TrimRight(b.String(), " \t")
}

func putStr(m *orderedmap.OrderedMap, key, value string) {
	if value == "" {
		return
	}
	m.Set(key, value)
}

func putFloat(m *orderedmap.OrderedMap, key string, value *float64) {
	if value == nil {
		return
	}
	m.Set(key, strconv.FormatFloat(*value, 'f', -1, 64))
}
