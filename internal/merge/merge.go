// Package merge implements the merge engine (C2): the ordered, stateful
// transformation of TerminalLeg rows into enriched MergedRecord rows.
package merge

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	geo "github.com/kellydunn/golang-geo"

	"navterm/internal/model"
	"navterm/internal/navlog"
)

var rwTransitionRE = regexp.MustCompile(`^RW(.+)$`)

// nameReplacements is the fixed lookup table from stage 8.
var nameReplacements = map[string]string{
	"ZJ400": "RW15",
	"HJ600": "RW06",
	"QT800": "RW27",
	"RQ610": "RW04",
	"SC600": "RW33",
	"TK800": "RW33",
}

const metersToFeet = 3.280839895

// Merge runs all twelve stages over rel and returns the sorted, enriched record
// stream. Stages mutate an owned slice in place; none of them look beyond what
// the spec allows (stage 7 and stage 10 read earlier/sibling records, never
// records produced after them in the same stage).
func Merge(rel *model.Relations, log *navlog.Logger) []model.MergedRecord {
	airportsByID := make(map[int64]model.Airport, len(rel.Airports))
	for _, a := range rel.Airports {
		airportsByID[a.ID] = a
	}
	terminalsByID := make(map[int64]model.Terminal, len(rel.Terminals))
	for _, t := range rel.Terminals {
		terminalsByID[t.ID] = t
	}
	waypointsByID := make(map[int64]model.Waypoint, len(rel.Waypoints))
	for _, w := range rel.Waypoints {
		waypointsByID[w.ID] = w
	}
	navaidsByID := make(map[int64]model.Navaid, len(rel.Navaids))
	for _, n := range rel.Navaids {
		navaidsByID[n.ID] = n
	}

	rows := project(rel.Legs, rel.LegsEx)
	denormalize(rows, terminalsByID, airportsByID)
	attachWaypoints(rows, waypointsByID)
	attachNavaids(rows, navaidsByID)
	attachCenters(rows, waypointsByID)
	normalizeCrossPoint(rows)
	reconstructMapAltitude(rows, rel.Terminals, rel.Runways, rel.Waypoints, log)
	applyNameReplacements(rows)
	deriveTransitionRunway(rows)
	rows = expandAllTransitions(rows)
	fillIFLegNames(rows)
	sortRows(rows)

	return rows
}

// project is stage 1: one merged record per leg, carrying leg fields plus the
// speed and cross_this_point derivations.
func project(legs []model.TerminalLeg, legsEx []model.TerminalLegEx) []model.MergedRecord {
	exByID := make(map[int64]model.TerminalLegEx, len(legsEx))
	for _, ex := range legsEx {
		exByID[ex.ID] = ex
	}

	rows := make([]model.MergedRecord, 0, len(legs))
	for _, leg := range legs {
		r := model.MergedRecord{
			TerminalID:    leg.TerminalID,
			Type:          leg.Type,
			Transition:    leg.Transition,
			Leg:           leg.TrackCode,
			Latitude:      leg.WptLat,
			Longitude:     leg.WptLon,
			NavBear:       leg.NavBear,
			NavDist:       leg.NavDist,
			Heading:       leg.Course,
			Dist:          leg.Distance,
			Slope:         leg.Vnav,
			WptID:         leg.WptID,
			NavID:         leg.NavID,
			CenterID:      leg.CenterID,
		}
		if leg.TurnDir != nil {
			r.TurnDirection = *leg.TurnDir
		}
		if leg.Alt != nil {
			r.Altitude = *leg.Alt
		}

		if ex, ok := exByID[leg.ID]; ok {
			var speedLimit, desc string
			if ex.SpeedLimit != nil {
				speedLimit = strconv.Itoa(int(*ex.SpeedLimit))
			}
			if ex.SpeedLimitDescription != nil {
				desc = *ex.SpeedLimitDescription
			}
			r.Speed = speedLimit + desc

			if ex.IsFlyOver != nil {
				if *ex.IsFlyOver {
					r.CrossThisPoint = "1"
				} else {
					r.CrossThisPoint = "0"
				}
			}
		}

		rows = append(rows, r)
	}
	return rows
}

// denormalize is stage 2: copy terminal name/rwy and the owning airport's ICAO.
func denormalize(rows []model.MergedRecord, terminalsByID map[int64]model.Terminal, airportsByID map[int64]model.Airport) {
	for i := range rows {
		term, ok := terminalsByID[rows[i].TerminalID]
		if !ok {
			continue
		}
		rows[i].Terminal = term.Name
		if term.Rwy != nil {
			rows[i].Rwy = *term.Rwy
		}
		rows[i].ICAO = term.ICAO
		if airport, ok := airportsByID[term.AirportID]; ok {
			rows[i].ICAO = airport.ICAO
		}
	}
}

// attachWaypoints is stage 3.
func attachWaypoints(rows []model.MergedRecord, waypointsByID map[int64]model.Waypoint) {
	for i := range rows {
		if rows[i].WptID == nil {
			continue
		}
		wp, ok := waypointsByID[*rows[i].WptID]
		if !ok {
			continue
		}
		rows[i].Name = wp.Ident
		lat, lon := wp.Latitude, wp.Longitude
		rows[i].Latitude = &lat
		rows[i].Longitude = &lon
	}
}

// attachNavaids is stage 4.
func attachNavaids(rows []model.MergedRecord, navaidsByID map[int64]model.Navaid) {
	for i := range rows {
		if rows[i].NavID == nil {
			continue
		}
		nav, ok := navaidsByID[*rows[i].NavID]
		if !ok {
			continue
		}
		rows[i].Frequency = nav.Ident
	}
}

// attachCenters is stage 5: the center id resolves against the waypoint table,
// not a separate relation.
func attachCenters(rows []model.MergedRecord, waypointsByID map[int64]model.Waypoint) {
	for i := range rows {
		if rows[i].CenterID == nil {
			continue
		}
		wp, ok := waypointsByID[*rows[i].CenterID]
		if !ok {
			continue
		}
		lat, lon := wp.Latitude, wp.Longitude
		rows[i].CenterLat = &lat
		rows[i].CenterLon = &lon
	}
}

// normalizeCrossPoint is stage 6.
func normalizeCrossPoint(rows []model.MergedRecord) {
	for i := range rows {
		if rows[i].CrossThisPoint == "0" {
			rows[i].CrossThisPoint = ""
		}
	}
}

// reconstructMapAltitude is stage 7. It mutates rows in place and depends on
// already-processed earlier records (the backward altitude search), so it must
// run in a single pass over the slice in index order.
func reconstructMapAltitude(rows []model.MergedRecord, terminals []model.Terminal, runways []model.Runway, waypoints []model.Waypoint, log *navlog.Logger) {
	airportIDByICAO := make(map[string]int64, len(terminals))
	for _, t := range terminals {
		airportIDByICAO[t.ICAO] = t.AirportID
	}

	findRunway := func(icao, rwy2 string) (model.Runway, bool) {
		airportID, ok := airportIDByICAO[icao]
		if !ok {
			return model.Runway{}, false
		}
		for _, r := range runways {
			if r.AirportID == airportID && r.Ident == rwy2 {
				return r, true
			}
		}
		return model.Runway{}, false
	}

	findWaypointAt := func(lat, lon float64) (model.Waypoint, bool) {
		for _, w := range waypoints {
			if math.Abs(w.Latitude-lat) < 1e-6 && math.Abs(w.Longitude-lon) < 1e-6 {
				return w, true
			}
		}
		return model.Waypoint{}, false
	}

	for i := range rows {
		if rows[i].Altitude != "MAP" {
			continue
		}
		rows[i].Map = 1

		rwy2 := model.ZeroPad(rows[i].Rwy, 2)
		runway, hasRunway := findRunway(rows[i].ICAO, rwy2)

		if rows[i].Latitude != nil && rows[i].Longitude != nil {
			if wp, ok := findWaypointAt(*rows[i].Latitude, *rows[i].Longitude); ok {
				rows[i].Name = wp.Ident
			} else if hasRunway {
				setRunwayFix(&rows[i], runway)
			}
		} else if hasRunway {
			setRunwayFix(&rows[i], runway)
		}

		if rows[i].Slope == nil || !hasRunway {
			continue
		}

		n := 1
		for i-n >= 0 && rows[i-n].Altitude == "" && n <= i {
			n++
		}
		if i-n < 0 {
			continue
		}
		prevAltStr := rows[i-n].Altitude
		if prevAltStr == "" {
			continue
		}
		prevAlt, err := strconv.ParseFloat(prevAltStr, 64)
		if err != nil {
			log.SkipParse("map altitude reconstruction", &model.ParseError{Stage: "map altitude reconstruction", Err: err})
			continue
		}
		if rows[i-n].Latitude == nil || rows[i-n].Longitude == nil || rows[i].Latitude == nil || rows[i].Longitude == nil {
			continue
		}

		prevPoint := geo.NewPoint(*rows[i-n].Latitude, *rows[i-n].Longitude)
		curPoint := geo.NewPoint(*rows[i].Latitude, *rows[i].Longitude)
		distanceFt := prevPoint.GreatCircleDistance(curPoint) * 1000 * metersToFeet

		altitudeCalc := prevAlt - distanceFt*math.Tan(*rows[i].Slope*math.Pi/180)
		lowerBound := runway.ElevationFt + 50
		if lowerBound <= altitudeCalc && altitudeCalc < 16000 {
			rows[i].Altitude = strconv.Itoa(int(math.Round(altitudeCalc)))
		} else {
			rows[i].Altitude = strconv.Itoa(int(math.Round(runway.ElevationFt)) + 50)
		}
	}
}

// setRunwayFix moves a record onto a runway's coordinates and names it
// "RW" + the terminal name's 2nd-4th characters with any '-' removed.
func setRunwayFix(r *model.MergedRecord, runway model.Runway) {
	lat, lon := runway.Latitude, runway.Longitude
	r.Latitude = &lat
	r.Longitude = &lon

	term := []rune(r.Terminal)
	if len(term) > 1 {
		term = term[1:]
	} else {
		term = nil
	}
	if len(term) > 3 {
		term = term[:3]
	}
	var b strings.Builder
	for _, c := range term {
		if c != '-' {
			b.WriteRune(c)
		}
	}
	r.Name = "RW" + b.String()
}

// applyNameReplacements is stage 8.
func applyNameReplacements(rows []model.MergedRecord) {
	for i := range rows {
		if repl, ok := nameReplacements[rows[i].Name]; ok {
			rows[i].Name = repl
		}
	}
}

// deriveTransitionRunway is stage 9.
func deriveTransitionRunway(rows []model.MergedRecord) {
	for i := range rows {
		if rows[i].Rwy != "" {
			continue
		}
		m := rwTransitionRE.FindStringSubmatch(rows[i].Transition)
		if m == nil {
			continue
		}
		rows[i].Rwy = m[1]
		typ := 5
		rows[i].Type = &typ
	}
}

// expandAllTransitions is stage 10: a record with an "ALL" transition and no
// runway is replaced by one clone per sibling RW-transition record found in the
// same (icao, terminal) group. Siblings are located by index, never by pointer
// identity, per the spec's design note.
func expandAllTransitions(rows []model.MergedRecord) []model.MergedRecord {
	var out []model.MergedRecord
	var newRows []model.MergedRecord

	for i := range rows {
		if rows[i].Transition != "ALL" || rows[i].Rwy != "" {
			out = append(out, rows[i])
			continue
		}

		var rwyValues []string
		for j := range rows {
			if j == i {
				continue
			}
			if rows[j].ICAO != rows[i].ICAO || rows[j].Terminal != rows[i].Terminal {
				continue
			}
			m := rwTransitionRE.FindStringSubmatch(rows[j].Transition)
			if m != nil {
				rwyValues = append(rwyValues, m[1])
			}
		}

		if len(rwyValues) == 0 {
			out = append(out, rows[i])
			continue
		}
		for _, rwy := range rwyValues {
			clone := rows[i]
			clone.Rwy = rwy
			typ := 5
			clone.Type = &typ
			newRows = append(newRows, clone)
		}
	}

	return append(out, newRows...)
}

// fillIFLegNames is stage 11.
func fillIFLegNames(rows []model.MergedRecord) {
	type groupKey struct{ icao, terminal, rwy string }
	groups := make(map[groupKey][]int)
	for i := range rows {
		if rows[i].Rwy == "" {
			continue
		}
		k := groupKey{rows[i].ICAO, rows[i].Terminal, rows[i].Rwy}
		groups[k] = append(groups[k], i)
	}

	for _, idxs := range groups {
		for _, i := range idxs {
			if rows[i].Leg != "IF" || rows[i].Name != "" {
				continue
			}
			if num, err := strconv.Atoi(rows[i].Rwy); err == nil {
				rows[i].Name = fmt.Sprintf("RW%02d", num)
			} else {
				rows[i].Name = "RW" + rows[i].Rwy
			}
		}
	}
}

// sortRows is stage 12. Empty strings sort before any non-empty value, which
// gives the "missing before present" ordering the spec requires for free.
func sortRows(rows []model.MergedRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ICAO != rows[j].ICAO {
			return rows[i].ICAO < rows[j].ICAO
		}
		if rows[i].Terminal != rows[j].Terminal {
			return rows[i].Terminal < rows[j].Terminal
		}
		return rows[i].Rwy < rows[j].Rwy
	})
}
