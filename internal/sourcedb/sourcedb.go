// Package sourcedb opens the read-only navigation-data source database and loads
// the relation set a pipeline run needs (C1).
package sourcedb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"navterm/internal/model"
)

// icaoPrefixes are the two-letter prefixes that, together with the exact match
// VQPR in loadAirports' query, bound the airports a run ever touches. VQPR is kept
// as an exact match because it does not share any two-letter prefix with the rest
// of the set.
var icaoPrefixes = []string{"ZB", "ZG", "ZH", "ZJ", "ZL", "ZP", "ZS", "ZU", "ZW", "ZY"}

// DB wraps a read-only connection to the source database.
type DB struct {
	conn *sql.DB
}

// Open opens path as a read-only SQLite-compatible database.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &model.DatabaseError{Op: "open", Err: err}
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, &model.DatabaseError{Op: "ping", Err: err}
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Load queries every relation the merge engine needs for the terminals whose id
// falls in [startID, endID], restricted to the fixed set of airports the pipeline
// serves. It mirrors, table for table, generate_merged_data's steps 1-5 and 8-9.
func (d *DB) Load(ctx context.Context, startID, endID int64) (*model.Relations, error) {
	airports, err := d.loadAirports(ctx)
	if err != nil {
		return nil, err
	}
	if len(airports) == 0 {
		return &model.Relations{}, nil
	}
	airportIDs := make([]int64, len(airports))
	for i, a := range airports {
		airportIDs[i] = a.ID
	}

	runways, err := d.loadRunways(ctx, airportIDs)
	if err != nil {
		return nil, err
	}

	terminals, err := d.loadTerminals(ctx, airportIDs, startID, endID)
	if err != nil {
		return nil, err
	}
	terminalIDs := make([]int64, len(terminals))
	for i, t := range terminals {
		terminalIDs[i] = t.ID
	}

	legs, err := d.loadLegs(ctx, terminalIDs)
	if err != nil {
		return nil, err
	}
	legIDs := make([]int64, len(legs))
	for i, l := range legs {
		legIDs[i] = l.ID
	}

	legsEx, err := d.loadLegsEx(ctx, legIDs)
	if err != nil {
		return nil, err
	}

	waypoints, err := d.loadWaypoints(ctx)
	if err != nil {
		return nil, err
	}

	var navIDs []int64
	for _, l := range legs {
		if l.NavID != nil {
			navIDs = append(navIDs, *l.NavID)
		}
	}
	navaids, err := d.loadNavaids(ctx, navIDs)
	if err != nil {
		return nil, err
	}

	return &model.Relations{
		Airports:  airports,
		Runways:   runways,
		Terminals: terminals,
		Legs:      legs,
		LegsEx:    legsEx,
		Waypoints: waypoints,
		Navaids:   navaids,
	}, nil
}

func (d *DB) loadAirports(ctx context.Context) ([]model.Airport, error) {
	var likes []string
	for _, p := range icaoPrefixes {
		likes = append(likes, "ICAO LIKE '"+p+"%'")
	}
	q := fmt.Sprintf(`SELECT ID, ICAO FROM Airports WHERE ICAO = 'VQPR' OR (%s)`, strings.Join(likes, " OR "))

	rows, err := d.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, &model.DatabaseError{Op: "query airports", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []model.Airport
	for rows.Next() {
		var a model.Airport
		if err := rows.Scan(&a.ID, &a.ICAO); err != nil {
			return nil, &model.DatabaseError{Op: "scan airport", Err: err}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (d *DB) loadRunways(ctx context.Context, airportIDs []int64) ([]model.Runway, error) {
	if len(airportIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT ID, AirportID, Ident, TrueHeading, Latitude, Longtitude, Elevation
		FROM Runways WHERE AirportID IN (%s)`, intList(airportIDs))

	rows, err := d.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, &model.DatabaseError{Op: "query runways", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []model.Runway
	for rows.Next() {
		var r model.Runway
		var heading sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.AirportID, &r.Ident, &heading, &r.Latitude, &r.Longitude, &r.ElevationFt); err != nil {
			return nil, &model.DatabaseError{Op: "scan runway", Err: err}
		}
		if heading.Valid {
			v := heading.Float64
			r.TrueHeading = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) loadTerminals(ctx context.Context, airportIDs []int64, startID, endID int64) ([]model.Terminal, error) {
	if len(airportIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT ID, AirportID, Proc, ICAO, Name, Rwy FROM Terminals
		WHERE ID BETWEEN ? AND ? AND AirportID IN (%s)`, intList(airportIDs))

	rows, err := d.conn.QueryContext(ctx, q, startID, endID)
	if err != nil {
		return nil, &model.DatabaseError{Op: "query terminals", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []model.Terminal
	for rows.Next() {
		var t model.Terminal
		var proc sql.NullString
		var rwy sql.NullString
		if err := rows.Scan(&t.ID, &t.AirportID, &proc, &t.ICAO, &t.Name, &rwy); err != nil {
			return nil, &model.DatabaseError{Op: "scan terminal", Err: err}
		}
		t.Proc = proc.String
		if rwy.Valid {
			v := rwy.String
			t.Rwy = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *DB) loadLegs(ctx context.Context, terminalIDs []int64) ([]model.TerminalLeg, error) {
	if len(terminalIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT ID, TerminalID, Type, Transition, TrackCode, WptID, WptLat, WptLon,
		TurnDir, NavID, NavBear, NavDist, Course, Distance, Alt, Vnav, CenterID
		FROM TerminalLegs WHERE TerminalID IN (%s)`, intList(terminalIDs))

	rows, err := d.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, &model.DatabaseError{Op: "query terminal legs", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []model.TerminalLeg
	for rows.Next() {
		var l model.TerminalLeg
		var typ sql.NullInt64
		var transition, trackCode sql.NullString
		var wptID, navID, centerID sql.NullInt64
		var wptLat, wptLon, navBear, navDist, course, distance, vnav sql.NullFloat64
		var turnDir, alt sql.NullString

		err := rows.Scan(&l.ID, &l.TerminalID, &typ, &transition, &trackCode, &wptID, &wptLat, &wptLon,
			&turnDir, &navID, &navBear, &navDist, &course, &distance, &alt, &vnav, &centerID)
		if err != nil {
			return nil, &model.DatabaseError{Op: "scan terminal leg", Err: err}
		}

		if typ.Valid {
			v := int(typ.Int64)
			l.Type = &v
		}
		l.Transition = transition.String
		l.TrackCode = trackCode.String
		if wptID.Valid {
			v := wptID.Int64
			l.WptID = &v
		}
		if wptLat.Valid {
			v := wptLat.Float64
			l.WptLat = &v
		}
		if wptLon.Valid {
			v := wptLon.Float64
			l.WptLon = &v
		}
		if turnDir.Valid {
			v := turnDir.String
			l.TurnDir = &v
		}
		if navID.Valid {
			v := navID.Int64
			l.NavID = &v
		}
		if navBear.Valid {
			v := navBear.Float64
			l.NavBear = &v
		}
		if navDist.Valid {
			v := navDist.Float64
			l.NavDist = &v
		}
		if course.Valid {
			v := course.Float64
			l.Course = &v
		}
		if distance.Valid {
			v := distance.Float64
			l.Distance = &v
		}
		if alt.Valid {
			v := alt.String
			l.Alt = &v
		}
		if vnav.Valid {
			v := vnav.Float64
			l.Vnav = &v
		}
		if centerID.Valid {
			v := centerID.Int64
			l.CenterID = &v
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (d *DB) loadLegsEx(ctx context.Context, legIDs []int64) ([]model.TerminalLegEx, error) {
	if len(legIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT ID, IsFlyOver, SpeedLimit, SpeedLimitDescription
		FROM TerminalLegsEx WHERE ID IN (%s)`, intList(legIDs))

	rows, err := d.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, &model.DatabaseError{Op: "query terminal legs ex", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []model.TerminalLegEx
	for rows.Next() {
		var ex model.TerminalLegEx
		var isFlyOver sql.NullBool
		var speedLimit sql.NullFloat64
		var desc sql.NullString
		if err := rows.Scan(&ex.ID, &isFlyOver, &speedLimit, &desc); err != nil {
			return nil, &model.DatabaseError{Op: "scan terminal leg ex", Err: err}
		}
		if isFlyOver.Valid {
			v := isFlyOver.Bool
			ex.IsFlyOver = &v
		}
		if speedLimit.Valid {
			v := speedLimit.Float64
			ex.SpeedLimit = &v
		}
		if desc.Valid {
			v := desc.String
			ex.SpeedLimitDescription = &v
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (d *DB) loadWaypoints(ctx context.Context) ([]model.Waypoint, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT ID, Ident, Latitude, Longtitude FROM Waypoints`)
	if err != nil {
		return nil, &model.DatabaseError{Op: "query waypoints", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []model.Waypoint
	for rows.Next() {
		var w model.Waypoint
		if err := rows.Scan(&w.ID, &w.Ident, &w.Latitude, &w.Longitude); err != nil {
			return nil, &model.DatabaseError{Op: "scan waypoint", Err: err}
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (d *DB) loadNavaids(ctx context.Context, navIDs []int64) ([]model.Navaid, error) {
	if len(navIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT ID, Ident, Latitude, Longtitude FROM Navaids WHERE ID IN (%s)`, intList(navIDs))

	rows, err := d.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, &model.DatabaseError{Op: "query navaids", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []model.Navaid
	for rows.Next() {
		var n model.Navaid
		if err := rows.Scan(&n.ID, &n.Ident, &n.Latitude, &n.Longitude); err != nil {
			return nil, &model.DatabaseError{Op: "scan navaid", Err: err}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// intList renders ids as a comma-separated literal list for an IN (...) clause.
// Every id here originates from a prior integer-column scan, never from untrusted
// input, so building the clause this way carries none of the risk parameterized
// placeholders guard against; sqlite also caps bound parameter count far below the
// thousands of terminal ids a wide start/end window can produce.
func intList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
