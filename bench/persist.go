package bench

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// PersistTable is the aggregate run-metrics table name written by Persist.
const PersistTable = "route_bench_runs"

// Persist writes a batch of results to a Postgres table, replacing any
// prior contents, mirroring the teacher's own drop-then-create load path.
func Persist(conn string, results []Result) error {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return errors.Wrapf(err, "connecting to: %s", conn)
	}
	defer db.Close()

	if _, err := db.Exec(`DROP TABLE IF EXISTS ` + PersistTable); err != nil {
		return errors.Wrapf(err, "dropping existing data")
	}
	const createStmt = `CREATE TABLE ` + PersistTable + ` (
		id SERIAL PRIMARY KEY,
		strategy VARCHAR,
		nets_routed INT,
		failed_count INT,
		via_count INT,
		wire_length DOUBLE PRECISION,
		latency_ns BIGINT
	)`
	if _, err := db.Exec(createStmt); err != nil {
		return errors.Wrapf(err, "creating table")
	}

	const insertStmt = `INSERT INTO ` + PersistTable + `
		(strategy, nets_routed, failed_count, via_count, wire_length, latency_ns)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, res := range results {
		if _, err := db.Exec(insertStmt,
			string(res.Strategy), res.NetsRouted, res.FailedCount,
			res.ViaCount, res.WireLength, res.Latency.Nanoseconds(),
		); err != nil {
			return errors.Wrapf(err, "inserting run result")
		}
	}
	return nil
}

// Summary is a per-strategy aggregate pulled back out of the persisted
// table, used to report run history without re-running the benchmark.
type Summary struct {
	Strategy       Strategy
	Runs           int
	AvgFailedCount float64
	AvgViaCount    float64
	AvgWireLength  float64
	AvgLatencyNS   float64
}

// Summarize queries aggregate metrics per strategy from the persisted table.
func Summarize(conn string) ([]Summary, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to: %s", conn)
	}
	defer db.Close()

	const q = `SELECT strategy, count(*), avg(failed_count), avg(via_count), avg(wire_length), avg(latency_ns)
		FROM ` + PersistTable + ` GROUP BY strategy`
	rows, err := db.Query(q)
	if err != nil {
		return nil, errors.Wrapf(err, "querying summary")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var strategy string
		if err := rows.Scan(&strategy, &s.Runs, &s.AvgFailedCount, &s.AvgViaCount, &s.AvgWireLength, &s.AvgLatencyNS); err != nil {
			return nil, errors.Wrapf(err, "scanning summary row")
		}
		s.Strategy = Strategy(strategy)
		out = append(out, s)
	}
	return out, rows.Err()
}
