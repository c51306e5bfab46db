package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	session_date TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	label TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	buckets INTEGER NOT NULL,
	populated INTEGER NOT NULL,
	overlays TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_date ON runs(session_date);

CREATE TABLE IF NOT EXISTS candles (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	idx INTEGER NOT NULL,
	time DATETIME NOT NULL,
	open REAL,
	high REAL,
	low REAL,
	close REAL,
	ce_max_oi_strike REAL,
	ce_max_oi INTEGER,
	pe_max_oi_strike REAL,
	pe_max_oi INTEGER,
	PRIMARY KEY (run_id, idx)
);

CREATE TABLE IF NOT EXISTS overlay_values (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	idx INTEGER NOT NULL,
	pos INTEGER NOT NULL,
	name TEXT NOT NULL,
	value REAL,
	PRIMARY KEY (run_id, idx, pos)
);
`
