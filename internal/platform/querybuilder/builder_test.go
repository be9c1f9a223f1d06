package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "status").
		From("matches").
		Where(Eq("status", "live"), IsNull("deleted_at")).
		OrderBy("kickoff_at").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, status FROM matches WHERE status = $1 AND deleted_at IS NULL ORDER BY kickoff_at LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "live" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_LteAndSuffix(t *testing.T) {
	query, args, err := Select("id").
		From("recompute_jobs").
		Where(Eq("status", "queued"), Lte("next_run_at", "2026-01-01")).
		OrderBy("next_run_at").
		Limit(5).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM recompute_jobs WHERE status = $1 AND next_run_at <= $2 ORDER BY next_run_at LIMIT 5 FOR UPDATE SKIP LOCKED"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "queued" || args[1] != "2026-01-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("match_events").
		Columns("match_id", "event_type").
		Values("m1", "goal").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO match_events (match_id, event_type) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "m1" || args[1] != "goal" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("status", "half_time").
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "m1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET status = $1, updated_at = NOW() WHERE public_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "half_time" || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		SeasonID string `db:"season_id"`
		TeamID   string `db:"team_id"`
		Points   int    `db:"points"`
		ignored  string `db:"ignored"`
	}

	query, args, err := InsertModel("league_standings", row{SeasonID: "s1", TeamID: "t1", Points: 4}, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO league_standings (season_id, team_id, points) VALUES ($1, $2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "s1" || args[1] != "t1" || args[2] != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
