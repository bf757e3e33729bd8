package querybuilder

import "testing"

func TestSelectBuilder_FullPipeline(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("division_id", int64(3)), IsNull("deleted_at")).
		OrderBy("name", "id").
		Offset(10).
		Limit(5).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT id, name FROM teams WHERE division_id = $1 AND deleted_at IS NULL ORDER BY name, id OFFSET 10 LIMIT 5 FOR UPDATE"
	if query != want {
		t.Fatalf("unexpected sql:\n got: %s\nwant: %s", query, want)
	}
	if len(args) != 1 || args[0] != int64(3) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilder_Joins(t *testing.T) {
	query, args, err := Select("p.*").
		From("players p").
		Join("JOIN teams t ON t.id = p.team_id", "JOIN divisions d ON d.id = t.division_id").
		Where(Eq("d.conference_id", int64(7))).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT p.* FROM players p JOIN teams t ON t.id = p.team_id JOIN divisions d ON d.id = t.division_id WHERE d.conference_id = $1 ORDER BY p.id"
	if query != want {
		t.Fatalf("unexpected sql:\n got: %s\nwant: %s", query, want)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilder_Contains(t *testing.T) {
	query, args, err := Select("*").
		From("leagues").
		Where(Contains("name", "National")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT * FROM leagues WHERE POSITION($1 IN name) > 0"
	if query != want {
		t.Fatalf("unexpected sql: %s", query)
	}
	if len(args) != 1 || args[0] != "National" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("*").From("teams").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}
	if query != "SELECT * FROM teams WHERE 1=0" {
		t.Fatalf("unexpected sql: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("*").ToSQL(); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestInsertBuilder_ReturningSuffix(t *testing.T) {
	query, args, err := InsertInto("leagues").
		Columns("public_id", "name", "abbreviation").
		Values("ref-1", "National Football League", "NFL").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	want := "INSERT INTO leagues (public_id, name, abbreviation) VALUES ($1, $2, $3) RETURNING id"
	if query != want {
		t.Fatalf("unexpected sql: %s", query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("leagues").Columns("name", "abbreviation").Values("only-one").ToSQL()
	if err == nil {
		t.Fatalf("expected error for mismatched row width")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("teams").
		Set("name", "Bills").
		Set("win", 11).
		Where(Eq("id", int64(4))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE teams SET name = $1, win = $2 WHERE id = $3"
	if query != want {
		t.Fatalf("unexpected sql: %s", query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("teams").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditioned delete")
	}

	query, args, err := DeleteFrom("teams").Where(Eq("id", int64(9))).ToSQL()
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	if query != "DELETE FROM teams WHERE id = $1" {
		t.Fatalf("unexpected sql: %s", query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %v", args)
	}
}
