package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/leaguehq/league-server/internal/domain/conference"
	"github.com/leaguehq/league-server/internal/domain/division"
	"github.com/leaguehq/league-server/internal/domain/league"
	"github.com/leaguehq/league-server/internal/domain/player"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/team"
)

type seedPlayer struct {
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
}

type seedTeam struct {
	Location     string       `json:"location"`
	Name         string       `json:"name"`
	Abbreviation string       `json:"abbreviation"`
	Stadium      string       `json:"stadium"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	Players      []seedPlayer `json:"players"`
}

type seedDivision struct {
	Name         string     `json:"name"`
	Abbreviation string     `json:"abbreviation"`
	Teams        []seedTeam `json:"teams"`
}

type seedConference struct {
	Name         string         `json:"name"`
	Abbreviation string         `json:"abbreviation"`
	Divisions    []seedDivision `json:"divisions"`
}

type seedLeague struct {
	Name         string           `json:"name"`
	Abbreviation string           `json:"abbreviation"`
	Conferences  []seedConference `json:"conferences"`
}

type seedFile struct {
	Leagues []seedLeague `json:"leagues"`
}

// loadSeed inserts the fixture hierarchy and returns record ids keyed by
// abbreviation (players by name).
func loadSeed(t *testing.T, s *Store) map[string]int64 {
	t.Helper()
	ctx := context.Background()

	raw, err := os.ReadFile(filepath.Join("testdata", "nfl.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	var doc seedFile
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	ids := map[string]int64{}
	for _, sl := range doc.Leagues {
		l := &league.League{Name: sl.Name, Abbreviation: sl.Abbreviation}
		if err := s.Leagues.Add(ctx, l); err != nil {
			t.Fatalf("seed league %s: %v", sl.Abbreviation, err)
		}
		ids[sl.Abbreviation] = l.ID

		for _, sc := range sl.Conferences {
			c := &conference.Conference{LeagueID: l.ID, Name: sc.Name, Abbreviation: sc.Abbreviation}
			if err := s.Conferences.Add(ctx, c); err != nil {
				t.Fatalf("seed conference %s: %v", sc.Abbreviation, err)
			}
			ids[sc.Abbreviation] = c.ID

			for _, sd := range sc.Divisions {
				d := &division.Division{ConferenceID: c.ID, Name: sd.Name, Abbreviation: sd.Abbreviation}
				if err := s.Divisions.Add(ctx, d); err != nil {
					t.Fatalf("seed division %s: %v", sd.Abbreviation, err)
				}
				ids[sd.Abbreviation] = d.ID

				for _, st := range sd.Teams {
					tm := &team.Team{
						DivisionID:   d.ID,
						Location:     st.Location,
						Name:         st.Name,
						Abbreviation: st.Abbreviation,
						Stadium:      st.Stadium,
						City:         st.City,
						State:        st.State,
					}
					if err := s.Teams.Add(ctx, tm); err != nil {
						t.Fatalf("seed team %s: %v", st.Abbreviation, err)
					}
					ids[st.Abbreviation] = tm.ID

					for _, sp := range st.Players {
						teamID := tm.ID
						p := &player.Player{
							TeamID:   &teamID,
							Name:     sp.Name,
							Number:   sp.Number,
							Position: player.Position(sp.Position),
						}
						if err := s.Players.Add(ctx, p); err != nil {
							t.Fatalf("seed player %s: %v", sp.Name, err)
						}
						ids[sp.Name] = p.ID
					}
				}
			}
		}
	}

	return ids
}

func TestStore_HierarchyTraversal(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	ids := loadSeed(t, s)

	divisions, err := s.Divisions.ListByLeague(ctx, ids["NFL"])
	if err != nil {
		t.Fatalf("divisions by league: %v", err)
	}
	if got := divisionNames(divisions); !equalStrings(got, []string{"East", "North"}) {
		t.Fatalf("divisions by league: got %v", got)
	}

	teams, err := s.Teams.ListByLeague(ctx, ids["NFL"])
	if err != nil {
		t.Fatalf("teams by league: %v", err)
	}
	if got := teamNames(teams); !equalStrings(got, []string{"Bills", "Dolphins"}) {
		t.Fatalf("teams by league: got %v", got)
	}

	teams, err = s.Teams.ListByConference(ctx, ids["AFC"])
	if err != nil {
		t.Fatalf("teams by conference: %v", err)
	}
	if got := teamNames(teams); !equalStrings(got, []string{"Bills", "Dolphins"}) {
		t.Fatalf("teams by conference: got %v", got)
	}

	players, err := s.Players.ListByLeague(ctx, ids["NFL"])
	if err != nil {
		t.Fatalf("players by league: %v", err)
	}
	if got := playerNames(players); !equalStrings(got, []string{"J.Doe", "R.Roe"}) {
		t.Fatalf("players by league: got %v", got)
	}

	players, err = s.Players.ListByDivision(ctx, ids["AFCE"])
	if err != nil {
		t.Fatalf("players by division: %v", err)
	}
	if got := playerNames(players); !equalStrings(got, []string{"J.Doe", "R.Roe"}) {
		t.Fatalf("players by division: got %v", got)
	}

	players, err = s.Players.ListByTeam(ctx, ids["BUF"])
	if err != nil {
		t.Fatalf("players by team: %v", err)
	}
	if got := playerNames(players); !equalStrings(got, []string{"J.Doe", "R.Roe"}) {
		t.Fatalf("players by team: got %v", got)
	}

	players, err = s.Players.ListByPosition(ctx, player.PositionQuarterback)
	if err != nil {
		t.Fatalf("players by position: %v", err)
	}
	if got := playerNames(players); !equalStrings(got, []string{"J.Doe"}) {
		t.Fatalf("players by position: got %v", got)
	}
}

func TestStore_TraversalEmptyFanOut(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	ids := loadSeed(t, s)

	divisions, err := s.Divisions.ListByConference(ctx, ids["NFC"])
	if err != nil {
		t.Fatalf("divisions by conference: %v", err)
	}
	if len(divisions) != 0 {
		t.Fatalf("expected no divisions under NFC, got %d", len(divisions))
	}

	teams, err := s.Teams.ListByDivision(ctx, ids["AFCN"])
	if err != nil {
		t.Fatalf("teams by division: %v", err)
	}
	if len(teams) != 0 {
		t.Fatalf("expected no teams in the empty division, got %d", len(teams))
	}

	players, err := s.Players.ListByTeam(ctx, ids["MIA"])
	if err != nil {
		t.Fatalf("players by team: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("expected no players on the empty team, got %d", len(players))
	}

	players, err = s.Players.ListByConference(ctx, ids["NFC"])
	if err != nil {
		t.Fatalf("players by conference: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("expected no players under NFC, got %d", len(players))
	}
}

func TestStore_GetDivisionByTeam(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	ids := loadSeed(t, s)

	d, err := s.Divisions.GetByTeam(ctx, ids["BUF"])
	if err != nil {
		t.Fatalf("division by team: %v", err)
	}
	if d.Name != "East" {
		t.Fatalf("unexpected division: %q", d.Name)
	}

	if _, err := s.Divisions.GetByTeam(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown team: got %v", err)
	}

	if err := s.Teams.DeleteByID(ctx, ids["BUF"]); err != nil {
		t.Fatalf("soft delete team: %v", err)
	}
	if _, err := s.Divisions.GetByTeam(ctx, ids["BUF"]); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("soft-deleted team: got %v", err)
	}
}

func TestStore_SoftDeletedTeamInvisibleInTraversal(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	ids := loadSeed(t, s)

	if err := s.Teams.DeleteByID(ctx, ids["BUF"]); err != nil {
		t.Fatalf("soft delete team: %v", err)
	}

	teams, err := s.Teams.ListByDivision(ctx, ids["AFCE"])
	if err != nil {
		t.Fatalf("teams by division: %v", err)
	}
	if got := teamNames(teams); !equalStrings(got, []string{"Dolphins"}) {
		t.Fatalf("teams by division: got %v", got)
	}

	// Players of the hidden team drop out of ancestor traversals too.
	players, err := s.Players.ListByLeague(ctx, ids["NFL"])
	if err != nil {
		t.Fatalf("players by league: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("expected no players after hiding their team, got %d", len(players))
	}
}

func TestStore_CascadeDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	ids := loadSeed(t, s)

	// A soft-deleted row still goes away when an ancestor is removed.
	if err := s.Players.DeleteByID(ctx, ids["J.Doe"]); err != nil {
		t.Fatalf("soft delete player: %v", err)
	}

	l, ok, err := s.Leagues.GetByID(ctx, ids["NFL"])
	if err != nil || !ok {
		t.Fatalf("get league: ok=%t err=%v", ok, err)
	}
	if err := s.Leagues.Delete(ctx, &l); err != nil {
		t.Fatalf("delete league: %v", err)
	}

	checks := []struct {
		name  string
		count func() (int, error)
	}{
		{"conferences", func() (int, error) { return countAll(ctx, s.Conferences.Collection) }},
		{"divisions", func() (int, error) { return countAll(ctx, s.Divisions.Collection) }},
		{"teams", func() (int, error) { return countAll(ctx, s.Teams.Collection) }},
		{"players", func() (int, error) { return countAll(ctx, s.Players.Collection) }},
	}
	for _, check := range checks {
		n, err := check.count()
		if err != nil {
			t.Fatalf("count %s: %v", check.name, err)
		}
		if n != 0 {
			t.Fatalf("expected %s to be cascaded away, got %d rows", check.name, n)
		}
	}
}

func TestStore_EagerLoadRelations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	ids := loadSeed(t, s)

	leagues, err := s.Leagues.Query(ctx, storage.Query{
		Filters: []storage.Filter{storage.Eq("id", ids["NFL"])},
		Include: []string{"Conferences"},
	})
	if err != nil {
		t.Fatalf("query leagues: %v", err)
	}
	if len(leagues) != 1 {
		t.Fatalf("expected 1 league, got %d", len(leagues))
	}
	if got := len(leagues[0].Conferences); got != 2 {
		t.Fatalf("expected 2 conferences loaded, got %d", got)
	}

	teams, err := s.Teams.Query(ctx, storage.Query{
		Filters: []storage.Filter{storage.Eq("id", ids["BUF"])},
		Include: []string{"Players"},
	})
	if err != nil {
		t.Fatalf("query teams: %v", err)
	}
	if len(teams) != 1 {
		t.Fatalf("expected 1 team, got %d", len(teams))
	}
	if got := playerNames(teams[0].Players); !equalStrings(got, []string{"J.Doe", "R.Roe"}) {
		t.Fatalf("players loaded: got %v", got)
	}

	if _, err := s.Leagues.Query(ctx, storage.Query{Include: []string{"Rosters"}}); !errors.Is(err, storage.ErrInvalidArgument) {
		t.Fatalf("unknown relation: got %v", err)
	}
}

func TestStore_SearchLeaguesByName(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	loadSeed(t, s)

	leagues, err := s.Leagues.SearchByName(ctx, "Football")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(leagues) != 1 {
		t.Fatalf("expected 1 match, got %d", len(leagues))
	}

	leagues, err = s.Leagues.SearchByName(ctx, "Cricket")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(leagues) != 0 {
		t.Fatalf("expected no matches, got %d", len(leagues))
	}
}

func countAll[T any, PT entityPtr[T]](ctx context.Context, c *Collection[T, PT]) (int, error) {
	rows, err := c.Query(ctx, storage.Query{IncludeDeleted: true})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func divisionNames(rows []division.Division) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func teamNames(rows []team.Team) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func playerNames(rows []player.Player) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}
