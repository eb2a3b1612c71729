package voting

import (
	"testing"

	"apiexplorer/internal/models"
)

func entry(up, down int, status models.EntryStatus, active bool) models.Entry {
	return models.Entry{
		ID:          42,
		Name:        "PokeAPI",
		Link:        "https://pokeapi.co/",
		Description: "Pokémon data accessible via a free API.",
		VotesUp:     up,
		VotesDown:   down,
		Status:      status,
		Active:      active,
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"up", Up, false},
		{"down", Down, false},
		{"UP", Up, false},
		{" Down ", Down, false},
		{"", 0, true},
		{"sideways", 0, true},
		{"retract", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		in         models.Entry
		dir        Direction
		wantUp     int
		wantDown   int
		wantStatus models.EntryStatus
		wantActive bool
	}{
		{
			name:   "first up vote stays new",
			in:     entry(0, 0, models.StatusNew, true),
			dir:    Up,
			wantUp: 1, wantDown: 0, wantStatus: models.StatusNew, wantActive: true,
		},
		{
			name:   "second vote stays new",
			in:     entry(1, 0, models.StatusNew, true),
			dir:    Down,
			wantUp: 1, wantDown: 1, wantStatus: models.StatusNew, wantActive: true,
		},
		{
			name:   "low signal guard demotes a rated entry",
			in:     entry(1, 0, models.StatusRecommended, true),
			dir:    Up,
			wantUp: 2, wantDown: 0, wantStatus: models.StatusNew, wantActive: true,
		},
		{
			name:   "low signal guard demotes a not recommended entry",
			in:     entry(0, 1, models.StatusNotRecommended, true),
			dir:    Down,
			wantUp: 0, wantDown: 2, wantStatus: models.StatusNew, wantActive: true,
		},
		{
			name:   "third vote without thresholds keeps status",
			in:     entry(2, 0, models.StatusNew, true),
			dir:    Up,
			wantUp: 3, wantDown: 0, wantStatus: models.StatusNew, wantActive: true,
		},
		{
			name:   "fifth up vote recommends",
			in:     entry(4, 0, models.StatusNew, true),
			dir:    Up,
			wantUp: 5, wantDown: 0, wantStatus: models.StatusRecommended, wantActive: true,
		},
		{
			name:   "fifth up vote reactivates hidden entry",
			in:     entry(4, 5, models.StatusNotRecommended, false),
			dir:    Up,
			wantUp: 5, wantDown: 5, wantStatus: models.StatusRecommended, wantActive: true,
		},
		{
			name:   "up vote below threshold does not reactivate",
			in:     entry(1, 5, models.StatusNotRecommended, false),
			dir:    Up,
			wantUp: 2, wantDown: 5, wantStatus: models.StatusNotRecommended, wantActive: false,
		},
		{
			name:   "third down vote demotes",
			in:     entry(0, 2, models.StatusNew, true),
			dir:    Down,
			wantUp: 0, wantDown: 3, wantStatus: models.StatusNotRecommended, wantActive: true,
		},
		{
			name:   "fifth down vote hides",
			in:     entry(0, 4, models.StatusNotRecommended, true),
			dir:    Down,
			wantUp: 0, wantDown: 5, wantStatus: models.StatusNotRecommended, wantActive: false,
		},
		{
			name:   "fifth down vote hides a recommended entry",
			in:     entry(6, 4, models.StatusRecommended, true),
			dir:    Down,
			wantUp: 6, wantDown: 5, wantStatus: models.StatusRecommended, wantActive: false,
		},
		{
			name:   "up threshold wins over down threshold",
			in:     entry(4, 3, models.StatusNotRecommended, true),
			dir:    Up,
			wantUp: 5, wantDown: 3, wantStatus: models.StatusRecommended, wantActive: true,
		},
		{
			name:   "down vote keeps recommended while up votes hold",
			in:     entry(5, 1, models.StatusRecommended, true),
			dir:    Down,
			wantUp: 5, wantDown: 2, wantStatus: models.StatusRecommended, wantActive: true,
		},
		{
			name:   "down vote on hidden entry stays hidden",
			in:     entry(0, 7, models.StatusNotRecommended, false),
			dir:    Down,
			wantUp: 0, wantDown: 8, wantStatus: models.StatusNotRecommended, wantActive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.in, tt.dir)

			if got.VotesUp != tt.wantUp || got.VotesDown != tt.wantDown {
				t.Errorf("Apply() votes = (%d, %d), want (%d, %d)", got.VotesUp, got.VotesDown, tt.wantUp, tt.wantDown)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Apply() status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Active != tt.wantActive {
				t.Errorf("Apply() active = %v, want %v", got.Active, tt.wantActive)
			}
			if got.ID != tt.in.ID || got.Name != tt.in.Name || got.Link != tt.in.Link || got.Description != tt.in.Description {
				t.Errorf("Apply() changed identity fields: got %+v", got)
			}
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := entry(4, 0, models.StatusNew, false)
	_ = Apply(in, Up)

	if in.VotesUp != 4 || in.Status != models.StatusNew || in.Active {
		t.Errorf("Apply() modified its input: %+v", in)
	}
}

func TestApply_LowSignalGuard(t *testing.T) {
	statuses := []models.EntryStatus{models.StatusNew, models.StatusRecommended, models.StatusNotRecommended}
	starts := [][2]int{{0, 0}, {1, 0}, {0, 1}}

	for _, st := range statuses {
		for _, s := range starts {
			for _, dir := range []Direction{Up, Down} {
				for _, active := range []bool{true, false} {
					got := Apply(entry(s[0], s[1], st, active), dir)
					if got.Status != models.StatusNew {
						t.Errorf("Apply(%v from up=%d down=%d status=%q) status = %q, want New",
							dir, s[0], s[1], st, got.Status)
					}
				}
			}
		}
	}
}

func TestApply_UpVoteAtFourRecommendsRegardlessOfActive(t *testing.T) {
	for _, down := range []int{0, 1, 2, 3, 4, 7} {
		for _, active := range []bool{true, false} {
			got := Apply(entry(4, down, models.StatusNotRecommended, active), Up)
			if got.VotesUp != 5 || got.Status != models.StatusRecommended || !got.Active {
				t.Errorf("Apply(up from up=4 down=%d active=%v) = %+v, want votesUp=5 Recommended active",
					down, active, got)
			}
		}
	}
}

func TestApply_DownVoteAtFourHides(t *testing.T) {
	for _, up := range []int{0, 2, 4, 5, 9} {
		for _, active := range []bool{true, false} {
			got := Apply(entry(up, 4, models.StatusNew, active), Down)
			if got.VotesDown != 5 {
				t.Errorf("Apply() votesDown = %d, want 5", got.VotesDown)
			}
			if got.Active {
				t.Errorf("Apply(down from up=%d down=4 active=%v) active = true, want false", up, active)
			}

			wantStatus := models.StatusNotRecommended
			if up >= RecommendUpVotes {
				wantStatus = models.StatusRecommended
			}
			if got.Status != wantStatus {
				t.Errorf("Apply(down from up=%d down=4) status = %q, want %q", up, got.Status, wantStatus)
			}
		}
	}
}

func TestApply_FiveDownVotesScenario(t *testing.T) {
	e := models.NewEntry("X", "http://x", "d")

	wantStatus := []models.EntryStatus{
		models.StatusNew,
		models.StatusNew,
		models.StatusNotRecommended,
		models.StatusNotRecommended,
		models.StatusNotRecommended,
	}
	wantActive := []bool{true, true, true, true, false}

	for i := range 5 {
		e = Apply(e, Down)
		if e.Status != wantStatus[i] || e.Active != wantActive[i] {
			t.Fatalf("after down vote %d: status=%q active=%v, want status=%q active=%v",
				i+1, e.Status, e.Active, wantStatus[i], wantActive[i])
		}
	}

	if e.VotesDown != 5 || e.VotesUp != 0 {
		t.Errorf("final votes = (%d, %d), want (0, 5)", e.VotesUp, e.VotesDown)
	}
}

// TestApply_Monotonicity replays every vote sequence up to length 10 and checks
// that counters never decrease and that once the total is past the low-signal
// guard an up vote never takes away Recommended.
func TestApply_Monotonicity(t *testing.T) {
	const maxLen = 10

	var walk func(e models.Entry, depth int)
	walk = func(e models.Entry, depth int) {
		if depth == maxLen {
			return
		}
		for _, dir := range []Direction{Up, Down} {
			next := Apply(e, dir)

			if next.VotesUp < e.VotesUp || next.VotesDown < e.VotesDown {
				t.Fatalf("counters decreased: %+v -> %+v", e, next)
			}
			if next.TotalVotes() != e.TotalVotes()+1 {
				t.Fatalf("total changed by %d, want 1", next.TotalVotes()-e.TotalVotes())
			}
			if dir == Up && e.IsRecommended() && e.TotalVotes() > LowSignalTotal && !next.IsRecommended() {
				t.Fatalf("up vote removed Recommended: %+v -> %+v", e, next)
			}
			if dir == Up && !e.Active && next.Active && !next.IsRecommended() {
				t.Fatalf("up vote reactivated without Recommended: %+v -> %+v", e, next)
			}
			walk(next, depth+1)
		}
	}

	walk(models.NewEntry("X", "http://x", "d"), 0)
}
