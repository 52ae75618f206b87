package arena

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rpg-arena/internal/domain/character"
	"rpg-arena/internal/domain/combat"
)

type memArchive struct {
	mu      sync.Mutex
	reports []StoredReport
	failure error
}

func (m *memArchive) Save(_ context.Context, r StoredReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return m.failure
	}
	m.reports = append(m.reports, r)
	return nil
}

func (m *memArchive) Get(_ context.Context, id uuid.UUID) (StoredReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return StoredReport{}, ErrNotFound
}

func (m *memArchive) Recent(_ context.Context, trainerID uuid.UUID, limit int) ([]StoredReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredReport, 0)
	for i := len(m.reports) - 1; i >= 0 && len(out) < limit; i-- {
		if m.reports[i].TrainerID == trainerID {
			out = append(out, m.reports[i])
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) count(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

func newTestService() (*Service, *memArchive, *recordingPublisher) {
	archive := &memArchive{}
	pub := &recordingPublisher{}
	return NewService(zerolog.Nop(), archive, NewLeaderboard(nil, "test"), pub, "arena.battle"), archive, pub
}

func TestRunDuelPlayerVsEnemy(t *testing.T) {
	svc, archive, pub := newTestService()
	trainer := uuid.New()
	var seen []combat.Event
	obs := combat.ObserverFunc(func(e combat.Event) { seen = append(seen, e) })

	out, err := svc.RunDuel(context.Background(), trainer, DuelRequest{
		Mode:     ModePlayerVsEnemy,
		Fighter1: FighterSpec{Kind: "player_warrior", Name: "Aragorn"},
		Fighter2: FighterSpec{Kind: "goblin_warrior", Name: "Azog"},
	}, obs)
	if err != nil {
		t.Fatalf("RunDuel err: %v", err)
	}
	if out.Result != combat.Winner1 || out.Rounds != 2 || out.Winner != "Aragorn" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.ExperienceGained != 75 || out.Fighters[0].Experience != 75 || out.Fighters[0].Health != 82 {
		t.Fatalf("unexpected rewards %+v", out)
	}
	if len(seen) != 3 || len(out.Events) != 3 {
		t.Fatalf("observer saw %d events, outcome has %d", len(seen), len(out.Events))
	}
	if got := pub.count("arena.battle.round"); got != 3 {
		t.Fatalf("round messages = %d, want 3", got)
	}
	if got := pub.count("arena.battle.result"); got != 1 {
		t.Fatalf("result messages = %d, want 1", got)
	}

	stored, err := svc.Report(context.Background(), out.ID)
	if err != nil {
		t.Fatalf("Report err: %v", err)
	}
	if stored.TrainerID != trainer || stored.Mode != ModePlayerVsEnemy || stored.Winner != "Aragorn" || stored.Rounds != 2 {
		t.Fatalf("unexpected stored report %+v", stored)
	}
	var body DuelOutcome
	if err := json.Unmarshal(stored.Body, &body); err != nil {
		t.Fatalf("stored body is not a duel outcome: %v", err)
	}
	if body.ID != out.ID || body.Result != combat.Winner1 {
		t.Fatalf("stored body mismatch %+v", body)
	}
	if len(archive.reports) != 1 {
		t.Fatalf("archived %d reports, want 1", len(archive.reports))
	}
}

func TestRunDuelValidation(t *testing.T) {
	svc, archive, _ := newTestService()
	ctx := context.Background()
	warrior := FighterSpec{Kind: "player_warrior", Name: "Aragorn"}
	goblin := FighterSpec{Kind: "goblin_warrior", Name: "Azog"}

	tests := []struct {
		name string
		req  DuelRequest
		want error
	}{
		{"unknown mode", DuelRequest{Mode: "brawl", Fighter1: warrior, Fighter2: goblin}, ErrInvalidMode},
		{"unknown kind", DuelRequest{Mode: ModeFree, Fighter1: FighterSpec{Kind: "orc", Name: "X"}, Fighter2: goblin}, character.ErrUnknownKind},
		{"blank name", DuelRequest{Mode: ModeFree, Fighter1: FighterSpec{Kind: "villager", Name: "  "}, Fighter2: goblin}, ErrInvalidFighter},
		{"enemy experience", DuelRequest{Mode: ModeFree, Fighter1: warrior, Fighter2: FighterSpec{Kind: "goblin_mage", Name: "G", Experience: 10}}, ErrInvalidFighter},
		{"npc as player", DuelRequest{Mode: ModePlayerVsEnemy, Fighter1: FighterSpec{Kind: "merchant", Name: "M"}, Fighter2: goblin}, combat.ErrInvalidMatchup},
		{"player in monster fight", DuelRequest{Mode: ModeEnemyVsEnemy, Fighter1: warrior, Fighter2: goblin}, combat.ErrInvalidMatchup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RunDuel(ctx, uuid.New(), tt.req, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if len(archive.reports) != 0 {
		t.Fatalf("rejected duels must not be archived, got %d", len(archive.reports))
	}
}

func TestRunDuelFreeDraw(t *testing.T) {
	svc, archive, _ := newTestService()
	out, err := svc.RunDuel(context.Background(), uuid.New(), DuelRequest{
		Mode:     ModeFree,
		Fighter1: FighterSpec{Kind: "villager", Name: "Tom"},
		Fighter2: FighterSpec{Kind: "villager", Name: "Ann"},
	}, nil)
	if err != nil {
		t.Fatalf("RunDuel err: %v", err)
	}
	if out.Result != combat.Draw || out.Rounds != combat.MaxRounds || out.Winner != "" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if archive.reports[0].Winner != "" || archive.reports[0].Result != "draw" {
		t.Fatalf("unexpected stored draw %+v", archive.reports[0])
	}
}

func TestRunDuelArchiveFailure(t *testing.T) {
	svc, archive, pub := newTestService()
	archive.failure = errors.New("db down")
	_, err := svc.RunDuel(context.Background(), uuid.New(), DuelRequest{
		Mode:     ModeFree,
		Fighter1: FighterSpec{Kind: "player_mage", Name: "Gandalf"},
		Fighter2: FighterSpec{Kind: "goblin_mage", Name: "Grub"},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "archive report") {
		t.Fatalf("expected archive error, got %v", err)
	}
	if pub.count("arena.battle.result") != 0 {
		t.Fatal("result must not be announced when archiving fails")
	}
}

func TestRunDuelPreLeveledPlayer(t *testing.T) {
	svc, _, _ := newTestService()
	out, err := svc.RunDuel(context.Background(), uuid.New(), DuelRequest{
		Mode:     ModeFree,
		Fighter1: FighterSpec{Kind: "player_warrior", Name: "Aragorn", Experience: 100},
		Fighter2: FighterSpec{Kind: "villager", Name: "Tom"},
	}, nil)
	if err != nil {
		t.Fatalf("RunDuel err: %v", err)
	}
	if out.Fighters[0].Level != 2 || out.Fighters[0].MaxHealth != 110 || out.Fighters[0].Damage != 28 {
		t.Fatalf("pre-leveled fighter %+v", out.Fighters[0])
	}
}

func TestRunTournament(t *testing.T) {
	svc, archive, pub := newTestService()
	entrants := []FighterSpec{
		{Kind: "player_warrior", Name: "Aragorn"},
		{Kind: "goblin_warrior", Name: "Azog"},
		{Kind: "player_mage", Name: "Gandalf"},
	}
	out, err := svc.RunTournament(context.Background(), uuid.New(), entrants, nil)
	if err != nil {
		t.Fatalf("RunTournament err: %v", err)
	}
	if len(out.Rounds) != 2 || out.Rounds[0].Bye != "Gandalf" {
		t.Fatalf("unexpected bracket %+v", out.Rounds)
	}
	if out.Champion == nil || out.Champion.Health != out.Champion.MaxHealth {
		t.Fatalf("champion must be crowned at full health, got %+v", out.Champion)
	}
	if archive.reports[0].Mode != ModeTournament || archive.reports[0].Winner != out.Champion.Name {
		t.Fatalf("unexpected stored tournament %+v", archive.reports[0])
	}
	if pub.count("arena.battle.result") != 1 {
		t.Fatal("expected one result message")
	}
}

func TestRunTournamentLimits(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.RunTournament(context.Background(), uuid.New(), nil, nil); !errors.Is(err, ErrNoEntrants) {
		t.Fatalf("expected ErrNoEntrants, got %v", err)
	}
	many := make([]FighterSpec, MaxEntrants+1)
	for i := range many {
		many[i] = FighterSpec{Kind: "villager", Name: "V"}
	}
	if _, err := svc.RunTournament(context.Background(), uuid.New(), many, nil); !errors.Is(err, ErrTooManyEntrants) {
		t.Fatalf("expected ErrTooManyEntrants, got %v", err)
	}
	bad := []FighterSpec{{Kind: "villager", Name: "V"}, {Kind: "ghost", Name: "G"}}
	_, err := svc.RunTournament(context.Background(), uuid.New(), bad, nil)
	if !errors.Is(err, ErrInvalidFighter) || !strings.Contains(err.Error(), "entrant 2") {
		t.Fatalf("expected entrant 2 error, got %v", err)
	}
}

func TestRecentAndReportNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	trainer := uuid.New()
	for i := 0; i < 3; i++ {
		_, err := svc.RunDuel(ctx, trainer, DuelRequest{
			Mode:     ModeFree,
			Fighter1: FighterSpec{Kind: "dragon_boss", Name: "Smaug"},
			Fighter2: FighterSpec{Kind: "villager", Name: "Tom"},
		}, nil)
		if err != nil {
			t.Fatalf("RunDuel err: %v", err)
		}
	}
	recent, err := svc.Recent(ctx, trainer, 2)
	if err != nil || len(recent) != 2 {
		t.Fatalf("Recent = %d reports, err %v", len(recent), err)
	}
	other, err := svc.Recent(ctx, uuid.New(), 0)
	if err != nil || len(other) != 0 {
		t.Fatalf("other trainer sees %d reports, err %v", len(other), err)
	}
	if _, err := svc.Report(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboardWithoutRedis(t *testing.T) {
	svc, _, _ := newTestService()
	top, err := svc.Leaderboard(context.Background(), 5)
	if err != nil || len(top) != 0 {
		t.Fatalf("Leaderboard = %v, %v", top, err)
	}
	var nilBoard *Leaderboard
	if err := nilBoard.RecordWin(context.Background(), "x"); err != nil {
		t.Fatalf("nil leaderboard RecordWin err: %v", err)
	}
}

func TestCompare(t *testing.T) {
	svc, _, _ := newTestService()
	cmp, err := svc.Compare(
		FighterSpec{Kind: "player_warrior", Name: "Aragorn"},
		FighterSpec{Kind: "goblin_mage", Name: "Grub"},
	)
	if err != nil {
		t.Fatalf("Compare err: %v", err)
	}
	want := "Aragorn vs Grub: HP (100 vs 25), Damage (25 vs 26), Type (Physical vs Magical)"
	if cmp.Summary != want {
		t.Fatalf("Summary = %q, want %q", cmp.Summary, want)
	}
	if cmp.BonusDamage[0] != 27 || cmp.BonusDamage[1] != 23 {
		t.Fatalf("BonusDamage = %v, want [27 23]", cmp.BonusDamage)
	}
}

func TestRoster(t *testing.T) {
	svc, _, _ := newTestService()
	sum, err := svc.Roster([]FighterSpec{
		{Kind: "villager", Name: "Tom"},
		{Kind: "dragon_boss", Name: "Smaug"},
		{Kind: "player_mage", Name: "Gandalf"},
	})
	if err != nil {
		t.Fatalf("Roster err: %v", err)
	}
	if sum.Strongest != "Smaug" || sum.Tankiest != "Smaug" || sum.TotalHealth != 450 {
		t.Fatalf("unexpected roster %+v", sum)
	}

	empty, err := svc.Roster(nil)
	if err != nil || empty.Strongest != "" || empty.TotalHealth != 0 {
		t.Fatalf("empty roster %+v, %v", empty, err)
	}
}

func TestCatalogCoversEveryKind(t *testing.T) {
	cat := Catalog()
	if len(cat) != len(character.Kinds()) {
		t.Fatalf("catalog has %d kinds", len(cat))
	}
	slugs := make([]string, 0, len(cat))
	for _, s := range cat {
		b, _ := s.Kind.MarshalText()
		slugs = append(slugs, string(b))
		if s.Health != s.MaxHealth {
			t.Fatalf("%s not at full health", s.Name)
		}
	}
	sort.Strings(slugs)
	if slugs[0] != "dragon_boss" {
		t.Fatalf("unexpected slugs %v", slugs)
	}
}

func TestParseFighter(t *testing.T) {
	f, err := ParseFighter("goblin_mage:Grub:the:Wise")
	if err != nil || f.Kind != "goblin_mage" || f.Name != "Grub:the:Wise" {
		t.Fatalf("ParseFighter = %+v, %v", f, err)
	}
	if _, err := ParseFighter("Grub"); !errors.Is(err, ErrInvalidFighter) {
		t.Fatalf("expected ErrInvalidFighter, got %v", err)
	}
}

func TestRunDuelSpanRecordsFailures(t *testing.T) {
	warrior := FighterSpec{Kind: "player_warrior", Name: "Aragorn"}
	goblin := FighterSpec{Kind: "goblin_warrior", Name: "Azog"}
	tests := []struct {
		name    string
		req     DuelRequest
		failing bool
		status  string
	}{
		{"npc as player", DuelRequest{Mode: ModePlayerVsEnemy, Fighter1: FighterSpec{Kind: "merchant", Name: "M"}, Fighter2: goblin}, false, "invalid matchup"},
		{"player in monster fight", DuelRequest{Mode: ModeEnemyVsEnemy, Fighter1: warrior, Fighter2: goblin}, false, "invalid matchup"},
		{"archive down", DuelRequest{Mode: ModeFree, Fighter1: warrior, Fighter2: goblin}, true, "archive failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, archive, _ := newTestService()
			if tt.failing {
				archive.failure = errors.New("db down")
			}
			rec := tracetest.NewSpanRecorder()
			svc.tracer = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)).Tracer("arena-test")

			if _, err := svc.RunDuel(context.Background(), uuid.New(), tt.req, nil); err == nil {
				t.Fatal("expected error")
			}
			spans := rec.Ended()
			if len(spans) != 1 {
				t.Fatalf("ended spans = %d, want 1", len(spans))
			}
			st := spans[0].Status()
			if st.Code != codes.Error || st.Description != tt.status {
				t.Fatalf("span status = %v %q, want error %q", st.Code, st.Description, tt.status)
			}
			if len(spans[0].Events()) == 0 {
				t.Fatal("span should carry the recorded error event")
			}
		})
	}
}
