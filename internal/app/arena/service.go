package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rpg-arena/internal/domain/character"
	"rpg-arena/internal/domain/combat"
	"rpg-arena/internal/platform/mq"
)

var (
	ErrNotFound        = errors.New("battle report not found")
	ErrNoEntrants      = errors.New("tournament needs at least one entrant")
	ErrTooManyEntrants = errors.New("too many tournament entrants")
	ErrInvalidFighter  = errors.New("invalid fighter")
	ErrInvalidMode     = errors.New("invalid duel mode")
)

const (
	MaxEntrants   = 64
	MaxRosterSize = 64
)

type Mode string

const (
	ModePlayerVsEnemy Mode = "player_vs_enemy"
	ModeEnemyVsEnemy  Mode = "enemy_vs_enemy"
	ModeFree          Mode = "free"
	ModeTournament    Mode = "tournament"
)

func (m Mode) duel() bool {
	return m == ModePlayerVsEnemy || m == ModeEnemyVsEnemy || m == ModeFree
}

type DuelRequest struct {
	Mode     Mode        `json:"mode"`
	Fighter1 FighterSpec `json:"fighter1"`
	Fighter2 FighterSpec `json:"fighter2"`
}

type DuelOutcome struct {
	ID               uuid.UUID            `json:"id"`
	Mode             Mode                 `json:"mode"`
	Result           combat.Result        `json:"result"`
	Rounds           int                  `json:"rounds"`
	Winner           string               `json:"winner,omitempty"`
	Events           []combat.Event       `json:"events"`
	ExperienceGained uint32               `json:"experience_gained,omitempty"`
	LevelsGained     int                  `json:"levels_gained,omitempty"`
	Fighters         []character.Snapshot `json:"fighters"`
}

type TournamentOutcome struct {
	ID       uuid.UUID             `json:"id"`
	Rounds   []combat.BracketRound `json:"rounds"`
	Champion *character.Snapshot   `json:"champion,omitempty"`
}

type Comparison struct {
	Summary  string               `json:"summary"`
	Fighters []character.Snapshot `json:"fighters"`
	// Bonus damage each side would deal to the other after type and range matchups.
	BonusDamage []uint32 `json:"bonus_damage"`
}

type RosterSummary struct {
	Fighters    []character.Snapshot `json:"fighters"`
	Strongest   string               `json:"strongest,omitempty"`
	Tankiest    string               `json:"tankiest,omitempty"`
	TotalHealth uint64               `json:"total_health"`
}

// ResultMessage is published once per finished duel or tournament.
type ResultMessage struct {
	ReportID  uuid.UUID `json:"report_id"`
	TrainerID uuid.UUID `json:"trainer_id"`
	Mode      Mode      `json:"mode"`
	Result    string    `json:"result"`
	Winner    string    `json:"winner,omitempty"`
	Rounds    int       `json:"rounds"`
}

type Service struct {
	logger  zerolog.Logger
	tracer  trace.Tracer
	archive Archive
	board   *Leaderboard
	pub     mq.Publisher
	subject string
	now     func() time.Time
}

func NewService(logger zerolog.Logger, archive Archive, board *Leaderboard, pub mq.Publisher, subject string) *Service {
	return &Service{
		logger:  logger,
		tracer:  otel.Tracer("rpg-arena/arena"),
		archive: archive,
		board:   board,
		pub:     pub,
		subject: subject,
		now:     time.Now,
	}
}

// RunDuel builds both fighters, runs the battle for the requested mode and
// archives the outcome. obs, when non-nil, sees every round as it happens.
func (s *Service) RunDuel(ctx context.Context, trainerID uuid.UUID, req DuelRequest, obs combat.Observer) (DuelOutcome, error) {
	if !req.Mode.duel() {
		return DuelOutcome{}, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	f1, err := req.Fighter1.build()
	if err != nil {
		return DuelOutcome{}, err
	}
	f2, err := req.Fighter2.build()
	if err != nil {
		return DuelOutcome{}, err
	}

	id := uuid.New()
	ctx, span := s.tracer.Start(ctx, "arena.duel", trace.WithAttributes(
		attribute.String("arena.report_id", id.String()),
		attribute.String("arena.mode", string(req.Mode)),
		attribute.String("arena.fighter1", f1.Kind().Slug()),
		attribute.String("arena.fighter2", f2.Kind().Slug()),
	))
	defer span.End()

	observer := combat.Observers(
		logObserver(s.logger, id),
		publishObserver(ctx, s.pub, s.subject+".round", id, s.logger),
		obs,
	)

	out := DuelOutcome{ID: id, Mode: req.Mode}
	switch req.Mode {
	case ModePlayerVsEnemy:
		d, err := combat.PlayerVsEnemy(&f1, &f2, observer)
		if err != nil {
			return DuelOutcome{}, spanError(span, err, "invalid matchup")
		}
		out.Result, out.Rounds, out.Events = d.Result, d.Rounds, d.Events
		out.ExperienceGained, out.LevelsGained = d.ExperienceGained, d.LevelsGained
	case ModeEnemyVsEnemy:
		rep, err := combat.EnemyVsEnemy(&f1, &f2, observer)
		if err != nil {
			return DuelOutcome{}, spanError(span, err, "invalid matchup")
		}
		out.Result, out.Rounds, out.Events = rep.Result, rep.Rounds, rep.Events
	default:
		rep := combat.Battle(&f1, &f2, observer)
		out.Result, out.Rounds, out.Events = rep.Result, rep.Rounds, rep.Events
	}
	out.Fighters = []character.Snapshot{f1.Snapshot(), f2.Snapshot()}

	var winner *character.Character
	switch out.Result {
	case combat.Winner1:
		winner = &f1
	case combat.Winner2:
		winner = &f2
	}
	if winner != nil {
		out.Winner = winner.Name()
	}
	span.SetAttributes(
		attribute.String("arena.result", out.Result.String()),
		attribute.Int("arena.rounds", out.Rounds),
	)

	if err := s.finish(ctx, trainerID, id, req.Mode, out.Result.String(), out.Rounds, winner, out); err != nil {
		return DuelOutcome{}, spanError(span, err, "archive failed")
	}
	s.logger.Info().
		Str("report_id", id.String()).
		Str("mode", string(req.Mode)).
		Str("result", out.Result.String()).
		Int("rounds", out.Rounds).
		Str("winner", out.Winner).
		Msg("duel finished")
	return out, nil
}

// RunTournament runs a single-elimination bracket over the entrants in the
// order given.
func (s *Service) RunTournament(ctx context.Context, trainerID uuid.UUID, entrants []FighterSpec, obs combat.Observer) (TournamentOutcome, error) {
	if len(entrants) == 0 {
		return TournamentOutcome{}, ErrNoEntrants
	}
	if len(entrants) > MaxEntrants {
		return TournamentOutcome{}, fmt.Errorf("%w: %d > %d", ErrTooManyEntrants, len(entrants), MaxEntrants)
	}
	fighters := make([]character.Character, 0, len(entrants))
	for i, spec := range entrants {
		c, err := spec.build()
		if err != nil {
			return TournamentOutcome{}, fmt.Errorf("entrant %d: %w", i+1, err)
		}
		fighters = append(fighters, c)
	}

	id := uuid.New()
	ctx, span := s.tracer.Start(ctx, "arena.tournament", trace.WithAttributes(
		attribute.String("arena.report_id", id.String()),
		attribute.Int("arena.entrants", len(fighters)),
	))
	defer span.End()

	observer := combat.Observers(
		logObserver(s.logger, id),
		publishObserver(ctx, s.pub, s.subject+".round", id, s.logger),
		obs,
	)
	bracket := combat.Tournament(fighters, observer)

	out := TournamentOutcome{ID: id, Rounds: bracket.Rounds}
	if out.Rounds == nil {
		out.Rounds = []combat.BracketRound{}
	}
	if bracket.Winner != nil {
		snap := bracket.Winner.Snapshot()
		out.Champion = &snap
	}
	span.SetAttributes(attribute.Int("arena.rounds", len(out.Rounds)))

	if err := s.finish(ctx, trainerID, id, ModeTournament, "champion", len(out.Rounds), bracket.Winner, out); err != nil {
		return TournamentOutcome{}, spanError(span, err, "archive failed")
	}
	s.logger.Info().
		Str("report_id", id.String()).
		Int("entrants", len(fighters)).
		Str("champion", bracket.Winner.Name()).
		Msg("tournament finished")
	return out, nil
}

func spanError(span trace.Span, err error, status string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}

// finish archives the outcome, then updates the leaderboard and announces the
// result. Only the archive write is fatal to the request.
func (s *Service) finish(ctx context.Context, trainerID, id uuid.UUID, mode Mode, result string, rounds int, winner *character.Character, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal battle report: %w", err)
	}
	rep := StoredReport{
		ID:        id,
		TrainerID: trainerID,
		Mode:      mode,
		Result:    result,
		Rounds:    rounds,
		Body:      b,
		CreatedAt: s.now().UTC(),
	}
	if winner != nil {
		rep.Winner = winner.Name()
	}
	if err := s.archive.Save(ctx, rep); err != nil {
		return fmt.Errorf("archive report: %w", err)
	}

	if winner != nil {
		if err := s.board.RecordWin(ctx, memberKey(winner)); err != nil {
			s.logger.Warn().Err(err).Msg("leaderboard update failed")
		}
	}
	if s.pub != nil {
		msg := ResultMessage{ReportID: id, TrainerID: trainerID, Mode: mode, Result: result, Winner: rep.Winner, Rounds: rounds}
		if err := mq.PublishJSON(ctx, s.pub, s.subject+".result", msg); err != nil {
			s.logger.Warn().Err(err).Str("report_id", id.String()).Msg("publish result failed")
		}
	}
	return nil
}

func (s *Service) Report(ctx context.Context, id uuid.UUID) (StoredReport, error) {
	return s.archive.Get(ctx, id)
}

func (s *Service) Recent(ctx context.Context, trainerID uuid.UUID, limit int) ([]StoredReport, error) {
	return s.archive.Recent(ctx, trainerID, clampLimit(limit))
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	return s.board.Top(ctx, clampLimit(limit))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > 100:
		return 100
	default:
		return limit
	}
}

// Compare builds two fresh fighters and summarizes them side by side.
func (s *Service) Compare(a, b FighterSpec) (Comparison, error) {
	ca, err := a.build()
	if err != nil {
		return Comparison{}, err
	}
	cb, err := b.build()
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Summary:     character.Compare(&ca, &cb),
		Fighters:    []character.Snapshot{ca.Snapshot(), cb.Snapshot()},
		BonusDamage: []uint32{combat.DamageWithBonus(&ca, &cb), combat.DamageWithBonus(&cb, &ca)},
	}, nil
}

// Roster reports party totals and the strongest and tankiest members.
func (s *Service) Roster(specs []FighterSpec) (RosterSummary, error) {
	if len(specs) > MaxRosterSize {
		return RosterSummary{}, fmt.Errorf("%w: roster larger than %d", ErrInvalidFighter, MaxRosterSize)
	}
	party := make([]character.Character, 0, len(specs))
	for i, spec := range specs {
		c, err := spec.build()
		if err != nil {
			return RosterSummary{}, fmt.Errorf("member %d: %w", i+1, err)
		}
		party = append(party, c)
	}

	out := RosterSummary{
		Fighters:    make([]character.Snapshot, 0, len(party)),
		TotalHealth: character.PartyTotalHealth(party),
	}
	for i := range party {
		out.Fighters = append(out.Fighters, party[i].Snapshot())
	}
	if c := character.FindStrongest(party); c != nil {
		out.Strongest = c.Name()
	}
	if c := character.FindTankiest(party); c != nil {
		out.Tankiest = c.Name()
	}
	return out, nil
}

// Catalog lists a fresh snapshot of every kind.
func Catalog() []character.Snapshot {
	kinds := character.Kinds()
	out := make([]character.Snapshot, 0, len(kinds))
	for _, k := range kinds {
		c := character.New(k, k.String())
		out = append(out, c.Snapshot())
	}
	return out
}
