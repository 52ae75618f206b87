package arena

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rpg-arena/internal/domain/combat"
	"rpg-arena/internal/platform/mq"
)

// RoundMessage is the payload published for every resolved attack.
type RoundMessage struct {
	ReportID uuid.UUID    `json:"report_id"`
	Event    combat.Event `json:"event"`
}

func logObserver(logger zerolog.Logger, reportID uuid.UUID) combat.Observer {
	return combat.ObserverFunc(func(e combat.Event) {
		logger.Debug().
			Str("report_id", reportID.String()).
			Int("round", e.Round).
			Str("attacker", e.Attacker).
			Str("defender", e.Defender).
			Uint32("damage", e.Damage).
			Uint32("defender_health", e.DefenderHealth).
			Msg("attack resolved")
	})
}

// publishObserver forwards rounds to the broker. Failures are logged once per
// battle and never interrupt the fight.
func publishObserver(ctx context.Context, pub mq.Publisher, subject string, reportID uuid.UUID, logger zerolog.Logger) combat.Observer {
	if pub == nil {
		return nil
	}
	failed := false
	return combat.ObserverFunc(func(e combat.Event) {
		if failed {
			return
		}
		if err := mq.PublishJSON(ctx, pub, subject, RoundMessage{ReportID: reportID, Event: e}); err != nil {
			failed = true
			logger.Warn().Err(err).Str("report_id", reportID.String()).Msg("publish round failed")
		}
	})
}
