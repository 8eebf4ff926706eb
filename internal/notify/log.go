package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

// LogNotifier writes announcements to the structured log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("announce")}
}

func (n *LogNotifier) Announce(_ context.Context, announcement *Announcement) error {
	if announcement.IsEmpty() {
		return nil
	}

	log := n.logger.With(
		zap.String("actor_id", announcement.ActorID),
		zap.String("actor_name", announcement.ActorName))

	if len(announcement.Learned) > 0 {
		log.Info("Formulas learned", zap.Strings("formulas", formula.Names(announcement.Learned)))
	}
	if len(announcement.Removed) > 0 {
		log.Info("Lower-level formulas removed", zap.Strings("formulas", formula.Names(announcement.Removed)))
	}
	for _, update := range announcement.Items {
		log.Info("Item updated to class DC",
			zap.String("item", update.Name),
			zap.Int("class_dc", update.ClassDC))
	}
	return nil
}
