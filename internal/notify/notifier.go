package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"golang.org/x/time/rate"
)

// Options tunes delivery pacing.
type Options struct {
	// Rate is the sustained number of messages per second.
	Rate  float64
	Burst int
}

// Report counts delivery outcomes.
type Report struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Text renders the report for operators.
func (r Report) Text() string {
	return fmt.Sprintf("Sent %d messages, skipped %d without a linked chat, %d failed.", r.Sent, r.Skipped, r.Failed)
}

// Notifier sends messages through a Sender at a bounded rate. Delivery
// failures are logged and recorded, never returned.
type Notifier struct {
	sender   Sender
	limiter  *rate.Limiter
	activity distribution.ActivityRecorder
	logger   *slog.Logger
}

// New creates a Notifier.
func New(sender Sender, opts Options, recorder distribution.ActivityRecorder, logger *slog.Logger) *Notifier {
	if opts.Rate <= 0 {
		opts.Rate = 20
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{
		sender:   sender,
		limiter:  rate.NewLimiter(rate.Limit(opts.Rate), opts.Burst),
		activity: recorder,
		logger:   logger,
	}
}

// NotifyTeams messages every member of every formed team.
func (n *Notifier) NotifyTeams(ctx context.Context, teams []distribution.FormedTeam) Report {
	return n.deliver(ctx, "teams", TeamMessages(teams))
}

// NotifyUnallocated messages every unplaced student with the free manager times.
func (n *Notifier) NotifyUnallocated(ctx context.Context, students []participant.Participant, freeTimes []availability.TimeOfDay) Report {
	return n.deliver(ctx, "unallocated", UnallocatedMessages(students, freeTimes))
}

func (n *Notifier) deliver(ctx context.Context, batch string, msgs []Message) Report {
	var report Report
	for i, msg := range msgs {
		if msg.TelegramID == 0 {
			n.logger.Warn("participant has no linked chat", "participant_id", msg.ParticipantID, "kind", msg.Kind)
			report.Skipped++
			continue
		}
		if err := n.limiter.Wait(ctx); err != nil {
			n.logger.Error("notification batch interrupted", "batch", batch, "error", err)
			for _, rest := range msgs[i:] {
				if rest.TelegramID == 0 {
					report.Skipped++
				} else {
					report.Failed++
				}
			}
			break
		}
		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Error("notification failed", "participant_id", msg.ParticipantID, "kind", msg.Kind, "error", err)
			n.record(ctx, activity.TypeNotificationFailed, fmt.Sprintf("%s message not delivered: %v", msg.Kind, err), nil,
				activity.WithParticipant(msg.ParticipantID))
			report.Failed++
			continue
		}
		report.Sent++
	}

	n.logger.Info("notifications delivered", "batch", batch, "sent", report.Sent,
		"skipped", report.Skipped, "failed", report.Failed)
	if len(msgs) > 0 {
		n.record(ctx, activity.TypeNotificationSent, batch+": "+report.Text(), report)
	}
	return report
}

func (n *Notifier) record(ctx context.Context, typ activity.ActivityType, summary string, details any, opts ...activity.EntryOption) {
	if n.activity == nil {
		return
	}
	n.activity.Record(ctx, typ, summary, details, opts...)
}
