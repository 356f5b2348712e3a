// Package roster imports participants, their availability, constraints and
// project templates from a YAML document.
package roster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRoster is returned for documents that cannot be imported.
var ErrInvalidRoster = errors.New("invalid roster")

// Document is the YAML roster layout.
type Document struct {
	Projects     []ProjectEntry     `yaml:"projects"`
	Participants []ParticipantEntry `yaml:"participants"`
	Constraints  []ConstraintEntry  `yaml:"constraints"`
}

type ProjectEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	LinkDoc     string `yaml:"link_doc"`
}

type ParticipantEntry struct {
	Name     string   `yaml:"name"`
	Telegram string   `yaml:"telegram"`
	Discord  string   `yaml:"discord"`
	Role     string   `yaml:"role"`
	Level    string   `yaml:"level"`
	FarEast  bool     `yaml:"far_east"`
	Slots    []string `yaml:"slots"`
}

// ConstraintEntry names both participants by Telegram username. Kind is
// "together", "separate" or "none" (or the stored codes TOG, SEP, ND).
type ConstraintEntry struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
	Kind   string `yaml:"kind"`
}

// Result counts what an import changed.
type Result struct {
	ProjectsCreated     int `json:"projects_created"`
	ParticipantsCreated int `json:"participants_created"`
	ParticipantsReused  int `json:"participants_reused"`
	SlotsDeclared       int `json:"slots_declared"`
	ConstraintsSet      int `json:"constraints_set"`
}

// Text renders the result for operators.
func (r Result) Text() string {
	return fmt.Sprintf("Imported %d new participants (%d already known), %d slots, %d constraints, %d new projects.",
		r.ParticipantsCreated, r.ParticipantsReused, r.SlotsDeclared, r.ConstraintsSet, r.ProjectsCreated)
}

// Recorder writes activity entries.
type Recorder interface {
	Record(ctx context.Context, typ activity.ActivityType, summary string, details any, opts ...activity.EntryOption)
}

// Importer applies roster documents through the domain services.
type Importer struct {
	participants *participant.Service
	slots        *availability.Service
	constraints  *constraint.Service
	teams        *team.Service
	activity     Recorder
	logger       *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(
	participants *participant.Service,
	slots *availability.Service,
	constraints *constraint.Service,
	teams *team.Service,
	recorder Recorder,
	logger *slog.Logger,
) *Importer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Importer{
		participants: participants,
		slots:        slots,
		constraints:  constraints,
		teams:        teams,
		activity:     recorder,
		logger:       logger,
	}
}

// Parse decodes and checks a roster document without touching storage.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidRoster)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) check() error {
	seen := make(map[string]bool)
	for i, p := range d.Participants {
		username := participant.NormalizeUsername(p.Telegram)
		if username == "" {
			return fmt.Errorf("%w: participant %d has no telegram username", ErrInvalidRoster, i+1)
		}
		key := strings.ToLower(username)
		if seen[key] {
			return fmt.Errorf("%w: participant @%s listed twice", ErrInvalidRoster, username)
		}
		seen[key] = true
		for _, s := range p.Slots {
			if _, err := availability.ParseTimeOfDay(s); err != nil {
				return fmt.Errorf("%w: participant @%s: %v", ErrInvalidRoster, username, err)
			}
		}
	}
	for i, c := range d.Constraints {
		if _, err := constraint.ParseKind(c.Kind); err != nil {
			return fmt.Errorf("%w: constraint %d: %v", ErrInvalidRoster, i+1, err)
		}
		if participant.NormalizeUsername(c.First) == "" || participant.NormalizeUsername(c.Second) == "" {
			return fmt.Errorf("%w: constraint %d needs two usernames", ErrInvalidRoster, i+1)
		}
	}
	return nil
}

// Import reads a document from r and applies it. Participants already known
// by Telegram username are reused and their slots merged. Import is not
// transactional: an error leaves earlier entries applied, and re-running the
// same document is safe.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	doc, err := Parse(r)
	if err != nil {
		return Result{}, err
	}
	return im.Apply(ctx, doc)
}

// Apply imports a parsed document.
func (im *Importer) Apply(ctx context.Context, doc *Document) (Result, error) {
	var res Result

	for _, p := range doc.Projects {
		_, created, err := im.teams.EnsureProject(ctx, team.CreateProjectRequest{
			Name:        p.Name,
			Description: p.Description,
			LinkDoc:     p.LinkDoc,
		})
		if err != nil {
			return res, fmt.Errorf("project %q: %w", p.Name, err)
		}
		if created {
			res.ProjectsCreated++
		}
	}

	for _, entry := range doc.Participants {
		p, created, err := im.ensureParticipant(ctx, entry)
		if err != nil {
			return res, fmt.Errorf("participant @%s: %w", participant.NormalizeUsername(entry.Telegram), err)
		}
		if created {
			res.ParticipantsCreated++
		} else {
			res.ParticipantsReused++
		}

		for _, s := range entry.Slots {
			t, _ := availability.ParseTimeOfDay(s)
			if _, err := im.slots.Declare(ctx, p.ID, t); err != nil {
				return res, fmt.Errorf("participant @%s slot %s: %w", p.TelegramUsername, t, err)
			}
			res.SlotsDeclared++
		}
	}

	for _, c := range doc.Constraints {
		first, err := im.participants.FindByUsername(ctx, c.First)
		if err != nil {
			return res, fmt.Errorf("constraint %s/%s: %w", c.First, c.Second, err)
		}
		second, err := im.participants.FindByUsername(ctx, c.Second)
		if err != nil {
			return res, fmt.Errorf("constraint %s/%s: %w", c.First, c.Second, err)
		}
		kind, _ := constraint.ParseKind(c.Kind)
		if _, err := im.constraints.Set(ctx, first.ID, second.ID, kind); err != nil {
			return res, fmt.Errorf("constraint %s/%s: %w", c.First, c.Second, err)
		}
		res.ConstraintsSet++
	}

	im.logger.Info("roster imported", "participants_created", res.ParticipantsCreated,
		"participants_reused", res.ParticipantsReused, "slots", res.SlotsDeclared,
		"constraints", res.ConstraintsSet, "projects_created", res.ProjectsCreated)
	if im.activity != nil {
		im.activity.Record(ctx, activity.TypeRosterImported, res.Text(), res)
	}
	return res, nil
}

func (im *Importer) ensureParticipant(ctx context.Context, entry ParticipantEntry) (*participant.Participant, bool, error) {
	p, err := im.participants.FindByUsername(ctx, entry.Telegram)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, participant.ErrParticipantNotFound) {
		return nil, false, err
	}

	p, err = im.participants.Create(ctx, participant.CreateRequest{
		Name:             entry.Name,
		TelegramUsername: entry.Telegram,
		DiscordUsername:  entry.Discord,
		Role:             participant.Role(strings.ToUpper(strings.TrimSpace(entry.Role))),
		Level:            participant.Level(strings.ToUpper(strings.TrimSpace(entry.Level))),
		FarEast:          entry.FarEast,
	})
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}
