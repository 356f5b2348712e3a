// Package notify tells participants about formed teams and unallocated
// places.
package notify

import (
	"fmt"
	"strings"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
)

// Kind classifies a message for the chat front-end.
type Kind string

const (
	KindTeamManager Kind = "team_manager"
	KindTeamStudent Kind = "team_student"
	KindUnallocated Kind = "unallocated"
)

const dateLayout = "02.01.2006"

// Message is one chat message to one participant. TelegramID is zero when
// the participant never linked a chat.
type Message struct {
	ParticipantID int64  `json:"participant_id"`
	TelegramID    int64  `json:"telegram_id"`
	Kind          Kind   `json:"kind"`
	Text          string `json:"text"`
}

// TeamMessages builds one message for every manager and student of every team.
func TeamMessages(teams []distribution.FormedTeam) []Message {
	var msgs []Message
	for _, ft := range teams {
		msgs = append(msgs, newMessage(ft.Manager, KindTeamManager, managerText(ft)))
		for _, s := range ft.Students {
			msgs = append(msgs, newMessage(s, KindTeamStudent, studentText(ft, s.ID)))
		}
	}
	return msgs
}

// UnallocatedMessages builds one message per unplaced student listing the
// times managers are still free.
func UnallocatedMessages(students []participant.Participant, freeTimes []availability.TimeOfDay) []Message {
	text := "We could not place you in a team this time. We will write again when a place opens up."
	if len(freeTimes) > 0 {
		times := make([]string, 0, len(freeTimes))
		for _, t := range freeTimes {
			times = append(times, t.String())
		}
		text = fmt.Sprintf("We could not place you in a team this time. Managers still have free calls at %s. "+
			"Add one of these times to your availability to be considered in the next distribution.",
			strings.Join(times, ", "))
	}

	msgs := make([]Message, 0, len(students))
	for _, s := range students {
		msgs = append(msgs, newMessage(s, KindUnallocated, text))
	}
	return msgs
}

func newMessage(p participant.Participant, kind Kind, text string) Message {
	msg := Message{ParticipantID: p.ID, Kind: kind, Text: text}
	if p.TelegramID != nil {
		msg.TelegramID = *p.TelegramID
	}
	return msg
}

func managerText(ft distribution.FormedTeam) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You lead a team on %s from %s to %s.\n",
		projectName(ft), ft.Team.DateStart.Format(dateLayout), ft.Team.DateEnd.Format(dateLayout))
	fmt.Fprintf(&b, "Daily call at %s.\n", ft.Time)
	b.WriteString("Team:\n")
	for _, s := range ft.Students {
		fmt.Fprintf(&b, "- %s\n", contact(s))
	}
	writeLinks(&b, ft)
	return strings.TrimRight(b.String(), "\n")
}

func studentText(ft distribution.FormedTeam, self int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are in a team on %s from %s to %s.\n",
		projectName(ft), ft.Team.DateStart.Format(dateLayout), ft.Team.DateEnd.Format(dateLayout))
	fmt.Fprintf(&b, "Daily call at %s.\n", ft.Time)
	fmt.Fprintf(&b, "Manager: %s\n", contact(ft.Manager))

	var mates []string
	for _, s := range ft.Students {
		if s.ID != self {
			mates = append(mates, contact(s))
		}
	}
	if len(mates) > 0 {
		b.WriteString("Teammates:\n")
		for _, m := range mates {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	writeLinks(&b, ft)
	return strings.TrimRight(b.String(), "\n")
}

func writeLinks(b *strings.Builder, ft distribution.FormedTeam) {
	if ft.Project != nil && ft.Project.LinkDoc != "" {
		fmt.Fprintf(b, "Brief: %s\n", ft.Project.LinkDoc)
	}
	if ft.Team.DiscordServerLink != "" {
		fmt.Fprintf(b, "Discord: %s\n", ft.Team.DiscordServerLink)
	}
	if ft.Team.TrelloDeskLink != "" {
		fmt.Fprintf(b, "Trello: %s\n", ft.Team.TrelloDeskLink)
	}
}

func projectName(ft distribution.FormedTeam) string {
	if ft.Project == nil {
		return "a project to be announced"
	}
	return fmt.Sprintf("%q", ft.Project.Name)
}

func contact(p participant.Participant) string {
	if p.TelegramUsername == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (@%s)", p.Name, p.TelegramUsername)
}
