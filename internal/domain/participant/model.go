package participant

import "fmt"

// Role is the part a participant plays in a cohort.
type Role string

const (
	RoleStudent        Role = "ST"
	RoleProductManager Role = "PM"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleProductManager
}

// Level is a student's skill level.
type Level string

const (
	LevelBeginner      Level = "BG"
	LevelBeginnerPlus  Level = "BG+"
	LevelJunior        Level = "JR"
	LevelNotApplicable Level = "N/A"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelBeginnerPlus, LevelJunior, LevelNotApplicable:
		return true
	}
	return false
}

// Participant is a roster entry as stored.
type Participant struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	TelegramID       *int64 `json:"telegram_id,omitempty"`
	TelegramUsername string `json:"telegram_username"`
	DiscordUsername  string `json:"discord_username,omitempty"`
	Role             Role   `json:"role"`
	Level            Level  `json:"level"`
	FarEast          bool   `json:"far_east"`
}

func (p Participant) String() string {
	switch p.Role {
	case RoleStudent:
		return fmt.Sprintf("Student / %s: %s (@%s)", p.Level, p.Name, p.TelegramUsername)
	default:
		return fmt.Sprintf("PM: %s (@%s)", p.Name, p.TelegramUsername)
	}
}

// Member is the role-specific view of a participant. It is implemented only
// by Student and ProductManager.
type Member interface {
	Info() Participant
	member()
}

// Student is a participant placed into teams.
type Student struct {
	Participant
	Level Level
}

// ProductManager is a participant who leads a team.
type ProductManager struct {
	Participant
}

func (s Student) Info() Participant { return s.Participant }

func (m ProductManager) Info() Participant { return m.Participant }

func (Student) member() {}

func (ProductManager) member() {}

// Member returns the role-specific variant of p.
func (p Participant) Member() (Member, error) {
	switch p.Role {
	case RoleStudent:
		level := p.Level
		if level == "" {
			level = LevelNotApplicable
		}
		return Student{Participant: p, Level: level}, nil
	case RoleProductManager:
		return ProductManager{Participant: p}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q for participant %d", ErrInvalidInput, p.Role, p.ID)
	}
}

// IsStudent reports whether p has the student role.
func (p Participant) IsStudent() bool { return p.Role == RoleStudent }

// IsManager reports whether p has the product manager role.
func (p Participant) IsManager() bool { return p.Role == RoleProductManager }
