package models

import "time"

// TournamentStatus enumerates the lifecycle of a tournament.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// Modality defines how many players a participant carries.
type Modality string

const (
	ModalityIndividual Modality = "individual"
	ModalityDupla      Modality = "dupla"
	ModalityEquipe     Modality = "equipe"
)

// Category is one bracket-level division of a tournament. Fee falls back to the
// tournament-level fee when unset. Categories become immutable once matches
// begin; that is enforced by the bracket layer, not here.
type Category struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Modality           Modality `json:"modality"`
	Fee                *float64 `json:"fee,omitempty"`
	Prizes             []string `json:"prizes,omitempty"`
	ThirdPlaceWinnerID *string  `json:"third_place_winner_id,omitempty"`
}

// ResolveFee returns the category fee, falling back to the tournament default.
func (c *Category) ResolveFee(t *Tournament) float64 {
	if c != nil && c.Fee != nil {
		return *c.Fee
	}
	if t != nil {
		return t.RegistrationFee
	}
	return 0
}

// Tournament is stored as a single document: the participants collection is
// read and written whole, never patched row by row.
type Tournament struct {
	ID              string           `json:"id"`
	ArenaID         string           `json:"arena_id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	Status          TournamentStatus `json:"status"`
	RegistrationFee float64          `json:"registration_fee"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	Categories      []Category       `json:"categories,omitempty"`
	Participants    []Participant    `json:"participants,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func (t *Tournament) CategoryByID(id string) *Category {
	if t == nil || id == "" {
		return nil
	}
	for i := range t.Categories {
		if t.Categories[i].ID == id {
			return &t.Categories[i]
		}
	}
	return nil
}

func (t *Tournament) ParticipantByID(id string) *Participant {
	if t == nil || id == "" {
		return nil
	}
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}
	return nil
}
