package models

import "time"

// InviteStatus tracks whether a teammate confirmed joining the participant.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

// PlayerPaymentStatus is the per-player payment state.
type PlayerPaymentStatus string

const (
	PlayerPaymentPending PlayerPaymentStatus = "pendente"
	PlayerPaymentPaid    PlayerPaymentStatus = "pago"
)

// ParticipantPaymentStatus is the aggregate payment state of the whole entry.
type ParticipantPaymentStatus string

const (
	ParticipantPaymentPending       ParticipantPaymentStatus = "pendente"
	ParticipantPaymentPartiallyPaid ParticipantPaymentStatus = "parcialmente_pago"
	ParticipantPaymentPaid          ParticipantPaymentStatus = "pago"
)

// Player is one registrant's line inside a participant. UserID is nil for
// locally-added members without a platform account.
type Player struct {
	UserID        *string             `json:"user_id,omitempty"`
	Name          string              `json:"name"`
	Phone         string              `json:"phone,omitempty"`
	InviteStatus  InviteStatus        `json:"invite_status"`
	PaymentStatus PlayerPaymentStatus `json:"payment_status"`
	CheckedIn     bool                `json:"checked_in"`
}

// Participant is one admitted entrant (individual or team) in a category.
type Participant struct {
	ID            string                   `json:"id"`
	CategoryID    string                   `json:"category_id"`
	Name          string                   `json:"name"`
	Players       []Player                 `json:"players"`
	Waitlisted    bool                     `json:"waitlisted"`
	PaymentStatus ParticipantPaymentStatus `json:"payment_status"`
	CreatedAt     time.Time                `json:"created_at"`
}

// PlayerByUserID returns the player row belonging to userID, or nil.
func (p *Participant) PlayerByUserID(userID string) *Player {
	if p == nil || userID == "" {
		return nil
	}
	for i := range p.Players {
		if p.Players[i].UserID != nil && *p.Players[i].UserID == userID {
			return &p.Players[i]
		}
	}
	return nil
}

// HasActiveUser reports whether userID holds an accepted-or-pending player row.
// Declined rows do not block re-registration.
func (p *Participant) HasActiveUser(userID string) bool {
	pl := p.PlayerByUserID(userID)
	return pl != nil && (pl.InviteStatus == InviteAccepted || pl.InviteStatus == InvitePending)
}

// ComputeParticipantPaymentStatus derives the aggregate status from the
// players' individual statuses. Only accepted players count toward "pago":
// a pending teammate has not confirmed joining and must not hold the entry
// at fully-paid. Any paid row, accepted or not, is enough for partial.
func ComputeParticipantPaymentStatus(players []Player) ParticipantPaymentStatus {
	accepted, acceptedPaid, anyPaid := 0, 0, 0
	for _, pl := range players {
		if pl.PaymentStatus == PlayerPaymentPaid {
			anyPaid++
		}
		if pl.InviteStatus == InviteAccepted {
			accepted++
			if pl.PaymentStatus == PlayerPaymentPaid {
				acceptedPaid++
			}
		}
	}
	if accepted > 0 && acceptedPaid == accepted {
		return ParticipantPaymentPaid
	}
	if anyPaid > 0 {
		return ParticipantPaymentPartiallyPaid
	}
	return ParticipantPaymentPending
}
