package services

import (
	"context"
	"errors"
	"testing"

	"github.com/quadrahub/arena-system/models"
)

func feeOf(v float64) *float64 { return &v }

func testTournament() *models.Tournament {
	return &models.Tournament{
		ID:              "t1",
		ArenaID:         "a1",
		Name:            "Copa Verão",
		Status:          models.StatusRegistration,
		RegistrationFee: 50,
		Categories: []models.Category{
			{ID: "c-ind", Name: "Individual A", Modality: models.ModalityIndividual},
			{ID: "c-dup", Name: "Dupla Mista", Modality: models.ModalityDupla},
			{ID: "c-free", Name: "Kids", Modality: models.ModalityIndividual, Fee: feeOf(0)},
		},
	}
}

func newRegistrationFixture(t *models.Tournament, members ...*models.User) (RegistrationService, *fakeTournamentRepo, *fakeNotificationRepo, *fakeHub) {
	tournaments := newFakeTournamentRepo(t)
	notifications := &fakeNotificationRepo{}
	hub := &fakeHub{}
	svc := NewRegistrationService(tournaments, newFakeCustomerRepo(members...), notifications, hub, testLogger())
	return svc, tournaments, notifications, hub
}

func TestAdmitPreconditions(t *testing.T) {
	ana := &models.User{ID: "u1", FirstName: "Ana", Email: "ana@example.com"}

	tests := []struct {
		name    string
		input   AdmitInput
		wantErr error
	}{
		{
			name:    "unauthenticated",
			input:   AdmitInput{ArenaID: "a1", TournamentID: "t1", CategoryID: "c-ind"},
			wantErr: ErrAuthenticationFailed,
		},
		{
			name:    "unknown tournament",
			input:   AdmitInput{ArenaID: "a1", TournamentID: "missing", CategoryID: "c-ind", UserID: "u1"},
			wantErr: ErrTournamentNotFound,
		},
		{
			name:    "empty category",
			input:   AdmitInput{ArenaID: "a1", TournamentID: "t1", UserID: "u1"},
			wantErr: ErrCategoryNotFound,
		},
		{
			name:    "unknown category",
			input:   AdmitInput{ArenaID: "a1", TournamentID: "t1", CategoryID: "nope", UserID: "u1"},
			wantErr: ErrCategoryNotFound,
		},
		{
			name:    "dupla without team name",
			input:   AdmitInput{ArenaID: "a1", TournamentID: "t1", CategoryID: "c-dup", UserID: "u1", TeamName: "   "},
			wantErr: ErrTeamNameRequired,
		},
		{
			name:    "member record not synced",
			input:   AdmitInput{ArenaID: "a1", TournamentID: "t1", CategoryID: "c-ind", UserID: "ghost"},
			wantErr: ErrProfileNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tournaments, _, _ := newRegistrationFixture(testTournament(), ana)
			_, err := svc.Admit(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			if tournaments.saveCalls != 0 {
				t.Error("a failed admission must not persist anything")
			}
		})
	}
}

func TestAdmitIndividual(t *testing.T) {
	ana := &models.User{ID: "u1", FirstName: "Ana", LastName: "Souza", Phone: "11999990000"}
	svc, tournaments, _, hub := newRegistrationFixture(testTournament(), ana)

	participant, err := svc.Admit(context.Background(), AdmitInput{
		ArenaID: "a1", TournamentID: "t1", CategoryID: "c-ind", UserID: "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if participant.Name != "Ana Souza" {
		t.Errorf("participant name = %q, want the member display name", participant.Name)
	}
	if len(participant.Players) != 1 {
		t.Fatalf("players = %d, want 1", len(participant.Players))
	}
	pl := participant.Players[0]
	if pl.InviteStatus != models.InviteAccepted || pl.PaymentStatus != models.PlayerPaymentPending {
		t.Errorf("primary player seeded as %s/%s, want accepted/pendente", pl.InviteStatus, pl.PaymentStatus)
	}
	if participant.PaymentStatus != models.ParticipantPaymentPending {
		t.Errorf("aggregate seeded as %s, want pendente for a paid category", participant.PaymentStatus)
	}
	if tournaments.saveCalls != 1 {
		t.Errorf("tournament saved %d times, want 1", tournaments.saveCalls)
	}
	if len(hub.rooms) != 1 || hub.rooms[0] != "t1" {
		t.Error("admission should broadcast to the tournament room")
	}
}

func TestAdmitDuplicateLeavesCollectionUnchanged(t *testing.T) {
	ana := &models.User{ID: "u1", FirstName: "Ana"}
	svc, tournaments, _, _ := newRegistrationFixture(testTournament(), ana)
	input := AdmitInput{ArenaID: "a1", TournamentID: "t1", CategoryID: "c-ind", UserID: "u1"}

	if _, err := svc.Admit(context.Background(), input); err != nil {
		t.Fatalf("first admission failed: %v", err)
	}

	_, err := svc.Admit(context.Background(), input)
	if !errors.Is(err, ErrRegistrationConflict) {
		t.Fatalf("got error %v, want ErrRegistrationConflict", err)
	}

	stored := tournaments.tournaments["a1/t1"]
	if len(stored.Participants) != 1 {
		t.Errorf("participants = %d after duplicate attempt, want 1", len(stored.Participants))
	}
	if tournaments.saveCalls != 1 {
		t.Errorf("tournament saved %d times, want 1", tournaments.saveCalls)
	}
}

func TestAdmitSameUserDifferentCategoryAllowed(t *testing.T) {
	ana := &models.User{ID: "u1", FirstName: "Ana"}
	svc, _, _, _ := newRegistrationFixture(testTournament(), ana)

	if _, err := svc.Admit(context.Background(), AdmitInput{
		ArenaID: "a1", TournamentID: "t1", CategoryID: "c-ind", UserID: "u1",
	}); err != nil {
		t.Fatalf("first admission failed: %v", err)
	}
	if _, err := svc.Admit(context.Background(), AdmitInput{
		ArenaID: "a1", TournamentID: "t1", CategoryID: "c-free", UserID: "u1",
	}); err != nil {
		t.Fatalf("admission into a second category should succeed, got %v", err)
	}
}

func TestAdmitZeroFeeSeedsPaid(t *testing.T) {
	ana := &models.User{ID: "u1", FirstName: "Ana"}
	svc, _, _, _ := newRegistrationFixture(testTournament(), ana)

	participant, err := svc.Admit(context.Background(), AdmitInput{
		ArenaID: "a1", TournamentID: "t1", CategoryID: "c-free", UserID: "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if participant.PaymentStatus != models.ParticipantPaymentPaid {
		t.Errorf("aggregate = %s for a free category, want pago", participant.PaymentStatus)
	}
	if participant.Players[0].PaymentStatus != models.PlayerPaymentPending {
		t.Error("player rows stay pendente even in a free category")
	}
}

func TestAdmitWithPartnerSendsInvite(t *testing.T) {
	ana := &models.User{ID: "u1", FirstName: "Ana"}
	bia := &models.User{ID: "u2", FirstName: "Bia"}
	svc, _, notifications, _ := newRegistrationFixture(testTournament(), ana, bia)

	participant, err := svc.Admit(context.Background(), AdmitInput{
		ArenaID: "a1", TournamentID: "t1", CategoryID: "c-dup",
		UserID: "u1", TeamName: "As Meninas", PartnerUserID: "u2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if participant.Name != "As Meninas" {
		t.Errorf("participant name = %q, want the team name", participant.Name)
	}
	if len(participant.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(participant.Players))
	}
	partner := participant.Players[1]
	if partner.InviteStatus != models.InvitePending {
		t.Errorf("partner invite status = %s, want pending", partner.InviteStatus)
	}

	if len(notifications.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications.notifications))
	}
	n := notifications.notifications[0]
	if n.RecipientID != "u2" || n.SenderID != "u1" || n.Type != models.NotificationTypeTeamInvite {
		t.Errorf("invite notification misaddressed: %+v", n)
	}
}

func TestAdmitNotificationFailureDoesNotRollBack(t *testing.T) {
	ana := &models.User{ID: "u1", FirstName: "Ana"}
	bia := &models.User{ID: "u2", FirstName: "Bia"}
	tournaments := newFakeTournamentRepo(testTournament())
	notifications := &fakeNotificationRepo{err: errors.New("sink down")}
	svc := NewRegistrationService(tournaments, newFakeCustomerRepo(ana, bia), notifications, &fakeHub{}, testLogger())

	_, err := svc.Admit(context.Background(), AdmitInput{
		ArenaID: "a1", TournamentID: "t1", CategoryID: "c-dup",
		UserID: "u1", TeamName: "As Meninas", PartnerUserID: "u2",
	})
	if err != nil {
		t.Fatalf("admission must survive a notification failure, got %v", err)
	}
	if len(tournaments.tournaments["a1/t1"].Participants) != 1 {
		t.Error("participant should stay persisted despite the failed notification")
	}
}
