package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/quadrahub/arena-system/gateway"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/repositories"
)

// Not-found paths in services match on the repository sentinels.
var (
	errUserNotFoundForTest       = repositories.ErrUserNotFound
	errTournamentNotFoundForTest = repositories.ErrTournamentNotFound
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeGatewayAPI struct {
	configCalls   int
	customerCalls int
	paymentCalls  int
	qrCalls       int
	slipCalls     int

	config       gateway.ConfigStatus
	customerResp *gateway.CustomerResponse
	paymentResp  *gateway.PaymentResponse
	qrResp       *gateway.PixQRCodeResponse
	slipResp     *gateway.BankSlipResponse

	customerErr error
	paymentErr  error
	qrErr       error
	slipErr     error

	lastPaymentReq  gateway.PaymentRequest
	lastCustomerReq gateway.CustomerRequest
}

func (f *fakeGatewayAPI) GetConfig(context.Context) (*gateway.ConfigStatus, error) {
	f.configCalls++
	cfg := f.config
	return &cfg, nil
}

func (f *fakeGatewayAPI) SaveConfig(context.Context, gateway.ConfigRequest) error {
	return nil
}

func (f *fakeGatewayAPI) CreateCustomer(_ context.Context, _ string, req gateway.CustomerRequest) (*gateway.CustomerResponse, error) {
	f.customerCalls++
	f.lastCustomerReq = req
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	if f.customerResp != nil {
		return f.customerResp, nil
	}
	return &gateway.CustomerResponse{ID: "cus_1", Name: req.Name}, nil
}

func (f *fakeGatewayAPI) CreatePayment(_ context.Context, _ string, req gateway.PaymentRequest) (*gateway.PaymentResponse, error) {
	f.paymentCalls++
	f.lastPaymentReq = req
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	if f.paymentResp != nil {
		return f.paymentResp, nil
	}
	return &gateway.PaymentResponse{
		ID:          "pay_1",
		Status:      "PENDING",
		BillingType: req.BillingType,
		Value:       req.Value,
		DueDate:     req.DueDate,
	}, nil
}

func (f *fakeGatewayAPI) GetPayment(_ context.Context, _ string, paymentID string) (*gateway.PaymentResponse, error) {
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	if f.paymentResp != nil {
		return f.paymentResp, nil
	}
	return &gateway.PaymentResponse{ID: paymentID, Status: "PENDING"}, nil
}

func (f *fakeGatewayAPI) GetPixQRCode(context.Context, string, string) (*gateway.PixQRCodeResponse, error) {
	f.qrCalls++
	if f.qrErr != nil {
		return nil, f.qrErr
	}
	if f.qrResp != nil {
		return f.qrResp, nil
	}
	return &gateway.PixQRCodeResponse{Payload: "pix-payload", EncodedImage: "aW1n"}, nil
}

func (f *fakeGatewayAPI) GetBankSlip(context.Context, string, string) (*gateway.BankSlipResponse, error) {
	f.slipCalls++
	if f.slipErr != nil {
		return nil, f.slipErr
	}
	if f.slipResp != nil {
		return f.slipResp, nil
	}
	return &gateway.BankSlipResponse{IdentificationField: "00000.00000", BankSlipURL: "https://gw/slip"}, nil
}

func (f *fakeGatewayAPI) totalCalls() int {
	return f.configCalls + f.customerCalls + f.paymentCalls + f.qrCalls + f.slipCalls
}

type fakeStatusProvider struct {
	status gateway.ConfigStatus
	err    error
	calls  int
}

func (f *fakeStatusProvider) Status(context.Context) (gateway.ConfigStatus, error) {
	f.calls++
	return f.status, f.err
}

type fakeCustomerRepo struct {
	members map[string]*models.User

	saveCustomerCalls int
	saveCustomerErr   error
}

func newFakeCustomerRepo(members ...*models.User) *fakeCustomerRepo {
	repo := &fakeCustomerRepo{members: make(map[string]*models.User)}
	for _, m := range members {
		repo.members[m.ID] = m
	}
	return repo
}

func (f *fakeCustomerRepo) GetMemberByID(_ context.Context, userID string) (*models.User, error) {
	if m, ok := f.members[userID]; ok {
		return m, nil
	}
	return nil, errUserNotFoundForTest
}

func (f *fakeCustomerRepo) GetMemberByEmail(_ context.Context, email string) (*models.User, error) {
	for _, m := range f.members {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, errUserNotFoundForTest
}

func (f *fakeCustomerRepo) SaveMember(_ context.Context, u *models.User) error {
	f.members[u.ID] = u
	return nil
}

func (f *fakeCustomerRepo) GetProfileByID(context.Context, string) (*models.Profile, error) {
	return nil, errUserNotFoundForTest
}

func (f *fakeCustomerRepo) SaveProfile(context.Context, *models.Profile) error {
	return nil
}

func (f *fakeCustomerRepo) SaveCustomer(_ context.Context, c models.Customer) error {
	f.saveCustomerCalls++
	if f.saveCustomerErr != nil {
		return f.saveCustomerErr
	}
	if c.Kind == models.CustomerMember {
		f.members[c.Member.ID] = c.Member
	}
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[string]*models.Tournament
	saveCalls   int
	saveErr     error
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[string]*models.Tournament)}
	for _, t := range tournaments {
		repo.tournaments[t.ArenaID+"/"+t.ID] = t
	}
	return repo
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, arenaID, tournamentID string) (*models.Tournament, error) {
	if t, ok := f.tournaments[arenaID+"/"+tournamentID]; ok {
		return t, nil
	}
	return nil, errTournamentNotFoundForTest
}

func (f *fakeTournamentRepo) ListByArena(_ context.Context, arenaID string) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range f.tournaments {
		if t.ArenaID == arenaID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTournamentRepo) Save(_ context.Context, arenaID string, t *models.Tournament) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.tournaments[arenaID+"/"+t.ID] = t
	return nil
}

type fakeLedgerRepo struct {
	entries []*models.LedgerEntry
}

func (f *fakeLedgerRepo) Append(_ context.Context, _ string, entry *models.LedgerEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedgerRepo) ListByArena(_ context.Context, arenaID string) ([]*models.LedgerEntry, error) {
	return f.entries, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
	err           error
}

func (f *fakeNotificationRepo) Upsert(_ context.Context, n *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.notifications = append(f.notifications, n)
	return nil
}

type fakeHub struct {
	messages []interface{}
	rooms    []string
}

func (f *fakeHub) BroadcastToRoom(roomID string, message interface{}) {
	f.rooms = append(f.rooms, roomID)
	f.messages = append(f.messages, message)
}
