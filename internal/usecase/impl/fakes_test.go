package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"crm/config"
	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(requireConfirmation bool) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:               4,
			RequireEmailConfirmation: requireConfirmation,
			SiteURL:                  "http://test.local",
			CallbackRetryAttempts:    2,
			CallbackRetryInterval:    20 * time.Millisecond,
			RedirectDelay:            time.Second,
		},
	}
}

// --- repository fakes ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
	calls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if user, ok := r.users[id]; ok {
		clone := *user

		return &clone, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, user := range r.users {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) MarkEmailConfirmed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if user, ok := r.users[id]; ok && user.EmailConfirmedAt == nil {
		now := time.Now()
		user.EmailConfirmedAt = &now
	}

	return nil
}

type fakeAuthRepo struct {
	mu            sync.Mutex
	credentials   map[string]*entity.Credential
	refreshTokens map[string]*entity.RefreshToken
	exchangeCodes map[string]*entity.ExchangeCode
	calls         int
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		credentials:   make(map[string]*entity.Credential),
		refreshTokens: make(map[string]*entity.RefreshToken),
		exchangeCodes: make(map[string]*entity.ExchangeCode),
	}
}

func credentialKey(provider, providerUserID string) string {
	return provider + "/" + providerUserID
}

func (r *fakeAuthRepo) FindCredential(_ context.Context, provider, providerUserID string) (*entity.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if cred, ok := r.credentials[credentialKey(provider, providerUserID)]; ok {
		clone := *cred

		return &clone, nil
	}

	return nil, repository.ErrCredentialNotFound
}

func (r *fakeAuthRepo) CreateCredential(_ context.Context, cred *entity.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	cred.ID = uuid.New()
	cred.CreatedAt = time.Now()
	clone := *cred
	r.credentials[credentialKey(cred.Provider, cred.ProviderUserID)] = &clone

	return nil
}

func (r *fakeAuthRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	clone := *token
	r.refreshTokens[token.TokenHash] = &clone

	return nil
}

func (r *fakeAuthRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	token, ok := r.refreshTokens[tokenHash]
	if !ok || token.Expired(time.Now()) {
		return nil, repository.ErrRefreshTokenNotFound
	}
	clone := *token

	return &clone, nil
}

func (r *fakeAuthRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	delete(r.refreshTokens, tokenHash)

	return nil
}

func (r *fakeAuthRepo) CreateExchangeCode(_ context.Context, code *entity.ExchangeCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	code.ID = uuid.New()
	code.CreatedAt = time.Now()
	clone := *code
	r.exchangeCodes[code.CodeHash] = &clone

	return nil
}

func (r *fakeAuthRepo) ConsumeExchangeCode(_ context.Context, codeHash string) (*entity.ExchangeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	code, ok := r.exchangeCodes[codeHash]
	if !ok {
		return nil, repository.ErrExchangeCodeNotFound
	}
	if !code.Usable(time.Now()) {
		return nil, repository.ErrExchangeCodeConsumed
	}
	now := time.Now()
	code.UsedAt = &now
	clone := *code

	return &clone, nil
}

type fakeBusinessRepo struct {
	mu          sync.Mutex
	businesses  map[uuid.UUID]*entity.Business // keyed by owning user id
	failCreate  error
	missOnce    bool // next FindByUserID misses even when the row exists
	createCalls int
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: make(map[uuid.UUID]*entity.Business)}
}

func (r *fakeBusinessRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missOnce {
		r.missOnce = false

		return nil, repository.ErrBusinessNotFound
	}
	if business, ok := r.businesses[userID]; ok {
		clone := *business

		return &clone, nil
	}

	return nil, repository.ErrBusinessNotFound
}

func (r *fakeBusinessRepo) Create(_ context.Context, business *entity.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.failCreate != nil {
		return r.failCreate
	}
	if _, ok := r.businesses[business.UserID]; ok {
		return repository.ErrBusinessExists
	}
	business.ID = uuid.New()
	business.CreatedAt = time.Now()
	business.UpdatedAt = business.CreatedAt
	clone := *business
	r.businesses[business.UserID] = &clone

	return nil
}

func (r *fakeBusinessRepo) Update(_ context.Context, business *entity.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.businesses[business.UserID]
	if !ok || existing.ID != business.ID {
		return repository.ErrBusinessNotFound
	}
	clone := *business
	clone.UpdatedAt = time.Now()
	r.businesses[business.UserID] = &clone

	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Customer
	for _, customer := range r.customers {
		if customer.BusinessID == businessID {
			clone := *customer
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok || customer.BusinessID != businessID {
		return nil, repository.ErrCustomerNotFound
	}
	clone := *customer

	return &clone, nil
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = uuid.New()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	clone := *customer
	r.customers[customer.ID] = &clone

	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.customers[customer.ID]
	if !ok || existing.BusinessID != customer.BusinessID {
		return repository.ErrCustomerNotFound
	}
	clone := *customer
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	r.customers[customer.ID] = &clone

	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, businessID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok || customer.BusinessID != businessID {
		return repository.ErrCustomerNotFound
	}
	delete(r.customers, id)

	return nil
}

func (r *fakeCustomerRepo) CountByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	customers, _ := r.ListByBusiness(ctx, businessID)

	return int64(len(customers)), nil
}

type fakeDealRepo struct {
	mu    sync.Mutex
	deals map[uuid.UUID]*entity.Deal
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: make(map[uuid.UUID]*entity.Deal)}
}

func (r *fakeDealRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Deal
	for _, deal := range r.deals {
		if deal.BusinessID == businessID {
			clone := *deal
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeDealRepo) ListByCustomer(_ context.Context, businessID, customerID uuid.UUID) ([]*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Deal
	for _, deal := range r.deals {
		if deal.BusinessID == businessID && deal.CustomerID != nil && *deal.CustomerID == customerID {
			clone := *deal
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeDealRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deal, ok := r.deals[id]
	if !ok || deal.BusinessID != businessID {
		return nil, repository.ErrDealNotFound
	}
	clone := *deal

	return &clone, nil
}

func (r *fakeDealRepo) Create(_ context.Context, deal *entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	deal.ID = uuid.New()
	deal.CreatedAt = time.Now()
	deal.UpdatedAt = deal.CreatedAt
	clone := *deal
	r.deals[deal.ID] = &clone

	return nil
}

func (r *fakeDealRepo) Update(_ context.Context, deal *entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.deals[deal.ID]
	if !ok || existing.BusinessID != deal.BusinessID {
		return repository.ErrDealNotFound
	}
	clone := *deal
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	r.deals[deal.ID] = &clone

	return nil
}

func (r *fakeDealRepo) Delete(_ context.Context, businessID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	deal, ok := r.deals[id]
	if !ok || deal.BusinessID != businessID {
		return repository.ErrDealNotFound
	}
	delete(r.deals, id)

	return nil
}

func (r *fakeDealRepo) CountByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	deals, _ := r.ListByBusiness(ctx, businessID)

	return int64(len(deals)), nil
}

func (r *fakeDealRepo) SumWonValueByBusiness(ctx context.Context, businessID uuid.UUID) (float64, error) {
	deals, _ := r.ListByBusiness(ctx, businessID)
	var total float64
	for _, deal := range deals {
		if deal.Stage == entity.DealStageWon {
			total += deal.Value
		}
	}

	return total, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*entity.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[uuid.UUID]*entity.Ticket)}
}

func (r *fakeTicketRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entity.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Ticket
	for _, ticket := range r.tickets {
		if ticket.BusinessID == businessID {
			clone := *ticket
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeTicketRepo) ListByCustomer(_ context.Context, businessID, customerID uuid.UUID) ([]*entity.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Ticket
	for _, ticket := range r.tickets {
		if ticket.BusinessID == businessID && ticket.CustomerID != nil && *ticket.CustomerID == customerID {
			clone := *ticket
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeTicketRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*entity.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.BusinessID != businessID {
		return nil, repository.ErrTicketNotFound
	}
	clone := *ticket

	return &clone, nil
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *entity.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = uuid.New()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone

	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *entity.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tickets[ticket.ID]
	if !ok || existing.BusinessID != ticket.BusinessID {
		return repository.ErrTicketNotFound
	}
	clone := *ticket
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = &clone

	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, businessID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.BusinessID != businessID {
		return repository.ErrTicketNotFound
	}
	delete(r.tickets, id)

	return nil
}

func (r *fakeTicketRepo) CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	tickets, _ := r.ListByBusiness(ctx, businessID)
	var count int64
	for _, ticket := range tickets {
		if ticket.Status.Active() {
			count++
		}
	}

	return count, nil
}

// fakeTxManager runs the callback against a factory backed by the fakes,
// without any transactional behavior.
type fakeTxManager struct {
	factory *fakeRepositoryFactory
}

type fakeRepositoryFactory struct {
	userRepo     *fakeUserRepo
	authRepo     *fakeAuthRepo
	businessRepo *fakeBusinessRepo
	customerRepo *fakeCustomerRepo
	dealRepo     *fakeDealRepo
	ticketRepo   *fakeTicketRepo
}

func (f *fakeRepositoryFactory) Users() repository.UserRepository         { return f.userRepo }
func (f *fakeRepositoryFactory) Auth() repository.AuthRepository          { return f.authRepo }
func (f *fakeRepositoryFactory) Businesses() repository.BusinessRepository { return f.businessRepo }
func (f *fakeRepositoryFactory) Customers() repository.CustomerRepository { return f.customerRepo }
func (f *fakeRepositoryFactory) Deals() repository.DealRepository         { return f.dealRepo }
func (f *fakeRepositoryFactory) Tickets() repository.TicketRepository     { return f.ticketRepo }

func (m *fakeTxManager) Execute(_ context.Context, fn func(repos repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// --- service fakes ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

// fakeTokenService issues sequence-numbered tokens and remembers which user
// each one belongs to.
type fakeTokenService struct {
	mu      sync.Mutex
	seq     int
	access  map[string]uuid.UUID
	refresh map[string]uuid.UUID
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{
		access:  make(map[string]uuid.UUID),
		refresh: make(map[string]uuid.UUID),
	}
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	accessToken := fmt.Sprintf("access-%d", s.seq)
	refreshToken := fmt.Sprintf("refresh-%d", s.seq)
	s.access[accessToken] = userID
	s.refresh[refreshToken] = userID

	return accessToken, refreshToken, nil
}

func (s *fakeTokenService) ValidateAccessToken(token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID, ok := s.access[token]; ok {
		return userID, nil
	}

	return uuid.Nil, fmt.Errorf("unknown access token")
}

func (s *fakeTokenService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID, ok := s.refresh[token]; ok {
		return userID, nil
	}

	return uuid.Nil, fmt.Errorf("unknown refresh token")
}

func (s *fakeTokenService) AccessTokenDuration() time.Duration  { return 15 * time.Minute }
func (s *fakeTokenService) RefreshTokenDuration() time.Duration { return 7 * 24 * time.Hour }

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})

	return nil
}

func (m *fakeMailer) messages() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]sentMail(nil), m.sent...)
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []*service.AuthEvent
}

func (p *fakeEventPublisher) PublishAuthEvent(_ context.Context, event *service.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *fakeEventPublisher) Close() error { return nil }

func (p *fakeEventPublisher) published() []*service.AuthEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*service.AuthEvent(nil), p.events...)
}

type fakeTextGenerator struct {
	mu      sync.Mutex
	reply   string
	fail    error
	prompts []string
}

func (g *fakeTextGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.fail != nil {
		return "", g.fail
	}

	return g.reply, nil
}
