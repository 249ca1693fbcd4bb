// Package stub is the in-process stand-in for the platform API. It backs
// demo mode (no UPSTREAM_BASE_URL configured) and the test suite: same
// interfaces, same behavioral contract, no network.
package stub

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"codearena-gateway/internal/domain/competition"
	"codearena-gateway/internal/domain/group"
	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
	xerrors "codearena-gateway/internal/pkg/errors"
	"codearena-gateway/internal/upstream"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// demoOTP is the verification code every demo account accepts.
const demoOTP = "123456"

type account struct {
	identity.Identity
	passwordHash []byte
}

// Provider holds the demo roster, groups and sessions in memory.
type Provider struct {
	mu         sync.RWMutex
	cookieName string

	accounts map[string]*account // by user id
	byEmail  map[string]string   // email -> user id
	creds    map[string]string   // credential value -> user id

	groups  map[string]*group.Group
	members map[string]map[string]bool // group id -> member ids

	competitions map[string]*competition.Competition
	duels        map[string]*competition.Duel

	logger *zap.Logger
}

var (
	_ upstream.IdentityAPI    = (*Provider)(nil)
	_ upstream.GroupAPI       = (*Provider)(nil)
	_ upstream.AdminAPI       = (*Provider)(nil)
	_ upstream.CompetitionAPI = (*Provider)(nil)
)

func NewProvider(cookieName string, logger *zap.Logger) *Provider {
	p := &Provider{
		cookieName:   cookieName,
		accounts:     make(map[string]*account),
		byEmail:      make(map[string]string),
		creds:        make(map[string]string),
		groups:       make(map[string]*group.Group),
		members:      make(map[string]map[string]bool),
		competitions: make(map[string]*competition.Competition),
		duels:        make(map[string]*competition.Duel),
		logger:       logger,
	}
	p.seed()
	return p
}

// ========== IdentityAPI ==========

func (p *Provider) Profile(ctx context.Context, cred credential.Ambient) (*identity.Identity, error) {
	if cred.IsZero() {
		return nil, xerrors.ErrUnauthenticated
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	userID, ok := p.creds[cred.Value]
	if !ok {
		return nil, xerrors.ErrUnauthenticated
	}
	acct, ok := p.accounts[userID]
	if !ok {
		return nil, xerrors.ErrUnauthenticated
	}
	id := acct.Identity
	return &id, nil
}

func (p *Provider) Login(ctx context.Context, email, password string) (*identity.Identity, credential.Ambient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.byEmail[email]
	if !ok {
		return nil, credential.Ambient{}, fmt.Errorf("invalid credentials")
	}
	acct := p.accounts[userID]

	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, credential.Ambient{}, fmt.Errorf("invalid credentials")
	}
	if !acct.Verified {
		return nil, credential.Ambient{}, fmt.Errorf("account not verified")
	}

	token := uuid.NewString()
	p.creds[token] = userID

	id := acct.Identity
	return &id, credential.Ambient{Name: p.cookieName, Value: token}, nil
}

func (p *Provider) Logout(ctx context.Context, cred credential.Ambient) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.creds, cred.Value)
	return nil
}

func (p *Provider) Register(ctx context.Context, username, email, password string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[email]; exists {
		return "", xerrors.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.NewString()
	p.accounts[id] = &account{
		Identity: identity.Identity{
			ID:        id,
			Username:  username,
			Email:     email,
			Role:      identity.RoleUser,
			Verified:  false,
			CreatedAt: time.Now(),
		},
		passwordHash: hash,
	}
	p.byEmail[email] = id

	return "verification code sent to " + email, nil
}

func (p *Provider) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.byEmail[email]
	if !ok || otp != demoOTP {
		return "", fmt.Errorf("invalid or expired OTP")
	}
	p.accounts[userID].Verified = true
	return "account verified", nil
}

func (p *Provider) ResendOTP(ctx context.Context, email string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.byEmail[email]; !ok {
		// Same message either way; no account enumeration.
		return "if the account exists, a code has been sent", nil
	}
	return "if the account exists, a code has been sent", nil
}

func (p *Provider) ForgotPassword(ctx context.Context, email string) (string, error) {
	return "if the account exists, a reset code has been sent", nil
}

func (p *Provider) ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.byEmail[email]
	if !ok || otp != demoOTP {
		return "", fmt.Errorf("invalid or expired OTP")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	p.accounts[userID].passwordHash = hash
	return "password updated", nil
}

// ========== GroupAPI ==========

func (p *Provider) List(ctx context.Context, cred credential.Ambient) ([]group.Group, error) {
	if _, err := p.Profile(ctx, cred); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	groups := make([]group.Group, 0, len(p.groups))
	for _, g := range p.groups {
		if g.Status == group.StatusApproved {
			groups = append(groups, *g)
		}
	}
	sortGroups(groups)
	return groups, nil
}

func (p *Provider) MyGroups(ctx context.Context, cred credential.Ambient) ([]group.Group, error) {
	me, err := p.Profile(ctx, cred)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var groups []group.Group
	for gid, g := range p.groups {
		if p.members[gid][me.ID] || (g.Leader != nil && g.Leader.ID == me.ID) {
			groups = append(groups, *g)
		}
	}
	sortGroups(groups)
	return groups, nil
}

func (p *Provider) Get(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error) {
	if _, err := p.Profile(ctx, cred); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	g, ok := p.groups[groupID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (p *Provider) Create(ctx context.Context, cred credential.Ambient, req group.CreateRequest) (*group.Group, error) {
	me, err := p.Profile(ctx, cred)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	g := &group.Group{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Topics:      req.Topics,
		Leader:      me,
		Status:      group.StatusPending,
		MemberCount: 1,
		CreatedAt:   time.Now(),
	}
	p.groups[g.ID] = g
	p.members[g.ID] = map[string]bool{me.ID: true}

	copied := *g
	return &copied, nil
}

func (p *Provider) Join(ctx context.Context, cred credential.Ambient, groupID string) error {
	me, err := p.Profile(ctx, cred)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	g, ok := p.groups[groupID]
	if !ok {
		return xerrors.ErrNotFound
	}
	if g.Status != group.StatusApproved {
		return fmt.Errorf("group is not open for joining")
	}
	if p.members[groupID] == nil {
		p.members[groupID] = make(map[string]bool)
	}
	if p.members[groupID][me.ID] {
		return xerrors.ErrConflict
	}
	p.members[groupID][me.ID] = true
	g.MemberCount = len(p.members[groupID])
	return nil
}

func (p *Provider) Leave(ctx context.Context, cred credential.Ambient, groupID string) error {
	me, err := p.Profile(ctx, cred)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	g, ok := p.groups[groupID]
	if !ok {
		return xerrors.ErrNotFound
	}
	if !p.members[groupID][me.ID] {
		return xerrors.ErrNotFound
	}
	delete(p.members[groupID], me.ID)
	g.MemberCount = len(p.members[groupID])
	return nil
}

func (p *Provider) IsMember(ctx context.Context, cred credential.Ambient, groupID, userID string) (bool, error) {
	if _, err := p.Profile(ctx, cred); err != nil {
		return false, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.members[groupID][userID], nil
}

// ========== AdminAPI ==========

func (p *Provider) Users(ctx context.Context, cred credential.Ambient, page, limit int) (*upstream.UserPage, error) {
	if err := p.requireAdmin(ctx, cred); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	all := make([]identity.Identity, 0, len(p.accounts))
	for _, acct := range p.accounts {
		all = append(all, acct.Identity)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	totalPages := (len(all) + limit - 1) / limit
	return &upstream.UserPage{
		Users:      all[start:end],
		Page:       page,
		Limit:      limit,
		Total:      len(all),
		TotalPages: totalPages,
	}, nil
}

func (p *Provider) PendingGroups(ctx context.Context, cred credential.Ambient) ([]group.Group, error) {
	if err := p.requireAdmin(ctx, cred); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var pending []group.Group
	for _, g := range p.groups {
		if g.Status == group.StatusPending {
			pending = append(pending, *g)
		}
	}
	sortGroups(pending)
	return pending, nil
}

func (p *Provider) ApproveGroup(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error) {
	return p.moderateGroup(ctx, cred, groupID, group.StatusApproved)
}

func (p *Provider) RejectGroup(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error) {
	return p.moderateGroup(ctx, cred, groupID, group.StatusRejected)
}

func (p *Provider) moderateGroup(ctx context.Context, cred credential.Ambient, groupID string, status group.Status) (*group.Group, error) {
	if err := p.requireAdmin(ctx, cred); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	g, ok := p.groups[groupID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	if g.Status != group.StatusPending {
		return nil, fmt.Errorf("group has already been moderated")
	}
	g.Status = status

	copied := *g
	return &copied, nil
}

// ========== CompetitionAPI ==========

func (p *Provider) CreateCompetition(ctx context.Context, cred credential.Ambient, req competition.CreateCompetitionRequest) (*competition.Competition, error) {
	if _, err := p.Profile(ctx, cred); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.groups[req.GroupID]; !ok {
		return nil, xerrors.ErrNotFound
	}

	comp := &competition.Competition{
		ID:              uuid.NewString(),
		GroupID:         req.GroupID,
		Title:           req.Title,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Problems:        req.Problems,
		CreatedAt:       time.Now(),
	}
	p.competitions[comp.ID] = comp

	copied := *comp
	return &copied, nil
}

func (p *Provider) CreateDuel(ctx context.Context, cred credential.Ambient, req competition.CreateDuelRequest) (*competition.Duel, error) {
	me, err := p.Profile(ctx, cred)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[req.OpponentID]; !ok {
		return nil, xerrors.ErrNotFound
	}

	duel := &competition.Duel{
		ID:           uuid.NewString(),
		GroupID:      req.GroupID,
		ChallengerID: me.ID,
		OpponentID:   req.OpponentID,
		Difficulty:   req.Difficulty,
		Status:       "WAITING",
		CreatedAt:    time.Now(),
	}
	p.duels[duel.ID] = duel

	copied := *duel
	return &copied, nil
}

// ========== Helpers ==========

func (p *Provider) requireAdmin(ctx context.Context, cred credential.Ambient) error {
	me, err := p.Profile(ctx, cred)
	if err != nil {
		return err
	}
	if me.Role != identity.RoleAdmin {
		return xerrors.ErrForbidden
	}
	return nil
}

func sortGroups(groups []group.Group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
}
