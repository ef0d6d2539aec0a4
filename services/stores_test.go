package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aquadrop/commission_backend/models"
)

// In-memory store fakes mirroring the Mongo repositories' semantics:
// the (earnerId, saleId) uniqueness constraint, compare-and-swap status
// transitions and the submitted-only settlement guard. All methods are
// safe for concurrent use so the race-oriented tests exercise real
// goroutines.

type memPolicyStore struct {
	mu     sync.Mutex
	policy *models.CommissionPolicy
}

func (s *memPolicyStore) Get(ctx context.Context) (*models.CommissionPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == nil {
		return nil, nil
	}
	policy := *s.policy
	return &policy, nil
}

func (s *memPolicyStore) Replace(ctx context.Context, policy models.CommissionPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = &policy
	return nil
}

type memCommissionStore struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*models.CommissionEntry
}

func newMemCommissionStore() *memCommissionStore {
	return &memCommissionStore{entries: make(map[primitive.ObjectID]*models.CommissionEntry)}
}

func (s *memCommissionStore) Insert(ctx context.Context, entry models.CommissionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.entries {
		if existing.EarnerID == entry.EarnerID && existing.SaleID == entry.SaleID {
			return ErrDuplicateSale
		}
	}
	stored := entry
	s.entries[entry.ID] = &stored
	return nil
}

func (s *memCommissionStore) FindBySale(ctx context.Context, earnerID primitive.ObjectID, saleID string) (*models.CommissionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.EarnerID == earnerID && entry.SaleID == saleID {
			found := *entry
			return &found, nil
		}
	}
	return nil, ErrSaleNotFound
}

func (s *memCommissionStore) FindByEarner(ctx context.Context, earnerID primitive.ObjectID, status string, skip, limit int64) ([]models.CommissionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.CommissionEntry
	for _, entry := range s.entries {
		if entry.EarnerID != earnerID {
			continue
		}
		if status != "" && entry.Status != status {
			continue
		}
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if skip > 0 {
		if skip >= int64(len(result)) {
			return nil, nil
		}
		result = result[skip:]
	}
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *memCommissionStore) ClaimPending(ctx context.Context, earnerID, requestID primitive.ObjectID) ([]models.CommissionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var claimed []models.CommissionEntry
	for _, entry := range s.entries {
		if entry.EarnerID == earnerID && entry.Status == models.CommissionStatusPending {
			id := requestID
			entry.Status = models.CommissionStatusRequested
			entry.RequestID = &id
			claimed = append(claimed, *entry)
		}
	}
	return claimed, nil
}

func (s *memCommissionStore) MarkPaid(ctx context.Context, requestID primitive.ObjectID, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.RequestID != nil && *entry.RequestID == requestID && entry.Status == models.CommissionStatusRequested {
			when := paidAt
			entry.Status = models.CommissionStatusPaid
			entry.PaidAt = &when
		}
	}
	return nil
}

func (s *memCommissionStore) ReleaseClaim(ctx context.Context, requestID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.RequestID != nil && *entry.RequestID == requestID && entry.Status == models.CommissionStatusRequested {
			entry.Status = models.CommissionStatusPending
			entry.RequestID = nil
		}
	}
	return nil
}

func (s *memCommissionStore) VoidPending(ctx context.Context, earnerID primitive.ObjectID, saleID string) (*models.CommissionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.EarnerID != earnerID || entry.SaleID != saleID {
			continue
		}
		if entry.Status != models.CommissionStatusPending {
			return nil, ErrEntryNotVoidable
		}
		entry.Status = models.CommissionStatusVoided
		voided := *entry
		return &voided, nil
	}
	return nil, ErrSaleNotFound
}

func (s *memCommissionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type memWithdrawalStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.WithdrawalRequest
}

func newMemWithdrawalStore() *memWithdrawalStore {
	return &memWithdrawalStore{requests: make(map[primitive.ObjectID]*models.WithdrawalRequest)}
}

func (s *memWithdrawalStore) Insert(ctx context.Context, request models.WithdrawalRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := request
	s.requests[request.ID] = &stored
	return nil
}

func (s *memWithdrawalStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	found := *request
	return &found, nil
}

func (s *memWithdrawalStore) FindOutstanding(ctx context.Context, earnerID primitive.ObjectID) (*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, request := range s.requests {
		if request.EarnerID == earnerID && request.Status == models.WithdrawalStatusSubmitted {
			found := *request
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memWithdrawalStore) FindByEarner(ctx context.Context, earnerID primitive.ObjectID) ([]models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.WithdrawalRequest
	for _, request := range s.requests {
		if request.EarnerID == earnerID {
			result = append(result, *request)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	return result, nil
}

func (s *memWithdrawalStore) FindByStatus(ctx context.Context, status string, skip, limit int64) ([]models.WithdrawalRequest, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.WithdrawalRequest
	for _, request := range s.requests {
		if status == "" || request.Status == status {
			result = append(result, *request)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	total := int64(len(result))
	if skip > 0 {
		if skip >= total {
			return nil, total, nil
		}
		result = result[skip:]
	}
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, total, nil
}

func (s *memWithdrawalStore) Settle(ctx context.Context, id primitive.ObjectID, status string, processedAt time.Time, adminID *primitive.ObjectID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	if request.Status != models.WithdrawalStatusSubmitted && request.Status != status {
		return ErrRequestNotSettleable
	}
	when := processedAt
	request.Status = status
	request.ProcessedAt = &when
	request.AdminID = adminID
	request.AdminNote = note
	return nil
}

type memEarnerStore struct {
	mu      sync.Mutex
	earners map[primitive.ObjectID]*models.Earner
}

func newMemEarnerStore() *memEarnerStore {
	return &memEarnerStore{earners: make(map[primitive.ObjectID]*models.Earner)}
}

func (s *memEarnerStore) add(role string) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.earners[id] = &models.Earner{ID: id, Role: role, IsActive: true}
	return id
}

func (s *memEarnerStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Earner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	earner, ok := s.earners[id]
	if !ok {
		return nil, ErrUnknownEarner
	}
	found := *earner
	return &found, nil
}

type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *memLocker) Lock(ctx context.Context, earnerID string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[earnerID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[earnerID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock, nil
}

// testEnv wires the three services over the in-memory stores.
type testEnv struct {
	policies    *PolicyService
	commissions *CommissionService
	withdrawals *WithdrawalService
	policyStore *memPolicyStore
	entryStore  *memCommissionStore
	reqStore    *memWithdrawalStore
	earnerStore *memEarnerStore
}

func newTestEnv() *testEnv {
	policyStore := &memPolicyStore{}
	entryStore := newMemCommissionStore()
	reqStore := newMemWithdrawalStore()
	earnerStore := newMemEarnerStore()

	policies := NewPolicyService(policyStore)
	return &testEnv{
		policies:    policies,
		commissions: NewCommissionService(policies, entryStore, earnerStore),
		withdrawals: NewWithdrawalService(policies, entryStore, reqStore, newMemLocker()),
		policyStore: policyStore,
		entryStore:  entryStore,
		reqStore:    reqStore,
		earnerStore: earnerStore,
	}
}
