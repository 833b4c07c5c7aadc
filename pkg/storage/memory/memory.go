// Package memory provides an in-memory storage.Storage for tests and local development.
package memory

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// Store keeps every record in maps guarded by a single mutex.
// Units of work hold the write lock for their whole duration and roll back from a snapshot on error.
type Store struct {
	mu           sync.RWMutex
	members      map[string]models.Member
	transactions map[string]models.Transaction
	tournaments  map[string]models.Tournament
	tourCards    map[string]models.TourCard
	teams        map[string]models.Team
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		members:      make(map[string]models.Member),
		transactions: make(map[string]models.Transaction),
		tournaments:  make(map[string]models.Tournament),
		tourCards:    make(map[string]models.TourCard),
		teams:        make(map[string]models.Team),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// PutMember inserts or replaces a member record as-is.
func (s *Store) PutMember(m models.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.Id] = m
}

// PutTransaction inserts or replaces a transaction record as-is, without touching any balance.
// It is meant for seeding legacy and drifted data.
func (s *Store) PutTransaction(tx models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.Id] = tx
}

func (s *Store) PutTournament(t models.Tournament) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments[t.Id] = t
}

func (s *Store) PutTourCard(c models.TourCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tourCards[c.Id] = c
}

func (s *Store) PutTeam(t models.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.Id] = t
}

func (s *Store) GetMember(_ context.Context, memberID string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMemberLocked(memberID)
}

func (s *Store) getMemberLocked(memberID string) (*models.Member, error) {
	m, ok := s.members[memberID]
	if !ok {
		return nil, storage.MemberNotFound(memberID)
	}
	return &m, nil
}

func (s *Store) GetMemberByExternalID(_ context.Context, externalID string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ExternalId == externalID {
			m := m
			return &m, nil
		}
	}
	return nil, &storage.NotFoundError{Entity: "member", ID: externalID}
}

func (s *Store) ListMembers(_ context.Context) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]models.Member, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Id < members[j].Id })
	return members, nil
}

func (s *Store) GetTransaction(_ context.Context, txID string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getTransactionLocked(txID)
}

func (s *Store) getTransactionLocked(txID string) (*models.Transaction, error) {
	tx, ok := s.transactions[txID]
	if !ok {
		return nil, storage.TransactionNotFound(txID)
	}
	return &tx, nil
}

func (s *Store) ListTransactions(_ context.Context, filter storage.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(filter), nil
}

// filterLocked returns matching transactions ordered by creation time, then ID.
func (s *Store) filterLocked(filter storage.TransactionFilter) []models.Transaction {
	var txs []models.Transaction
	for _, tx := range s.transactions {
		if filter.Matches(&tx) {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		}
		return txs[i].Id < txs[j].Id
	})
	return txs
}

func (s *Store) ListTransactionsPage(_ context.Context, filter storage.TransactionFilter, page storage.Page) (*storage.TransactionPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offset, err := decodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	txs := s.filterLocked(filter)
	if offset > len(txs) {
		offset = len(txs)
	}
	end := len(txs)
	if page.Limit > 0 && offset+int(page.Limit) < end {
		end = offset + int(page.Limit)
	}

	result := &storage.TransactionPage{Transactions: txs[offset:end]}
	if end < len(txs) {
		result.NextCursor = encodeCursor(end)
	}
	return result, nil
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor: %w", err)
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	return offset, nil
}

func (s *Store) ListUnassignedTransactions(_ context.Context, limit int32) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var txs []models.Transaction
	for _, tx := range s.filterLocked(storage.TransactionFilter{}) {
		if tx.MemberId == "" && tx.ExternalUserId != "" {
			txs = append(txs, tx)
			if limit > 0 && int32(len(txs)) == limit {
				break
			}
		}
	}
	return txs, nil
}

func (s *Store) ListTournamentsBySeason(_ context.Context, seasonID string) ([]models.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Tournament
	for _, t := range s.tournaments {
		if t.SeasonId == seasonID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].Id < out[j].Id
	})
	return out, nil
}

func (s *Store) ListTourCardsBySeason(_ context.Context, seasonID string) ([]models.TourCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TourCard
	for _, c := range s.tourCards {
		if c.SeasonId == seasonID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (s *Store) ListTeamsByTournament(_ context.Context, tournamentID string) ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Team
	for _, t := range s.teams {
		if t.TournamentId == tournamentID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

// WithTx executes fn within a unit of work.
// For the memory store this is simulated with a snapshot and a rollback on error.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, &txView{parent: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	members      map[string]models.Member
	transactions map[string]models.Transaction
	tourCards    map[string]models.TourCard
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		members:      make(map[string]models.Member, len(s.members)),
		transactions: make(map[string]models.Transaction, len(s.transactions)),
		tourCards:    make(map[string]models.TourCard, len(s.tourCards)),
	}
	for k, v := range s.members {
		snap.members[k] = v
	}
	for k, v := range s.transactions {
		snap.transactions[k] = v
	}
	for k, v := range s.tourCards {
		snap.tourCards[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.members = snap.members
	s.transactions = snap.transactions
	s.tourCards = snap.tourCards
}

// txView is the storage.Tx handed to a unit of work. The parent's write lock is already held.
type txView struct {
	parent *Store
}

func (v *txView) GetMember(_ context.Context, memberID string) (*models.Member, error) {
	return v.parent.getMemberLocked(memberID)
}

func (v *txView) GetTransaction(_ context.Context, txID string) (*models.Transaction, error) {
	return v.parent.getTransactionLocked(txID)
}

func (v *txView) ListTransactionsByMember(_ context.Context, memberID string) ([]models.Transaction, error) {
	return v.parent.filterLocked(storage.TransactionFilter{MemberID: memberID}), nil
}

func (v *txView) ListTourCardsByMember(_ context.Context, memberID string) ([]models.TourCard, error) {
	var out []models.TourCard
	for _, c := range v.parent.tourCards {
		if c.MemberId == memberID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (v *txView) PutTransaction(_ context.Context, tx *models.Transaction) error {
	if _, exists := v.parent.transactions[tx.Id]; exists {
		return fmt.Errorf("transaction %s already exists: %w", tx.Id, storage.ErrConcurrentModification)
	}
	tx.Version = 1
	v.parent.transactions[tx.Id] = *tx
	return nil
}

func (v *txView) UpdateTransaction(_ context.Context, tx *models.Transaction) error {
	current, ok := v.parent.transactions[tx.Id]
	if !ok {
		return storage.TransactionNotFound(tx.Id)
	}
	if current.Version != tx.Version {
		return storage.ErrConcurrentModification
	}
	tx.Version++
	v.parent.transactions[tx.Id] = *tx
	return nil
}

func (v *txView) DeleteTransaction(_ context.Context, txID string) error {
	if _, ok := v.parent.transactions[txID]; !ok {
		return storage.TransactionNotFound(txID)
	}
	delete(v.parent.transactions, txID)
	return nil
}

func (v *txView) AdjustMemberAccount(_ context.Context, memberID string, delta int64, at time.Time) error {
	m, ok := v.parent.members[memberID]
	if !ok {
		return storage.MemberNotFound(memberID)
	}
	account, ok := storage.AddCents(m.Account, delta)
	if !ok {
		return fmt.Errorf("member %s: %w", memberID, storage.ErrAccountOverflow)
	}
	m.Account = account
	m.UpdatedAt = at
	m.Version++
	v.parent.members[memberID] = m
	return nil
}

// LockMember only checks existence; the unit already holds the store-wide lock.
func (v *txView) LockMember(_ context.Context, memberID string) error {
	if _, ok := v.parent.members[memberID]; !ok {
		return storage.MemberNotFound(memberID)
	}
	return nil
}

func (v *txView) DeleteMember(_ context.Context, memberID string) error {
	if _, ok := v.parent.members[memberID]; !ok {
		return storage.MemberNotFound(memberID)
	}
	delete(v.parent.members, memberID)
	return nil
}

func (v *txView) UpdateTourCard(_ context.Context, card *models.TourCard) error {
	current, ok := v.parent.tourCards[card.Id]
	if !ok {
		return &storage.NotFoundError{Entity: "tour card", ID: card.Id}
	}
	if current.Version != card.Version {
		return storage.ErrConcurrentModification
	}
	card.Version++
	v.parent.tourCards[card.Id] = *card
	return nil
}

func (v *txView) DeleteTourCard(_ context.Context, cardID string) error {
	if _, ok := v.parent.tourCards[cardID]; !ok {
		return &storage.NotFoundError{Entity: "tour card", ID: cardID}
	}
	delete(v.parent.tourCards, cardID)
	return nil
}
