package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// WithTx runs fn against a unit of work and commits every staged write with a single
// TransactWriteItems call. Each write is conditioned on the version observed when the item was
// read, so a unit that raced with another writer fails with storage.ErrConcurrentModification
// and leaves nothing behind.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	uow := &unitOfWork{
		store:        s,
		members:      make(map[string]*memberEntry),
		transactions: make(map[string]*transactionEntry),
		tourCards:    make(map[string]*tourCardEntry),
	}
	if err := fn(ctx, uow); err != nil {
		return err
	}
	return uow.commit(ctx)
}

type memberEntry struct {
	observed  models.Member
	delta     int64
	updatedAt time.Time
	touched   bool
	deleted   bool
}

// transactionEntry tracks one transaction. observed is nil for rows created in this unit;
// staged is nil until the row is written.
type transactionEntry struct {
	observed *models.Transaction
	staged   *models.Transaction
	deleted  bool
}

func (e *transactionEntry) current() *models.Transaction {
	if e.staged != nil {
		return e.staged
	}
	return e.observed
}

type tourCardEntry struct {
	observed models.TourCard
	staged   *models.TourCard
	deleted  bool
}

func (e *tourCardEntry) current() *models.TourCard {
	if e.staged != nil {
		return e.staged
	}
	return &e.observed
}

type unitOfWork struct {
	store        *Store
	members      map[string]*memberEntry
	transactions map[string]*transactionEntry
	tourCards    map[string]*tourCardEntry
}

func (u *unitOfWork) member(ctx context.Context, memberID string) (*memberEntry, error) {
	if e, ok := u.members[memberID]; ok {
		if e.deleted {
			return nil, storage.MemberNotFound(memberID)
		}
		return e, nil
	}
	m, err := u.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	e := &memberEntry{observed: *m}
	u.members[memberID] = e
	return e, nil
}

func (u *unitOfWork) transaction(ctx context.Context, txID string) (*transactionEntry, error) {
	if e, ok := u.transactions[txID]; ok {
		if e.deleted {
			return nil, storage.TransactionNotFound(txID)
		}
		return e, nil
	}
	tx, err := u.store.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	e := &transactionEntry{observed: tx}
	u.transactions[txID] = e
	return e, nil
}

func (u *unitOfWork) tourCard(ctx context.Context, cardID string) (*tourCardEntry, error) {
	if e, ok := u.tourCards[cardID]; ok {
		if e.deleted {
			return nil, &storage.NotFoundError{Entity: "tour card", ID: cardID}
		}
		return e, nil
	}
	key, err := attributevalue.MarshalMap(map[string]string{"id": cardID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tour card ID: %w", err)
	}
	result, err := u.store.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(u.store.TourCardsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tour card from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, &storage.NotFoundError{Entity: "tour card", ID: cardID}
	}
	var card models.TourCard
	if err := attributevalue.UnmarshalMap(result.Item, &card); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tour card: %w", err)
	}
	e := &tourCardEntry{observed: card}
	u.tourCards[cardID] = e
	return e, nil
}

func (u *unitOfWork) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	e, err := u.member(ctx, memberID)
	if err != nil {
		return nil, err
	}
	m := e.observed
	m.Account += e.delta
	if !e.updatedAt.IsZero() {
		m.UpdatedAt = e.updatedAt
	}
	return &m, nil
}

func (u *unitOfWork) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	e, err := u.transaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	tx := *e.current()
	return &tx, nil
}

// ListTransactionsByMember merges a consistent read of the member's rows with the writes staged
// in this unit.
func (u *unitOfWork) ListTransactionsByMember(ctx context.Context, memberID string) ([]models.Transaction, error) {
	var listed []models.Transaction
	if err := u.scanByMember(ctx, u.store.TransactionsTableName, memberID, &listed); err != nil {
		return nil, fmt.Errorf("failed to list member transactions: %w", err)
	}

	seen := make(map[string]bool, len(listed))
	var out []models.Transaction
	for _, tx := range listed {
		seen[tx.Id] = true
		e, ok := u.transactions[tx.Id]
		if !ok {
			observed := tx
			u.transactions[tx.Id] = &transactionEntry{observed: &observed}
			out = append(out, tx)
			continue
		}
		if e.deleted {
			continue
		}
		if cur := e.current(); cur.MemberId == memberID {
			out = append(out, *cur)
		}
	}
	for id, e := range u.transactions {
		if seen[id] || e.deleted {
			continue
		}
		if cur := e.current(); cur.MemberId == memberID {
			out = append(out, *cur)
		}
	}
	sortTransactions(out)

	return out, nil
}

// ListTourCardsByMember merges a consistent read of the member's tour cards with the writes staged
// in this unit.
func (u *unitOfWork) ListTourCardsByMember(ctx context.Context, memberID string) ([]models.TourCard, error) {
	var listed []models.TourCard
	if err := u.scanByMember(ctx, u.store.TourCardsTableName, memberID, &listed); err != nil {
		return nil, fmt.Errorf("failed to list member tour cards: %w", err)
	}

	seen := make(map[string]bool, len(listed))
	var out []models.TourCard
	for _, card := range listed {
		seen[card.Id] = true
		e, ok := u.tourCards[card.Id]
		if !ok {
			u.tourCards[card.Id] = &tourCardEntry{observed: card}
			out = append(out, card)
			continue
		}
		if e.deleted {
			continue
		}
		if cur := e.current(); cur.MemberId == memberID {
			out = append(out, *cur)
		}
	}
	for id, e := range u.tourCards {
		if seen[id] || e.deleted {
			continue
		}
		if cur := e.current(); cur.MemberId == memberID {
			out = append(out, *cur)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })

	return out, nil
}

// scanByMember reads every item in table owned by memberID. The member indexes are only eventually
// consistent, and a unit deciding on a balance has to see rows committed just before it started.
func (u *unitOfWork) scanByMember(ctx context.Context, table, memberID string, out any) error {
	items, err := u.store.scanAll(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(table),
		ConsistentRead:   aws.Bool(true),
		FilterExpression: aws.String("member_id = :member_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":member_id": &types.AttributeValueMemberS{Value: memberID},
		},
	})
	if err != nil {
		return err
	}
	return attributevalue.UnmarshalListOfMaps(items, out)
}

func (u *unitOfWork) PutTransaction(_ context.Context, tx *models.Transaction) error {
	if _, ok := u.transactions[tx.Id]; ok {
		return fmt.Errorf("transaction %s already exists: %w", tx.Id, storage.ErrConcurrentModification)
	}
	tx.Version = 1
	staged := *tx
	u.transactions[tx.Id] = &transactionEntry{staged: &staged}
	return nil
}

func (u *unitOfWork) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	e, err := u.transaction(ctx, tx.Id)
	if err != nil {
		return err
	}
	if e.current().Version != tx.Version {
		return storage.ErrConcurrentModification
	}
	if e.observed != nil {
		tx.Version = e.observed.Version + 1
	}
	staged := *tx
	e.staged = &staged
	return nil
}

func (u *unitOfWork) DeleteTransaction(ctx context.Context, txID string) error {
	e, err := u.transaction(ctx, txID)
	if err != nil {
		return err
	}
	if e.observed == nil {
		delete(u.transactions, txID)
		return nil
	}
	e.staged = nil
	e.deleted = true
	return nil
}

func (u *unitOfWork) AdjustMemberAccount(ctx context.Context, memberID string, delta int64, at time.Time) error {
	e, err := u.member(ctx, memberID)
	if err != nil {
		return err
	}
	total, ok := storage.AddCents(e.delta, delta)
	if ok {
		_, ok = storage.AddCents(e.observed.Account, total)
	}
	if !ok {
		return fmt.Errorf("member %s: %w", memberID, storage.ErrAccountOverflow)
	}
	e.delta = total
	e.updatedAt = at
	e.touched = true
	return nil
}

// LockMember bumps the member's version on commit, so two units locking the same member
// cannot both succeed.
func (u *unitOfWork) LockMember(ctx context.Context, memberID string) error {
	e, err := u.member(ctx, memberID)
	if err != nil {
		return err
	}
	e.touched = true
	return nil
}

func (u *unitOfWork) DeleteMember(ctx context.Context, memberID string) error {
	e, err := u.member(ctx, memberID)
	if err != nil {
		return err
	}
	e.deleted = true
	return nil
}

func (u *unitOfWork) UpdateTourCard(ctx context.Context, card *models.TourCard) error {
	e, err := u.tourCard(ctx, card.Id)
	if err != nil {
		return err
	}
	if e.current().Version != card.Version {
		return storage.ErrConcurrentModification
	}
	card.Version = e.observed.Version + 1
	staged := *card
	e.staged = &staged
	return nil
}

func (u *unitOfWork) DeleteTourCard(ctx context.Context, cardID string) error {
	e, err := u.tourCard(ctx, cardID)
	if err != nil {
		return err
	}
	e.staged = nil
	e.deleted = true
	return nil
}

func (u *unitOfWork) commit(ctx context.Context) error {
	items, err := u.writeItems()
	if err != nil {
		return err
	}
	if !hasWrites(items) {
		return nil
	}
	if len(items) > maxTransactWriteItems {
		return fmt.Errorf("%d writes staged: %w", len(items), storage.ErrUnitTooLarge)
	}

	_, err = u.store.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if aws.ToString(reason.Code) == conditionalCheckFailedCode {
					return fmt.Errorf("failed to commit unit of work: %w", storage.ErrConcurrentModification)
				}
			}
		}
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return nil
}

// hasWrites reports whether items change anything. Condition checks alone are not worth a round trip.
func hasWrites(items []types.TransactWriteItem) bool {
	for _, item := range items {
		if item.ConditionCheck == nil {
			return true
		}
	}
	return false
}

// writeItems renders the staged writes in a deterministic order: members, transactions, tour cards,
// each sorted by ID. A member that was only read still gets a condition check, so the unit fails
// if the member was deleted or changed underneath it.
func (u *unitOfWork) writeItems() ([]types.TransactWriteItem, error) {
	var items []types.TransactWriteItem

	for _, id := range sortedKeys(u.members) {
		e := u.members[id]
		key := idKey(id)
		cond, values := memberCondition(e.observed.Version)
		switch {
		case e.deleted:
			items = append(items, types.TransactWriteItem{
				Delete: &types.Delete{
					TableName:                 aws.String(u.store.MembersTableName),
					Key:                       key,
					ConditionExpression:       aws.String(cond),
					ExpressionAttributeValues: values,
				},
			})
		case e.touched:
			update := "SET #account = if_not_exists(#account, :zero) + :delta, version = if_not_exists(version, :zero) + :inc"
			values[":delta"] = numberValue(e.delta)
			values[":zero"] = numberValue(0)
			values[":inc"] = numberValue(1)
			if !e.updatedAt.IsZero() {
				nowAV, err := attributevalue.Marshal(e.updatedAt)
				if err != nil {
					return nil, fmt.Errorf("failed to marshal member timestamp: %w", err)
				}
				values[":now"] = nowAV
				update += ", updated_at = :now"
			}
			items = append(items, types.TransactWriteItem{
				Update: &types.Update{
					TableName:                 aws.String(u.store.MembersTableName),
					Key:                       key,
					UpdateExpression:          aws.String(update),
					ConditionExpression:       aws.String(cond),
					ExpressionAttributeNames:  map[string]string{"#account": "account"},
					ExpressionAttributeValues: values,
				},
			})
		default:
			items = append(items, types.TransactWriteItem{
				ConditionCheck: &types.ConditionCheck{
					TableName:                 aws.String(u.store.MembersTableName),
					Key:                       key,
					ConditionExpression:       aws.String(cond),
					ExpressionAttributeValues: values,
				},
			})
		}
	}

	for _, id := range sortedKeys(u.transactions) {
		e := u.transactions[id]
		var observedVersion *int64
		if e.observed != nil {
			observedVersion = &e.observed.Version
		}
		var staged any
		if e.staged != nil {
			staged = e.staged
		}
		item, err := u.itemWrite(u.store.TransactionsTableName, id, e.deleted, staged, observedVersion)
		if err != nil {
			return nil, fmt.Errorf("failed to stage transaction %s: %w", id, err)
		}
		if item != nil {
			items = append(items, *item)
		}
	}

	for _, id := range sortedKeys(u.tourCards) {
		e := u.tourCards[id]
		var staged any
		if e.staged != nil {
			staged = e.staged
		}
		item, err := u.itemWrite(u.store.TourCardsTableName, id, e.deleted, staged, &e.observed.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to stage tour card %s: %w", id, err)
		}
		if item != nil {
			items = append(items, *item)
		}
	}

	return items, nil
}

// itemWrite renders a put or delete for an item keyed by id. A nil observedVersion means the item
// is new and must not exist yet.
func (u *unitOfWork) itemWrite(table, id string, deleted bool, staged any, observedVersion *int64) (*types.TransactWriteItem, error) {
	if deleted {
		cond, values := versionCondition(*observedVersion)
		return &types.TransactWriteItem{
			Delete: &types.Delete{
				TableName:                 aws.String(table),
				Key:                       idKey(id),
				ConditionExpression:       aws.String(cond),
				ExpressionAttributeValues: values,
			},
		}, nil
	}
	if staged == nil {
		return nil, nil
	}

	av, err := attributevalue.MarshalMap(staged)
	if err != nil {
		return nil, err
	}
	put := &types.Put{
		TableName:           aws.String(table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}
	if observedVersion != nil {
		cond, values := versionCondition(*observedVersion)
		put.ConditionExpression = aws.String(cond)
		put.ExpressionAttributeValues = values
	}
	return &types.TransactWriteItem{Put: put}, nil
}

// versionCondition pins an item to the version read in this unit. Rows written before versioning
// existed have no version attribute and are observed as version 0.
func versionCondition(version int64) (string, map[string]types.AttributeValue) {
	values := map[string]types.AttributeValue{":version": numberValue(version)}
	if version == 0 {
		return "attribute_not_exists(version) OR version = :version", values
	}
	return "version = :version", values
}

// memberCondition is versionCondition plus existence. The update path would otherwise recreate a
// member deleted since it was read.
func memberCondition(version int64) (string, map[string]types.AttributeValue) {
	cond, values := versionCondition(version)
	if version == 0 {
		cond = "(" + cond + ")"
	}
	return "attribute_exists(id) AND " + cond, values
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func numberValue(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
