package service

import (
	"context"
	"errors"

	"revlink/internal/models"
	"revlink/internal/push"

	"github.com/google/uuid"
)

var errStubSend = errors.New("push vendor unavailable")

// Function-field stubs: each test wires only the calls it expects and any
// unexpected call panics on the nil field, which is the failure we want.

type friendRepoStub struct {
	createFn     func(ctx context.Context, friendship *models.Friendship) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*models.Friendship, error)
	getBetweenFn func(ctx context.Context, userID1, userID2 uuid.UUID) (*models.Friendship, error)
	getFriendsFn func(ctx context.Context, userID uuid.UUID) ([]models.User, error)
	getPendingFn func(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
	getSentFn    func(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
	acceptFn     func(ctx context.Context, friendshipID uuid.UUID) (bool, error)
	deleteFn     func(ctx context.Context, friendshipID uuid.UUID) (bool, error)
}

func (s *friendRepoStub) Create(ctx context.Context, friendship *models.Friendship) error {
	return s.createFn(ctx, friendship)
}

func (s *friendRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	return s.getByIDFn(ctx, id)
}

func (s *friendRepoStub) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uuid.UUID) (*models.Friendship, error) {
	return s.getBetweenFn(ctx, userID1, userID2)
}

func (s *friendRepoStub) GetFriends(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	return s.getFriendsFn(ctx, userID)
}

func (s *friendRepoStub) GetPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	return s.getPendingFn(ctx, userID)
}

func (s *friendRepoStub) GetSentRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	return s.getSentFn(ctx, userID)
}

func (s *friendRepoStub) Accept(ctx context.Context, friendshipID uuid.UUID) (bool, error) {
	return s.acceptFn(ctx, friendshipID)
}

func (s *friendRepoStub) Delete(ctx context.Context, friendshipID uuid.UUID) (bool, error) {
	return s.deleteFn(ctx, friendshipID)
}

type userRepoStub struct {
	createFn            func(ctx context.Context, user *models.User) error
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*models.User, error)
	getByUsernameFn     func(ctx context.Context, username string) (*models.User, error)
	setPhoneHashFn      func(ctx context.Context, id uuid.UUID, hash string) error
	findByPhoneHashesFn func(ctx context.Context, hashes []string) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *userRepoStub) SetPhoneHash(ctx context.Context, id uuid.UUID, hash string) error {
	return s.setPhoneHashFn(ctx, id, hash)
}

func (s *userRepoStub) FindByPhoneHashes(ctx context.Context, hashes []string) ([]models.User, error) {
	return s.findByPhoneHashesFn(ctx, hashes)
}

type notifRepoStub struct {
	createFn          func(ctx context.Context, notification *models.Notification) error
	listByRecipientFn func(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Notification, error)
	markReadFn        func(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) error
	countUnreadFn     func(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

func (s *notifRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	return s.createFn(ctx, notification)
}

func (s *notifRepoStub) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID, limit, offset)
}

func (s *notifRepoStub) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) error {
	return s.markReadFn(ctx, recipientID, ids)
}

func (s *notifRepoStub) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.countUnreadFn(ctx, recipientID)
}

type tokenRepoStub struct {
	upsertFn        func(ctx context.Context, token *models.PushToken) error
	getByUserIDFn   func(ctx context.Context, userID uuid.UUID) ([]models.PushToken, error)
	deleteByTokenFn func(ctx context.Context, userID uuid.UUID, token string) error
}

func (s *tokenRepoStub) Upsert(ctx context.Context, token *models.PushToken) error {
	return s.upsertFn(ctx, token)
}

func (s *tokenRepoStub) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.PushToken, error) {
	return s.getByUserIDFn(ctx, userID)
}

func (s *tokenRepoStub) DeleteByToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.deleteByTokenFn(ctx, userID, token)
}

type vendorStub struct {
	startFn func(ctx context.Context, phone string) (string, error)
	checkFn func(ctx context.Context, requestID, code string) error
}

func (s *vendorStub) Start(ctx context.Context, phone string) (string, error) {
	return s.startFn(ctx, phone)
}

func (s *vendorStub) Check(ctx context.Context, requestID, code string) error {
	return s.checkFn(ctx, requestID, code)
}

// dispatcherStub records every dispatched notification.
type dispatcherStub struct {
	dispatched []*models.Notification
	err        error
}

func (s *dispatcherStub) Dispatch(ctx context.Context, n *models.Notification) error {
	s.dispatched = append(s.dispatched, n)
	return s.err
}

// senderStub records every push message; failTokens makes specific tokens
// fail delivery.
type senderStub struct {
	sent       []push.Message
	failTokens map[string]bool
}

func (s *senderStub) Send(ctx context.Context, msg push.Message) error {
	if s.failTokens[msg.Token] {
		return errStubSend
	}
	s.sent = append(s.sent, msg)
	return nil
}
