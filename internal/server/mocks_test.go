package server

import (
	"context"

	"revlink/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockFriendService struct {
	mock.Mock
}

func (m *MockFriendService) SendRequest(ctx context.Context, callerID, targetID uuid.UUID) (*models.Friendship, error) {
	args := m.Called(ctx, callerID, targetID)
	if f := args.Get(0); f != nil {
		return f.(*models.Friendship), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFriendService) AcceptRequest(ctx context.Context, callerID, friendshipID uuid.UUID) (*models.Friendship, error) {
	args := m.Called(ctx, callerID, friendshipID)
	if f := args.Get(0); f != nil {
		return f.(*models.Friendship), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFriendService) RejectRequest(ctx context.Context, callerID, friendshipID uuid.UUID) error {
	args := m.Called(ctx, callerID, friendshipID)
	return args.Error(0)
}

func (m *MockFriendService) RemoveFriend(ctx context.Context, callerID, friendshipID uuid.UUID) error {
	args := m.Called(ctx, callerID, friendshipID)
	return args.Error(0)
}

func (m *MockFriendService) Friends(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFriendService) PendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	args := m.Called(ctx, userID)
	if f := args.Get(0); f != nil {
		return f.([]models.Friendship), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFriendService) SentRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	args := m.Called(ctx, userID)
	if f := args.Get(0); f != nil {
		return f.([]models.Friendship), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFriendService) Status(ctx context.Context, callerID, targetID uuid.UUID) (string, *models.Friendship, error) {
	args := m.Called(ctx, callerID, targetID)
	var f *models.Friendship
	if v := args.Get(1); v != nil {
		f = v.(*models.Friendship)
	}
	return args.String(0), f, args.Error(2)
}

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Start(ctx context.Context, phone string) (string, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Error(1)
}

func (m *MockVerificationService) Check(ctx context.Context, callerID uuid.UUID, requestID, code, phone string) error {
	args := m.Called(ctx, callerID, requestID, code, phone)
	return args.Error(0)
}

type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) LookupByHashes(ctx context.Context, hashes []string) ([]models.User, error) {
	args := m.Called(ctx, hashes)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Feed(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	if n := args.Get(0); n != nil {
		return n.([]models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, callerID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, callerID, ids)
	return args.Error(0)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, callerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, callerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPushTokenRepository struct {
	mock.Mock
}

func (m *MockPushTokenRepository) Upsert(ctx context.Context, token *models.PushToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPushTokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.PushToken, error) {
	args := m.Called(ctx, userID)
	if t := args.Get(0); t != nil {
		return t.([]models.PushToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPushTokenRepository) DeleteByToken(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}
