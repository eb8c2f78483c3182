package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/mocks"
	"go.uber.org/mock/gomock"
)

func newSubscriberService(t *testing.T) (*SubscriberService, *mocks.MockSubscriberStore, *mocks.MockCacheRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSubscriberStore(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	svc, err := NewSubscriberService(SubscriberServiceOptions{
		Subscribers: store,
		Views:       core.NewSubscriberViewCache(core.SubscriberViewCacheOptions{Cache: cache, Subscribers: store}),
	})
	require.NoError(t, err)
	return svc, store, cache
}

func TestSubscriberService_CreateValidates(t *testing.T) {
	svc, _, _ := newSubscriberService(t)

	_, err := svc.Create(context.Background(), &model.CreateSubscriberRequest{Username: "alice", Email: "nope"})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSubscriberService_ViewUsesCache(t *testing.T) {
	svc, _, cache := newSubscriberService(t)
	raw, err := json.Marshal(model.SubscriberView{Username: "alice", PersonalReports: 3})
	require.NoError(t, err)
	cache.EXPECT().Get(gomock.Any(), "subscriber:view:alice").Return(raw, nil)

	view, err := svc.View(context.Background(), "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 3, view.PersonalReports)
}

func TestSubscriberService_RecountInvalidates(t *testing.T) {
	svc, store, cache := newSubscriberService(t)
	gomock.InOrder(
		store.EXPECT().Recount(gomock.Any(), "alice").Return(int64(1), nil),
		cache.EXPECT().Set(gomock.Any(), "subscriber:view-gen:alice", gomock.Any(), gomock.Any()).Return(nil),
		cache.EXPECT().Delete(gomock.Any(), "subscriber:view:alice").Return(true, nil),
	)

	n, err := svc.Recount(context.Background(), "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSubscriberService_DeleteNotFound(t *testing.T) {
	svc, store, _ := newSubscriberService(t)
	store.EXPECT().Delete(gomock.Any(), "ghost").Return(false, model.ErrSubscriberNotFound)

	_, err := svc.Delete(context.Background(), "ghost")
	require.ErrorIs(t, err, model.ErrSubscriberNotFound)
}
