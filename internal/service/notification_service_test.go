package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/repository"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/testutil"
)

type fakePublisher struct {
	channel  string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) (int64, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.channel = channel
	p.payloads = append(p.payloads, payload)
	return 1, nil
}

func TestNotificationSink_StoresAndPublishes(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := repository.NewRepository(db)
	ta := fx.TA("ta", "CS")
	pub := &fakePublisher{}

	sink := NewNotificationSink(repo, pub, "proctorhub:notifications")
	err := sink.Send(context.Background(), Notice{
		RecipientID: ta.UserID,
		Type:        model.NotifySwapApproved,
		Subject:     "换班成功",
		Message:     "内容",
		SwapID:      "11111111-1111-1111-1111-111111111111",
		At:          time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, pub.payloads, 1)
	assert.Equal(t, "proctorhub:notifications", pub.channel)
	var msg pushMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, ta.UserID, msg.UserID)
	assert.NotEmpty(t, msg.NotificationID)

	svc := NewNotificationService(repo, zap.NewNop())
	list, total, err := svc.ListMine(context.Background(), ta.UserID, &dto.PaginationRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "swap_request", list[0].RelatedType)
	assert.Equal(t, msg.NotificationID, list[0].ID)
}

func TestNotificationSink_PublishErrorReturned(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	ta := fx.TA("ta", "CS")

	sink := NewNotificationSink(repository.NewRepository(db), &fakePublisher{err: errors.New("redis down")}, "ch")
	err := sink.Send(context.Background(), Notice{RecipientID: ta.UserID, Type: model.NotifySwapRejected, Subject: "s", Message: "m"})
	assert.Error(t, err)
}

func TestNotificationSink_WithoutPublisher(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	ta := fx.TA("ta", "CS")

	sink := NewNotificationSink(repository.NewRepository(db), nil, "")
	require.NoError(t, sink.Send(context.Background(), Notice{RecipientID: ta.UserID, Type: model.NotifySwapCancelled, Subject: "s", Message: "m"}))
}
