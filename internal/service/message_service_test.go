package service

import (
	"GophChat/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_AppendValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.mkChat(t, 1, "m1")
	img := "QUJD"
	empty := ""

	tests := []struct {
		name string
		in   NewMessage
	}{
		{name: "unknown role", in: NewMessage{Role: "robot", Content: "x"}},
		{name: "unknown content type", in: NewMessage{Role: model.RoleUser, ContentType: "video", Content: "x"}},
		{name: "image without data", in: NewMessage{Role: model.RoleAssistant, ContentType: model.ContentImage}},
		{name: "image with empty data", in: NewMessage{Role: model.RoleAssistant, ContentType: model.ContentImage, ImageData: &empty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.messages.AppendMessage(ctx, 1, id, tt.in)
			assert.ErrorIs(t, err, ErrInvalidMessage)
		})
	}

	msgs, err := env.messages.ListMessages(ctx, 1, id)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	t.Run("text drops image data", func(t *testing.T) {
		msg, err := env.messages.AppendMessage(ctx, 1, id, NewMessage{Role: model.RoleUser, Content: "hi", ImageData: &img})
		require.NoError(t, err)
		assert.Equal(t, model.ContentText, msg.ContentType)
		assert.Nil(t, msg.ImageData)
	})
}

func TestMessageService_ForeignChat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.mkChat(t, 1, "m1")

	_, err := env.messages.AppendMessage(ctx, 2, id, NewMessage{Role: model.RoleUser, Content: "intrusion"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.messages.ListMessages(ctx, 2, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.messages.ListMessages(ctx, 0, id)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	msgs, err := env.messages.ListMessages(ctx, 1, id)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessageService_OrderWithFrozenClock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.mkChat(t, 1, "m1")
	frozen := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	env.messages.now = func() time.Time { return frozen }

	for _, text := range []string{"one", "two", "three"} {
		_, err := env.messages.AppendMessage(ctx, 1, id, NewMessage{Role: model.RoleUser, Content: text})
		require.NoError(t, err)
	}

	msgs, err := env.messages.ListMessages(ctx, 1, id)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, "three", msgs[2].Content)
}
