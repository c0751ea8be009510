// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/stylist-tui/internal/api"
	"github.com/jeranaias/stylist-tui/internal/model"
)

// =============================================================================
// FAKE MESSENGER
// =============================================================================

type fakeMessenger struct {
	mu sync.Mutex

	sendFn    func(req api.SendRequest) (*api.SendResponse, error)
	fetchFn   func(chatID string) ([]api.RawMessage, error)
	explainFn func(messageID, outfitID string) (string, error)

	sendCalls    int
	fetchCalls   int
	explainCalls int

	// release, when set, blocks SendMessage until closed.
	release chan struct{}
}

func (f *fakeMessenger) SendMessage(ctx context.Context, req api.SendRequest) (*api.SendResponse, error) {
	f.mu.Lock()
	f.sendCalls++
	release := f.release
	fn := f.sendFn
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if fn != nil {
		return fn(req)
	}
	return &api.SendResponse{
		Status:   "ok",
		ChatID:   "chat_1",
		Response: api.ReplyRecord{Message: "Try a linen blazer."},
	}, nil
}

func (f *fakeMessenger) FetchTranscript(ctx context.Context, chatID string) ([]api.RawMessage, error) {
	f.mu.Lock()
	f.fetchCalls++
	fn := f.fetchFn
	f.mu.Unlock()

	if fn != nil {
		return fn(chatID)
	}
	return nil, nil
}

func (f *fakeMessenger) ExplainOutfit(ctx context.Context, messageID, outfitID string) (string, error) {
	f.mu.Lock()
	f.explainCalls++
	fn := f.explainFn
	f.mu.Unlock()

	if fn != nil {
		return fn(messageID, outfitID)
	}
	return "Because it matches.", nil
}

// =============================================================================
// SEND
// =============================================================================

func TestSendAppendsUserAndReply(t *testing.T) {
	fake := &fakeMessenger{}
	s := NewChatSession(fake, nil)

	err := s.Send(context.Background(), "beach wedding outfit", "", model.DefaultFilters())
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "beach wedding outfit", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Try a linen blazer.", msgs[1].Content)
	assert.Equal(t, "chat_1", s.CurrentChatID())
}

func TestSendAdoptsServerChatIdentity(t *testing.T) {
	fake := &fakeMessenger{
		sendFn: func(req api.SendRequest) (*api.SendResponse, error) {
			// First send of a new chat carries no ID.
			assert.Empty(t, req.ChatID)
			return &api.SendResponse{
				Status:    "ok",
				ChatID:    "chat_42",
				ChatTitle: "Beach wedding",
				Response:  api.ReplyRecord{Message: "Here you go."},
			}, nil
		},
	}
	s := NewChatSession(fake, nil)

	require.NoError(t, s.Send(context.Background(), "hello", "", model.DefaultFilters()))
	assert.Equal(t, "chat_42", s.CurrentChatID())
	assert.Equal(t, "Beach wedding", s.CurrentChatTitle())
}

func TestSendEmptyRejected(t *testing.T) {
	s := NewChatSession(&fakeMessenger{}, nil)
	err := s.Send(context.Background(), "   ", "", model.DefaultFilters())
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Zero(t, s.MessageCount())
}

func TestSendImageOnlyAllowed(t *testing.T) {
	fake := &fakeMessenger{
		sendFn: func(req api.SendRequest) (*api.SendResponse, error) {
			assert.Equal(t, "/tmp/fit.png", req.ImagePath)
			return &api.SendResponse{Status: "ok", ChatID: "c", Response: api.ReplyRecord{Message: "nice"}}, nil
		},
	}
	s := NewChatSession(fake, nil)
	require.NoError(t, s.Send(context.Background(), "", "/tmp/fit.png", model.DefaultFilters()))
}

func TestSendFailureLeavesUserMessageAndError(t *testing.T) {
	fake := &fakeMessenger{
		sendFn: func(req api.SendRequest) (*api.SendResponse, error) {
			return nil, api.ErrTimeout
		},
	}
	s := NewChatSession(fake, nil)

	err := s.Send(context.Background(), "hello", "/tmp/fit.png", model.DefaultFilters())
	require.Error(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)

	require.True(t, msgs[1].IsError)
	require.NotNil(t, msgs[1].ErrorDetails)
	assert.Equal(t, "hello", msgs[1].ErrorDetails.OriginalContent)
	assert.Equal(t, "/tmp/fit.png", msgs[1].ErrorDetails.OriginalImagePath)
	assert.Equal(t, "Request timed out", msgs[1].ErrorDetails.Title)
	assert.False(t, s.IsSending())
}

func TestSendWhileSendingRejected(t *testing.T) {
	fake := &fakeMessenger{release: make(chan struct{})}
	s := NewChatSession(fake, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Send(context.Background(), "first", "", model.DefaultFilters())
	}()

	// Wait until the first send reaches the network call.
	for !s.IsSending() {
		time.Sleep(time.Millisecond)
	}

	err := s.Send(context.Background(), "second", "", model.DefaultFilters())
	assert.ErrorIs(t, err, ErrSendInFlight)

	close(fake.release)
	require.NoError(t, <-done)

	// Only the first send's messages are present.
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
}

func TestSendEncodesFilters(t *testing.T) {
	budget := 250.0
	var gotFilters string
	fake := &fakeMessenger{
		sendFn: func(req api.SendRequest) (*api.SendResponse, error) {
			gotFilters = req.Filters
			return &api.SendResponse{Status: "ok", ChatID: "c", Response: api.ReplyRecord{Message: "ok"}}, nil
		},
	}
	s := NewChatSession(fake, nil)

	filters := model.OutfitFilters{
		Budget:     &budget,
		Mode:       model.FilterModePartial,
		Categories: []model.Category{model.CategoryShoes},
	}
	require.NoError(t, s.Send(context.Background(), "shoes under 250", "", filters))
	assert.Contains(t, gotFilters, `"budget":250`)
	assert.Contains(t, gotFilters, `"partial"`)
}

// =============================================================================
// RETRY
// =============================================================================

func TestRetryReplacesErrorWithoutDuplicatingUser(t *testing.T) {
	calls := 0
	fake := &fakeMessenger{}
	fake.sendFn = func(req api.SendRequest) (*api.SendResponse, error) {
		calls++
		if calls == 1 {
			return nil, api.ErrUnreachable
		}
		assert.Equal(t, "hello again", req.Message)
		return &api.SendResponse{Status: "ok", ChatID: "c1", Response: api.ReplyRecord{Message: "got it"}}, nil
	}
	s := NewChatSession(fake, nil)

	require.Error(t, s.Send(context.Background(), "hello again", "", model.DefaultFilters()))
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	errorID := msgs[1].ID

	require.NoError(t, s.RetryMessage(context.Background(), errorID, model.DefaultFilters()))

	msgs = s.Messages()
	require.Len(t, msgs, 2, "retry must not add a second user message")
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.False(t, msgs[1].IsError)
	assert.Equal(t, "got it", msgs[1].Content)
}

func TestRetryFailureReplacesErrorInPlace(t *testing.T) {
	fake := &fakeMessenger{
		sendFn: func(req api.SendRequest) (*api.SendResponse, error) {
			return nil, api.ErrTimeout
		},
	}
	s := NewChatSession(fake, nil)

	require.Error(t, s.Send(context.Background(), "hello", "", model.DefaultFilters()))
	firstErrorID := s.Messages()[1].ID

	require.Error(t, s.RetryMessage(context.Background(), firstErrorID, model.DefaultFilters()))

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	require.True(t, msgs[1].IsError)
	assert.NotEqual(t, firstErrorID, msgs[1].ID, "replacement error is a fresh message")
	assert.Equal(t, "hello", msgs[1].ErrorDetails.OriginalContent)
}

func TestRetryCarriesGivenFilters(t *testing.T) {
	calls := 0
	var gotFilters string
	fake := &fakeMessenger{}
	fake.sendFn = func(req api.SendRequest) (*api.SendResponse, error) {
		calls++
		if calls == 1 {
			return nil, api.ErrUnreachable
		}
		gotFilters = req.Filters
		return &api.SendResponse{Status: "ok", ChatID: "c1", Response: api.ReplyRecord{Message: "ok"}}, nil
	}
	s := NewChatSession(fake, nil)

	require.Error(t, s.Send(context.Background(), "shoes under 250", "", model.DefaultFilters()))
	errorID := s.Messages()[1].ID

	budget := 250.0
	filters := model.OutfitFilters{
		Budget:     &budget,
		Mode:       model.FilterModePartial,
		Categories: []model.Category{model.CategoryShoes},
	}
	require.NoError(t, s.RetryMessage(context.Background(), errorID, filters))
	assert.Contains(t, gotFilters, `"budget":250`, "retry must keep the budget constraint")
	assert.Contains(t, gotFilters, `"partial"`)
}

func TestRetryUnknownMessage(t *testing.T) {
	s := NewChatSession(&fakeMessenger{}, nil)
	err := s.RetryMessage(context.Background(), "msg_nope", model.DefaultFilters())
	assert.ErrorIs(t, err, ErrNoSuchMessage)
}

// =============================================================================
// CHAT SWITCHING AND CACHE
// =============================================================================

func TestLoadChatFetchesAndCaches(t *testing.T) {
	fake := &fakeMessenger{
		fetchFn: func(chatID string) ([]api.RawMessage, error) {
			return []api.RawMessage{
				{ID: "m1", Role: "user", Content: "hi"},
				{ID: "m2", Role: "assistant", Content: "hello"},
			}, nil
		},
	}
	s := NewChatSession(fake, nil)

	require.NoError(t, s.LoadChat(context.Background(), "c1", "First chat"))
	assert.Equal(t, 2, s.MessageCount())
	assert.Equal(t, "First chat", s.CurrentChatTitle())
	assert.Equal(t, 1, fake.fetchCalls)

	// Switching away and back is served from cache.
	s.NewChat()
	require.NoError(t, s.LoadChat(context.Background(), "c1", "First chat"))
	assert.Equal(t, 2, s.MessageCount())
	assert.Equal(t, 1, fake.fetchCalls, "second load must not refetch")
}

func TestFailedSendWritesThroughToCache(t *testing.T) {
	fake := &fakeMessenger{
		fetchFn: func(chatID string) ([]api.RawMessage, error) {
			return []api.RawMessage{
				{ID: "m1", Role: "user", Content: "hi"},
				{ID: "m2", Role: "assistant", Content: "hello"},
			}, nil
		},
		sendFn: func(req api.SendRequest) (*api.SendResponse, error) {
			return nil, api.ErrUnreachable
		},
	}
	s := NewChatSession(fake, nil)

	require.NoError(t, s.LoadChat(context.Background(), "c1", "First chat"))
	require.Error(t, s.Send(context.Background(), "and sandals?", "", model.DefaultFilters()))
	require.Equal(t, 4, s.MessageCount())

	// Switching away and back must serve the failed exchange from cache.
	s.NewChat()
	require.NoError(t, s.LoadChat(context.Background(), "c1", "First chat"))
	assert.Equal(t, 1, fake.fetchCalls, "reload must not refetch")

	msgs := s.Messages()
	require.Len(t, msgs, 4, "optimistic message and error entry must survive the switch")
	assert.Equal(t, "and sandals?", msgs[2].Content)
	require.True(t, msgs[3].IsError)
	require.NotNil(t, msgs[3].ErrorDetails)
	assert.Equal(t, "and sandals?", msgs[3].ErrorDetails.OriginalContent)
}

func TestLoadChatFetchFailureKeepsState(t *testing.T) {
	fake := &fakeMessenger{
		fetchFn: func(chatID string) ([]api.RawMessage, error) {
			return nil, api.ErrUnreachable
		},
	}
	s := NewChatSession(fake, nil)
	require.NoError(t, s.Send(context.Background(), "hi", "", model.DefaultFilters()))
	before := s.CurrentChatID()

	err := s.LoadChat(context.Background(), "other", "Other")
	require.Error(t, err)
	assert.Equal(t, before, s.CurrentChatID(), "failed load must not switch chats")
	assert.False(t, s.IsFetching())
}

func TestClearMessagesPreservesCache(t *testing.T) {
	cache := NewMemoryCache()
	s := NewChatSession(&fakeMessenger{}, cache)

	require.NoError(t, s.Send(context.Background(), "hi", "", model.DefaultFilters()))
	require.Equal(t, 1, cache.Len())

	s.ClearMessages()
	assert.Zero(t, s.MessageCount())
	assert.Equal(t, 1, cache.Len(), "clearing the view must not evict the cache")

	cached, ok := cache.Get("chat_1")
	require.True(t, ok)
	assert.Len(t, cached, 2)
}

func TestForgetChatDropsCacheAndResets(t *testing.T) {
	cache := NewMemoryCache()
	s := NewChatSession(&fakeMessenger{}, cache)

	require.NoError(t, s.Send(context.Background(), "hi", "", model.DefaultFilters()))
	require.Equal(t, "chat_1", s.CurrentChatID())

	s.ForgetChat("chat_1")

	assert.Zero(t, cache.Len())
	assert.Empty(t, s.CurrentChatID())
	assert.Zero(t, s.MessageCount())
}

// =============================================================================
// EXPLANATION
// =============================================================================

func explainSession(t *testing.T, fake *fakeMessenger) (*ChatSession, string) {
	t.Helper()
	fake.sendFn = func(req api.SendRequest) (*api.SendResponse, error) {
		return &api.SendResponse{
			Status: "ok",
			ChatID: "c1",
			Response: api.ReplyRecord{
				Message:  "How about this?",
				OutfitID: "o1",
				Items: []api.RawOutfitItem{
					{ID: "i1", Name: "Blazer", Price: 120, Category: "blazer"},
				},
			},
		}, nil
	}
	s := NewChatSession(fake, nil)
	require.NoError(t, s.Send(context.Background(), "outfit please", "", model.DefaultFilters()))
	msgs := s.Messages()
	require.NotNil(t, msgs[1].Outfit)
	return s, msgs[1].ID
}

func TestExplainOutfitAttachesExplanation(t *testing.T) {
	fake := &fakeMessenger{}
	s, msgID := explainSession(t, fake)

	require.NoError(t, s.ExplainOutfit(context.Background(), msgID))

	msgs := s.Messages()
	assert.Equal(t, "Because it matches.", msgs[1].Outfit.Explanation)
	assert.Empty(t, s.ExplainingMessageID())
}

func TestExplainOutfitIdempotent(t *testing.T) {
	fake := &fakeMessenger{}
	s, msgID := explainSession(t, fake)

	require.NoError(t, s.ExplainOutfit(context.Background(), msgID))
	require.NoError(t, s.ExplainOutfit(context.Background(), msgID))
	assert.Equal(t, 1, fake.explainCalls, "second explain must not refetch")
}

func TestExplainOutfitFailureSurfaced(t *testing.T) {
	fake := &fakeMessenger{
		explainFn: func(messageID, outfitID string) (string, error) {
			return "", api.ErrTimeout
		},
	}
	s, msgID := explainSession(t, fake)

	err := s.ExplainOutfit(context.Background(), msgID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrTimeout))
	assert.Empty(t, s.Messages()[1].Outfit.Explanation)
	assert.Empty(t, s.ExplainingMessageID())
}

func TestExplainOutfitNoOutfit(t *testing.T) {
	fake := &fakeMessenger{}
	s := NewChatSession(fake, nil)
	require.NoError(t, s.Send(context.Background(), "hi", "", model.DefaultFilters()))

	msgs := s.Messages()
	err := s.ExplainOutfit(context.Background(), msgs[0].ID)
	assert.ErrorIs(t, err, ErrNoOutfit)
}

// =============================================================================
// CALLBACKS
// =============================================================================

func TestOnChangeFires(t *testing.T) {
	fake := &fakeMessenger{}
	s := NewChatSession(fake, nil)

	var mu sync.Mutex
	fires := 0
	s.SetOnChange(func() {
		mu.Lock()
		fires++
		mu.Unlock()
	})

	require.NoError(t, s.Send(context.Background(), "hi", "", model.DefaultFilters()))

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, fires, 2, "optimistic append and completion both notify")
}
