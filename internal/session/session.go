// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session state machine.
//
// A ChatSession owns the message list for the active chat, the send state,
// and the per-chat transcript cache. All operations are synchronous; the UI
// layer runs them inside its own command goroutines and re-renders on the
// change callback.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/stylist-tui/internal/api"
	"github.com/jeranaias/stylist-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSendInFlight is returned when a send is attempted while another
	// send is still running. Overlapping sends are rejected, not queued.
	ErrSendInFlight = errors.New("a message is already being sent")

	// ErrEmptyMessage is returned for a send with no text and no image.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoSuchMessage is returned when a retry or explain call names a
	// message that is not in the current chat.
	ErrNoSuchMessage = errors.New("message not found in current chat")

	// ErrNoOutfit is returned when explanation is requested for a message
	// without an outfit.
	ErrNoOutfit = errors.New("message has no outfit")
)

// =============================================================================
// MESSENGER INTERFACE
// =============================================================================

// Messenger is the slice of the API client the session depends on.
// *api.Client satisfies it; tests substitute a fake.
type Messenger interface {
	SendMessage(ctx context.Context, req api.SendRequest) (*api.SendResponse, error)
	FetchTranscript(ctx context.Context, chatID string) ([]api.RawMessage, error)
	ExplainOutfit(ctx context.Context, messageID, outfitID string) (string, error)
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession holds the state of the active chat.
//
// The zero chat ID means an unsaved new chat; the server assigns the real
// ID on the first successful send. ChatSession is safe for concurrent use.
type ChatSession struct {
	mu sync.Mutex

	client Messenger
	cache  Cache

	messages   []model.ChatMessage
	chatID     string
	chatTitle  string
	sending    bool
	fetching   bool
	explaining string // message ID with an explanation request in flight

	onChange func()
}

// NewChatSession creates a session backed by the given messenger and cache.
// A nil cache gets an in-memory one.
func NewChatSession(client Messenger, cache Cache) *ChatSession {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &ChatSession{
		client: client,
		cache:  cache,
	}
}

// SetOnChange registers a callback invoked after every state change.
func (s *ChatSession) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// notify invokes the change callback outside the lock.
func (s *ChatSession) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the current message list.
func (s *ChatSession) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMessages(s.messages)
}

// MessageCount returns the number of messages in the current chat.
func (s *ChatSession) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// CurrentChatID returns the active chat ID, empty for an unsaved chat.
func (s *ChatSession) CurrentChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatID
}

// CurrentChatTitle returns the active chat title.
func (s *ChatSession) CurrentChatTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatTitle
}

// IsSending reports whether a send is in flight.
func (s *ChatSession) IsSending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// IsFetching reports whether a transcript load is in flight.
func (s *ChatSession) IsFetching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetching
}

// ExplainingMessageID returns the ID of the message with an explanation
// request in flight, or empty.
func (s *ChatSession) ExplainingMessageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.explaining
}

// =============================================================================
// CHAT SWITCHING
// =============================================================================

// LoadChat makes chatID the active chat. The cache is consulted first; a
// network fetch only happens on a cache miss, and its result is cached.
func (s *ChatSession) LoadChat(ctx context.Context, chatID, title string) error {
	if cached, ok := s.cache.Get(chatID); ok {
		s.mu.Lock()
		s.chatID = chatID
		s.chatTitle = title
		s.messages = cached
		s.mu.Unlock()
		s.notify()
		return nil
	}

	s.mu.Lock()
	s.fetching = true
	s.mu.Unlock()
	s.notify()

	records, err := s.client.FetchTranscript(ctx, chatID)

	s.mu.Lock()
	s.fetching = false
	if err != nil {
		s.mu.Unlock()
		s.notify()
		return err
	}
	msgs := TranscriptToMessages(records)
	s.chatID = chatID
	s.chatTitle = title
	s.messages = msgs
	s.mu.Unlock()

	s.cache.Put(chatID, msgs)
	s.notify()
	return nil
}

// NewChat resets the session to an empty unsaved chat. The transcript
// cache keeps every previously loaded chat.
func (s *ChatSession) NewChat() {
	s.mu.Lock()
	s.chatID = ""
	s.chatTitle = ""
	s.messages = nil
	s.explaining = ""
	s.mu.Unlock()
	s.notify()
}

// ClearMessages empties the visible message list without touching the
// cache or the active chat identity.
func (s *ChatSession) ClearMessages() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	s.notify()
}

// ForgetChat drops a chat from the cache, for use after a server-side
// delete. If it is the active chat the session resets to a new chat.
func (s *ChatSession) ForgetChat(chatID string) {
	s.cache.Drop(chatID)

	s.mu.Lock()
	active := s.chatID == chatID
	s.mu.Unlock()

	if active {
		s.NewChat()
	}
}

// RetitleChat updates the active chat title after a successful rename.
func (s *ChatSession) RetitleChat(chatID, title string) {
	s.mu.Lock()
	if s.chatID == chatID {
		s.chatTitle = title
	}
	s.mu.Unlock()
	s.notify()
}

// =============================================================================
// SENDING
// =============================================================================

// Send submits a user message with optional image attachment and filters.
//
// The user message is appended optimistically before the network call. On
// failure it stays in place and a synthetic error message carrying the
// original input is appended after it, so the chat keeps a visible record
// and the retry has the exact payload. Every append is written through to
// the cache for saved chats, so switching away and back never loses the
// optimistic entry or the retry affordance. Send returns ErrSendInFlight
// while another send is running.
func (s *ChatSession) Send(ctx context.Context, content, imagePath string, filters model.OutfitFilters) error {
	content = strings.TrimSpace(content)
	if content == "" && imagePath == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	s.sending = true
	userMsg := model.NewUserMessage(content, imagePath)
	s.messages = append(s.messages, *userMsg)
	chatID := s.chatID
	msgs := cloneMessages(s.messages)
	s.mu.Unlock()

	if chatID != "" {
		s.cache.Put(chatID, msgs)
	}
	s.notify()

	err := s.deliver(ctx, content, imagePath, filters, -1)
	return err
}

// RetryMessage re-sends the input captured in an in-chat error message
// with the given filters, normally the ones currently active. The original
// user message is already in the list, so no new user entry is appended;
// the error message itself is replaced by the outcome.
func (s *ChatSession) RetryMessage(ctx context.Context, errorMessageID string, filters model.OutfitFilters) error {
	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return ErrSendInFlight
	}

	idx := -1
	for i := range s.messages {
		if s.messages[i].ID == errorMessageID && s.messages[i].IsError {
			idx = i
			break
		}
	}
	if idx < 0 || s.messages[idx].ErrorDetails == nil {
		s.mu.Unlock()
		return ErrNoSuchMessage
	}

	details := *s.messages[idx].ErrorDetails
	s.sending = true
	s.mu.Unlock()
	s.notify()

	return s.deliver(ctx, details.OriginalContent, details.OriginalImagePath, filters, idx)
}

// deliver runs the network send and applies the outcome. replaceIdx is the
// index of the error message a retry replaces, or -1 for a fresh send.
func (s *ChatSession) deliver(ctx context.Context, content, imagePath string, filters model.OutfitFilters, replaceIdx int) error {
	req := api.SendRequest{
		Message:   content,
		ChatID:    s.CurrentChatID(),
		ImagePath: imagePath,
	}
	if encoded := encodeFilters(filters); encoded != "" {
		req.Filters = encoded
	}

	resp, sendErr := s.client.SendMessage(ctx, req)

	s.mu.Lock()
	s.sending = false

	if sendErr != nil {
		errMsg := model.NewErrorMessage(failureTitle(sendErr), sendErr.Error(), content, imagePath)
		if replaceIdx >= 0 && replaceIdx < len(s.messages) {
			s.messages[replaceIdx] = *errMsg
		} else {
			s.messages = append(s.messages, *errMsg)
		}
		chatID := s.chatID
		msgs := cloneMessages(s.messages)
		s.mu.Unlock()

		if chatID != "" {
			s.cache.Put(chatID, msgs)
		}
		s.notify()
		return sendErr
	}

	reply := ReplyToMessage(resp.Response)
	if replaceIdx >= 0 && replaceIdx < len(s.messages) {
		s.messages[replaceIdx] = *reply
	} else {
		s.messages = append(s.messages, *reply)
	}

	if resp.ChatID != "" {
		s.chatID = resp.ChatID
	}
	if resp.ChatTitle != "" {
		s.chatTitle = resp.ChatTitle
	}
	chatID := s.chatID
	msgs := cloneMessages(s.messages)
	s.mu.Unlock()

	s.cache.Put(chatID, msgs)
	s.notify()
	return nil
}

// =============================================================================
// OUTFIT EXPLANATION
// =============================================================================

// ExplainOutfit fetches the explanation for the outfit on a message and
// attaches it. Calling it on a message that already has an explanation is
// a no-op, so repeat requests never refetch. Failures are returned to the
// caller rather than silently dropped.
func (s *ChatSession) ExplainOutfit(ctx context.Context, messageID string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNoSuchMessage
	}
	outfit := s.messages[idx].Outfit
	if outfit == nil {
		s.mu.Unlock()
		return ErrNoOutfit
	}
	if outfit.Explanation != "" {
		s.mu.Unlock()
		return nil
	}
	outfitID := outfit.ID
	s.explaining = messageID
	s.mu.Unlock()
	s.notify()

	explanation, err := s.client.ExplainOutfit(ctx, messageID, outfitID)

	s.mu.Lock()
	s.explaining = ""
	if err != nil {
		s.mu.Unlock()
		s.notify()
		return err
	}

	// The message may have moved while the request ran; find it again.
	for i := range s.messages {
		if s.messages[i].ID == messageID && s.messages[i].Outfit != nil {
			s.messages[i].Outfit.Explanation = explanation
			break
		}
	}
	chatID := s.chatID
	msgs := cloneMessages(s.messages)
	s.mu.Unlock()

	if chatID != "" {
		s.cache.Put(chatID, msgs)
	}
	s.notify()
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// encodeFilters serializes filters to JSON for the wire, returning empty
// for the default full-outfit filter so the request stays minimal.
func encodeFilters(filters model.OutfitFilters) string {
	def := model.DefaultFilters()
	if filters.Budget == nil && filters.Mode == def.Mode && len(filters.Categories) == 0 {
		return ""
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return string(data)
}

// failureTitle maps a send error to a short heading for the in-chat
// error message.
func failureTitle(err error) string {
	switch {
	case api.IsTimeout(err):
		return "Request timed out"
	case api.IsUnreachable(err):
		return "Can't reach the stylist"
	case api.IsUnauthorized(err):
		return "Session expired"
	default:
		return "Message not sent"
	}
}
