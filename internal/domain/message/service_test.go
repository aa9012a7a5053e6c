package message

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/auth"
)

// -- Mock Message Repository --

type mockRepo struct {
	items map[uuid.UUID]*Message
	clock time.Time
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		items: make(map[uuid.UUID]*Message),
		clock: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockRepo) Create(_ context.Context, msg *Message) error {
	msg.ID = uuid.New()
	m.clock = m.clock.Add(time.Minute)
	msg.CreatedAt = m.clock
	cp := *msg
	m.items[msg.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	msg, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("message")
	}
	cp := *msg
	return &cp, nil
}

func (m *mockRepo) Conversation(_ context.Context, a, b uuid.UUID) ([]*Message, error) {
	var out []*Message
	for _, msg := range m.items {
		if (msg.SenderID == a && msg.RecipientID == b) || (msg.SenderID == b && msg.RecipientID == a) {
			cp := *msg
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRepo) SetRead(_ context.Context, id uuid.UUID, read bool) error {
	msg, ok := m.items[id]
	if !ok {
		return apperr.NotFound("message")
	}
	msg.Read = read
	return nil
}

// staffDirectory is a Directory backed by a username index.
type staffDirectory map[string]*Participant

func (d staffDirectory) add(username string, role auth.Role) *Participant {
	p := &Participant{ID: uuid.New(), Username: username, Role: role}
	d[username] = p
	return p
}

func (d staffDirectory) ByUsername(_ context.Context, username string) (*Participant, error) {
	p, ok := d[username]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	cp := *p
	return &cp, nil
}

func (d staffDirectory) ByID(_ context.Context, id uuid.UUID) (*Participant, error) {
	for _, p := range d {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (d staffDirectory) All(_ context.Context) ([]*Participant, error) {
	out := make([]*Participant, 0, len(d))
	for _, p := range d {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type inlineTx struct{ calls int }

func (t *inlineTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo, staffDirectory) {
	repo := newMockRepo()
	staff := staffDirectory{}
	return NewService(repo, staff, &inlineTx{}, zerolog.Nop()), repo, staff
}

func boolPtr(b bool) *bool { return &b }

func TestService_SendMessage(t *testing.T) {
	svc, repo, staff := newTestService()
	alice := staff.add("alice", auth.RoleDoctor)
	sam := staff.add("sam", auth.RoleSecretary)

	m, err := svc.SendMessage(context.Background(), "alice", SendInput{RecipientID: sam.ID.String(), Content: "call Mrs. Ruiz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SenderID != alice.ID || m.RecipientID != sam.ID {
		t.Errorf("unexpected parties %s -> %s", m.SenderID, m.RecipientID)
	}
	if m.Read {
		t.Error("new message should be unread")
	}
	if len(repo.items) != 1 {
		t.Errorf("expected 1 stored message, got %d", len(repo.items))
	}
}

func TestService_SendMessage_Errors(t *testing.T) {
	svc, repo, staff := newTestService()
	alice := staff.add("alice", auth.RoleDoctor)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "alice", SendInput{RecipientID: alice.ID.String(), Content: "note to self"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for self message, got %v", err)
	}
	_, err = svc.SendMessage(ctx, "alice", SendInput{RecipientID: uuid.New().String(), Content: "hello?"})
	if !errors.Is(err, apperr.ErrNotFound) || err.Error() != "recipient not found" {
		t.Errorf("expected recipient not found, got %v", err)
	}
	_, err = svc.SendMessage(ctx, "ghost", SendInput{RecipientID: alice.ID.String(), Content: "boo"})
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated for unknown sender, got %v", err)
	}
	_, err = svc.SendMessage(ctx, "", SendInput{RecipientID: alice.ID.String(), Content: "boo"})
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated for missing identity, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Errorf("expected nothing stored, got %d", len(repo.items))
	}
}

func TestService_Conversation(t *testing.T) {
	svc, _, staff := newTestService()
	alice := staff.add("alice", auth.RoleDoctor)
	sam := staff.add("sam", auth.RoleSecretary)
	dana := staff.add("dana", auth.RoleDoctor)
	ctx := context.Background()

	send := func(from string, to *Participant, content string) {
		t.Helper()
		if _, err := svc.SendMessage(ctx, from, SendInput{RecipientID: to.ID.String(), Content: content}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	send("alice", sam, "first")
	send("sam", alice, "second")
	send("dana", sam, "elsewhere")
	send("alice", sam, "third")

	thread, err := svc.Conversation(ctx, "sam", alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, m := range thread {
		got = append(got, m.Content)
	}
	if len(got) != 3 || got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Errorf("unexpected thread %v", got)
	}

	thread, err = svc.Conversation(ctx, "alice", dana.ID)
	if err != nil || len(thread) != 0 {
		t.Errorf("expected empty thread, got %v %v", thread, err)
	}
	if _, err := svc.Conversation(ctx, "alice", uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found for unknown partner, got %v", err)
	}
}

func TestService_MarkRead(t *testing.T) {
	svc, repo, staff := newTestService()
	staff.add("alice", auth.RoleDoctor)
	sam := staff.add("sam", auth.RoleSecretary)
	staff.add("dana", auth.RoleDoctor)
	ctx := context.Background()

	m, err := svc.SendMessage(ctx, "alice", SendInput{RecipientID: sam.ID.String(), Content: "ping"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.MarkRead(ctx, "alice", m.ID, ReadInput{Read: boolPtr(true)}); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden for sender, got %v", err)
	}
	if _, err := svc.MarkRead(ctx, "dana", m.ID, ReadInput{Read: boolPtr(true)}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found for outsider, got %v", err)
	}
	if _, err := svc.MarkRead(ctx, "sam", m.ID, ReadInput{}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error without read, got %v", err)
	}
	if repo.items[m.ID].Read {
		t.Fatal("message marked read by a rejected call")
	}

	got, err := svc.MarkRead(ctx, "sam", m.ID, ReadInput{Read: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Read || !repo.items[m.ID].Read {
		t.Error("expected message to be read")
	}
	if got, err = svc.MarkRead(ctx, "sam", m.ID, ReadInput{Read: boolPtr(false)}); err != nil || got.Read {
		t.Errorf("expected message back to unread, got %+v %v", got, err)
	}
	if _, err := svc.MarkRead(ctx, "sam", uuid.New(), ReadInput{Read: boolPtr(true)}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found for unknown message, got %v", err)
	}
}

func TestService_ConversationPartners(t *testing.T) {
	svc, _, staff := newTestService()
	staff.add("alice", auth.RoleDoctor)
	staff.add("sam", auth.RoleSecretary)
	staff.add("dana", auth.RoleDoctor)

	partners, err := svc.ConversationPartners(context.Background(), "sam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partners) != 2 || partners[0].Username != "alice" || partners[1].Username != "dana" {
		t.Errorf("unexpected partners %+v", partners)
	}
	if _, err := svc.ConversationPartners(context.Background(), "ghost"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated, got %v", err)
	}
}
