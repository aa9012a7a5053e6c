package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/apperr"
)

// -- Mock Patient Repository --

type mockRepo struct {
	patients   map[uuid.UUID]*Patient
	dependents map[uuid.UUID]Dependents
	updateErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients:   make(map[uuid.UUID]*Patient),
		dependents: make(map[uuid.UUID]Dependents),
	}
}

func (m *mockRepo) emailTaken(email string, except uuid.UUID) bool {
	for id, p := range m.patients {
		if id != except && p.Email == email {
			return true
		}
	}
	return false
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if m.emailTaken(p.Email, uuid.Nil) {
		return apperr.Conflict(errDuplicateEmail)
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context) ([]*Patient, error) {
	var out []*Patient
	for _, p := range m.patients {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.patients[p.ID]; !ok {
		return apperr.NotFound("patient")
	}
	if m.emailTaken(p.Email, p.ID) {
		return apperr.Conflict(errDuplicateEmail)
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return apperr.NotFound("patient")
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) Dependents(_ context.Context, id uuid.UUID) (Dependents, error) {
	return m.dependents[id], nil
}

type inlineTx struct{ calls int }

func (t *inlineTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo, *inlineTx) {
	repo := newMockRepo()
	tx := &inlineTx{}
	return NewService(repo, tx, zerolog.Nop()), repo, tx
}

func TestService_CreatePatient(t *testing.T) {
	svc, repo, tx := newTestService()
	p, err := svc.CreatePatient(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if len(repo.patients) != 1 || tx.calls != 1 {
		t.Errorf("expected one row in one transaction, got %d rows %d tx", len(repo.patients), tx.calls)
	}
}

func TestService_CreatePatient_InvalidEmailStoresNothing(t *testing.T) {
	svc, repo, tx := newTestService()
	in := validInput()
	in.Email = strPtr("not-an-email")

	_, err := svc.CreatePatient(context.Background(), in)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.patients) != 0 || tx.calls != 0 {
		t.Error("invalid input must not reach the database")
	}
}

func TestService_CreatePatient_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.CreatePatient(context.Background(), validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreatePatient(context.Background(), validInput()); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestService_UpdatePatient(t *testing.T) {
	svc, repo, _ := newTestService()
	p, _ := svc.CreatePatient(context.Background(), validInput())

	updated, err := svc.UpdatePatient(context.Background(), p.ID, UpdateInput{LastName: strPtr("Costa")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.LastName != "Costa" || updated.FirstName != "Ana" {
		t.Errorf("unexpected patient %+v", updated)
	}
	if repo.patients[p.ID].LastName != "Costa" {
		t.Error("update was not persisted")
	}
}

func TestService_UpdatePatient_InvalidLeavesRowUnchanged(t *testing.T) {
	svc, repo, _ := newTestService()
	p, _ := svc.CreatePatient(context.Background(), validInput())

	_, err := svc.UpdatePatient(context.Background(), p.ID, UpdateInput{Email: strPtr("not-an-email"), LastName: strPtr("Costa")})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	stored := repo.patients[p.ID]
	if stored.Email != "ana@example.com" || stored.LastName != "Lima" {
		t.Errorf("stored patient changed: %+v", stored)
	}
}

func TestService_UpdatePatient_NotFoundBeforeValidation(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdatePatient(context.Background(), uuid.New(), UpdateInput{Email: strPtr("bad")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_UpdatePatient_RepoFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	p, _ := svc.CreatePatient(context.Background(), validInput())
	repo.updateErr = errors.New("connection reset")

	_, err := svc.UpdatePatient(context.Background(), p.ID, UpdateInput{Occupation: strPtr("chef")})
	if apperr.Status(err) != 500 {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestService_DeletePatient(t *testing.T) {
	svc, repo, _ := newTestService()
	p, _ := svc.CreatePatient(context.Background(), validInput())

	if err := svc.DeletePatient(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.patients[p.ID]; ok {
		t.Error("patient still present")
	}
	if _, err := svc.GetPatient(context.Background(), p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestService_DeletePatient_Missing(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.DeletePatient(context.Background(), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_DeletePatient_WithDependents(t *testing.T) {
	svc, repo, _ := newTestService()
	p, _ := svc.CreatePatient(context.Background(), validInput())
	repo.dependents[p.ID] = Dependents{Appointments: 2}

	err := svc.DeletePatient(context.Background(), p.ID)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, ok := repo.patients[p.ID]; !ok {
		t.Error("patient with appointments must not be deleted")
	}
}

func TestDescribeDependents(t *testing.T) {
	got := describeDependents(Dependents{Appointments: 1, Records: 3})
	want := "patient still has 1 appointment(s) and 3 record(s)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestService_Exists(t *testing.T) {
	svc, _, _ := newTestService()
	p, _ := svc.CreatePatient(context.Background(), validInput())
	if err := svc.Exists(context.Background(), p.ID); err != nil {
		t.Errorf("expected patient to exist, got %v", err)
	}
	if err := svc.Exists(context.Background(), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
