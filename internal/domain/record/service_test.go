package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/apperr"
)

// -- Mock Record Repository --

type mockRepo struct {
	items map[uuid.UUID]*PatientRecord
	now   time.Time
}

func newMockRepo(now time.Time) *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*PatientRecord), now: now}
}

func (m *mockRepo) Create(_ context.Context, r *PatientRecord) error {
	r.ID = uuid.New()
	r.RecordDate = m.now
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*PatientRecord, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("record")
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context) ([]*PatientRecord, error) {
	var out []*PatientRecord
	for _, r := range m.items {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*PatientRecord, error) {
	var out []*PatientRecord
	for _, r := range m.items {
		if r.PatientID == patientID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, r *PatientRecord) error {
	stored, ok := m.items[r.ID]
	if !ok {
		return apperr.NotFound("record")
	}
	stored.Notes = r.Notes
	stored.Diagnosis = r.Diagnosis
	stored.Prescription = r.Prescription
	stored.UpdatedBy = r.UpdatedBy
	stored.UpdatedAt = r.UpdatedAt
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return apperr.NotFound("record")
	}
	delete(m.items, id)
	return nil
}

type knownPatients map[uuid.UUID]bool

func (k knownPatients) Exists(_ context.Context, id uuid.UUID) error {
	if !k[id] {
		return apperr.NotFound("patient")
	}
	return nil
}

type inlineTx struct{}

func (inlineTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var createdAt = time.Date(2025, 2, 17, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo, knownPatients) {
	repo := newMockRepo(createdAt)
	patients := knownPatients{}
	return NewService(repo, patients, inlineTx{}, zerolog.Nop()), repo, patients
}

func TestService_CreateRecord(t *testing.T) {
	svc, repo, patients := newTestService()
	pid := uuid.New()
	patients[pid] = true

	rec, err := svc.CreateRecord(context.Background(), pid, "dr_house", Input{Notes: strPtr("headache")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Doctor != "dr_house" || rec.PatientID != pid {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.UpdatedBy != nil || rec.UpdatedAt != nil {
		t.Error("a new record has no update stamp")
	}
	if len(repo.items) != 1 {
		t.Error("record not stored")
	}
}

func TestService_CreateRecord_UnknownPatient(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := svc.CreateRecord(context.Background(), uuid.New(), "dr_house", Input{Notes: strPtr("x")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Error("nothing may be stored")
	}
}

func TestService_CreateRecord_RequiresIdentity(t *testing.T) {
	svc, _, patients := newTestService()
	pid := uuid.New()
	patients[pid] = true
	if _, err := svc.CreateRecord(context.Background(), pid, "", Input{Notes: strPtr("x")}); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated, got %v", err)
	}
}

func TestService_UpdateRecord_StampsEditor(t *testing.T) {
	svc, repo, patients := newTestService()
	pid := uuid.New()
	patients[pid] = true
	rec, _ := svc.CreateRecord(context.Background(), pid, "dr_house", Input{Notes: strPtr("headache")})

	editedAt := createdAt.Add(3 * time.Hour)
	svc.WithClock(func() time.Time { return editedAt })

	updated, err := svc.UpdateRecord(context.Background(), rec.ID, "dr_wilson", Input{Notes: strPtr("migraine"), Diagnosis: strPtr("G43")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.items[rec.ID]
	if stored.UpdatedBy == nil || *stored.UpdatedBy != "dr_wilson" {
		t.Errorf("expected updated_by dr_wilson, got %v", stored.UpdatedBy)
	}
	if stored.UpdatedAt == nil || !stored.UpdatedAt.Equal(editedAt) {
		t.Errorf("expected updated_at %v, got %v", editedAt, stored.UpdatedAt)
	}
	if !stored.RecordDate.Equal(createdAt) || !updated.RecordDate.Equal(createdAt) {
		t.Error("record_date must not change on update")
	}
	if stored.Doctor != "dr_house" {
		t.Error("original author must be kept")
	}
	if stored.Notes != "migraine" || *stored.Diagnosis != "G43" {
		t.Errorf("clinical fields not updated: %+v", stored)
	}
}

func TestService_UpdateRecord_KeepsAbsentFields(t *testing.T) {
	svc, repo, patients := newTestService()
	pid := uuid.New()
	patients[pid] = true
	rec, err := svc.CreateRecord(context.Background(), pid, "dr_house",
		Input{Notes: strPtr("n1"), Diagnosis: strPtr("flu"), Prescription: strPtr("rest")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateRecord(context.Background(), rec.ID, "dr_wilson", Input{Diagnosis: strPtr("covid")}); err != nil {
		t.Fatalf("diagnosis-only update: %v", err)
	}
	stored := repo.items[rec.ID]
	if stored.Notes != "n1" || *stored.Diagnosis != "covid" || *stored.Prescription != "rest" {
		t.Errorf("unexpected record after diagnosis update: %+v", stored)
	}

	if _, err := svc.UpdateRecord(context.Background(), rec.ID, "dr_wilson", Input{Notes: strPtr("n2")}); err != nil {
		t.Fatalf("notes-only update: %v", err)
	}
	stored = repo.items[rec.ID]
	if stored.Notes != "n2" || stored.Diagnosis == nil || *stored.Diagnosis != "covid" || stored.Prescription == nil {
		t.Errorf("notes update cleared other fields: %+v", stored)
	}
}

func TestService_UpdateRecord_InvalidKeepsRecord(t *testing.T) {
	svc, repo, patients := newTestService()
	pid := uuid.New()
	patients[pid] = true
	rec, _ := svc.CreateRecord(context.Background(), pid, "dr_house", Input{Notes: strPtr("headache")})

	_, err := svc.UpdateRecord(context.Background(), rec.ID, "dr_wilson", Input{Notes: strPtr(" ")})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.items[rec.ID].Notes != "headache" || repo.items[rec.ID].UpdatedBy != nil {
		t.Error("record changed after a rejected update")
	}
}

func TestService_UpdateRecord_Missing(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateRecord(context.Background(), uuid.New(), "dr_house", Input{})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found before validation, got %v", err)
	}
}

func TestService_ListAndDelete(t *testing.T) {
	svc, _, patients := newTestService()
	pid := uuid.New()
	patients[pid] = true
	rec, _ := svc.CreateRecord(context.Background(), pid, "dr_house", Input{Notes: strPtr("a")})
	svc.CreateRecord(context.Background(), pid, "dr_house", Input{Notes: strPtr("b")})

	items, err := svc.ListPatientRecords(context.Background(), pid)
	if err != nil || len(items) != 2 {
		t.Fatalf("expected 2 records, got %d (%v)", len(items), err)
	}
	if err := svc.DeleteRecord(context.Background(), rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetRecord(context.Background(), rec.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
