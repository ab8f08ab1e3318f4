package exports

import (
	"context"
	"strings"
	"testing"
	"time"

	"freight_broker_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeData struct {
	audit   []AuditRow
	inbound []InboundRow
}

func (f *fakeData) ListAuditRows(context.Context, uuid.UUID, time.Time, time.Time, int) ([]AuditRow, error) {
	return f.audit, nil
}

func (f *fakeData) ListInboundRows(context.Context, uuid.UUID, time.Time, time.Time, int) ([]InboundRow, error) {
	return f.inbound, nil
}

type fakeStore struct {
	objects map[string][]byte
}

func (f *fakeStore) EnsureBucket(context.Context) error { return nil }

func (f *fakeStore) Upload(_ context.Context, key, _ string, data []byte) error {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) DownloadURL(_ context.Context, key string) (string, time.Time, error) {
	return "https://storage.local/" + key, time.Now().Add(15 * time.Minute), nil
}

func TestRunUploadsBothArtifacts(t *testing.T) {
	toState := "ACCEPTED"
	fromState := "OFFERED"
	data := &fakeData{
		audit: []AuditRow{{
			EntryID:     uuid.New(),
			OfferID:     uuid.New(),
			ShipmentID:  uuid.New(),
			ShipmentRef: "SH-1042",
			Kind:        "TENDER",
			ActorID:     uuid.New(),
			Action:      "ACCEPTED",
			FromState:   &fromState,
			ToState:     toState,
			Source:      "API",
			CreatedAt:   time.Now(),
		}},
		inbound: []InboundRow{{
			MessageID: uuid.New(),
			FromPhone: "+15550100199",
			Intent:    "ACCEPT",
			Status:    "APPLIED",
			CreatedAt: time.Now(),
		}},
	}
	store := &fakeStore{}
	svc := NewService(data, store, logger.NewNop())

	tenantID := uuid.New()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	result, err := svc.Run(context.Background(), tenantID, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AuditTrail.Rows != 1 || result.InboundMessages.Rows != 1 {
		t.Fatalf("row counts wrong: %d/%d", result.AuditTrail.Rows, result.InboundMessages.Rows)
	}
	if len(store.objects) != 2 {
		t.Fatalf("expected two uploaded objects, got %d", len(store.objects))
	}

	auditData := string(store.objects[result.AuditTrail.Key])
	if !strings.Contains(auditData, "SH-1042") || !strings.Contains(auditData, "ACCEPTED") {
		t.Fatalf("audit csv missing expected content:\n%s", auditData)
	}
	if !strings.HasPrefix(result.AuditTrail.Key, tenantID.String()+"/") {
		t.Fatalf("object key not tenant scoped: %s", result.AuditTrail.Key)
	}
	if result.AuditTrail.DownloadURL == "" {
		t.Fatal("missing download url")
	}
}

func TestRunRejectsEmptyRange(t *testing.T) {
	svc := NewService(&fakeData{}, &fakeStore{}, logger.NewNop())
	at := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Run(context.Background(), uuid.New(), at, at); err == nil {
		t.Fatal("expected error for empty range")
	}
}
