// Package exports builds compliance exports of the offer audit trail and the
// inbound message log, and stores them as CSV objects in MinIO.
package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"freight_broker_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	exportRowLimit = 100_000
	timeLayout     = time.RFC3339
)

// DataSource is implemented by the exports repository.
type DataSource interface {
	ListAuditRows(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit int) ([]AuditRow, error)
	ListInboundRows(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit int) ([]InboundRow, error)
}

// Artifact describes one uploaded export object.
type Artifact struct {
	Key          string    `json:"key"`
	Rows         int       `json:"rows"`
	DownloadURL  string    `json:"downloadUrl"`
	URLExpiresAt time.Time `json:"urlExpiresAt"`
}

// Result is the outcome of one export run.
type Result struct {
	AuditTrail      Artifact  `json:"auditTrail"`
	InboundMessages Artifact  `json:"inboundMessages"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
}

// Service runs compliance exports.
type Service struct {
	data  DataSource
	store ObjectStore
	log   *logger.Logger
}

func NewService(data DataSource, store ObjectStore, log *logger.Logger) *Service {
	return &Service{data: data, store: store, log: log}
}

// Run fetches both data sets concurrently, renders them to CSV, and uploads
// the artifacts. Object keys are unique per run so reruns never overwrite an
// earlier export.
func (s *Service) Run(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (Result, error) {
	if s.store == nil {
		return Result{}, fmt.Errorf("export storage not configured")
	}
	if !to.After(from) {
		return Result{}, fmt.Errorf("export range is empty")
	}

	if err := s.store.EnsureBucket(ctx); err != nil {
		return Result{}, err
	}

	runID := uuid.New().String()[:8]
	prefix := fmt.Sprintf("%s/%s_%s", tenantID, from.UTC().Format("20060102"), runID)

	var audit, inbound Artifact
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.data.ListAuditRows(gctx, tenantID, from, to, exportRowLimit)
		if err != nil {
			return fmt.Errorf("audit rows: %w", err)
		}
		a, err := s.upload(gctx, prefix+"/offer_audit.csv", auditCSV(rows), len(rows))
		if err != nil {
			return err
		}
		audit = a
		return nil
	})

	g.Go(func() error {
		rows, err := s.data.ListInboundRows(gctx, tenantID, from, to, exportRowLimit)
		if err != nil {
			return fmt.Errorf("inbound rows: %w", err)
		}
		a, err := s.upload(gctx, prefix+"/inbound_messages.csv", inboundCSV(rows), len(rows))
		if err != nil {
			return err
		}
		inbound = a
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	s.log.Info("audit export completed",
		"tenantId", tenantID.String(),
		"auditRows", audit.Rows,
		"inboundRows", inbound.Rows,
	)

	return Result{
		AuditTrail:      audit,
		InboundMessages: inbound,
		From:            from,
		To:              to,
	}, nil
}

func (s *Service) upload(ctx context.Context, key string, data []byte, rows int) (Artifact, error) {
	if err := s.store.Upload(ctx, key, "text/csv", data); err != nil {
		return Artifact{}, err
	}
	url, expiresAt, err := s.store.DownloadURL(ctx, key)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Key: key, Rows: rows, DownloadURL: url, URLExpiresAt: expiresAt}, nil
}

func auditCSV(rows []AuditRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"entry_id", "offer_id", "shipment_id", "shipment_ref", "kind", "actor_id",
		"action", "from_state", "to_state", "source", "note", "created_at",
	})
	for _, r := range rows {
		_ = w.Write([]string{
			r.EntryID.String(),
			r.OfferID.String(),
			r.ShipmentID.String(),
			r.ShipmentRef,
			r.Kind,
			r.ActorID.String(),
			r.Action,
			derefString(r.FromState),
			r.ToState,
			r.Source,
			r.Note,
			r.CreatedAt.UTC().Format(timeLayout),
		})
	}
	w.Flush()
	return buf.Bytes()
}

func inboundCSV(rows []InboundRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"message_id", "from_phone", "intent", "status", "reason",
		"matched_offer_id", "reviewed_at", "created_at",
	})
	for _, r := range rows {
		matched := ""
		if r.MatchedOfferID != nil {
			matched = r.MatchedOfferID.String()
		}
		reviewed := ""
		if r.ReviewedAt != nil {
			reviewed = r.ReviewedAt.UTC().Format(timeLayout)
		}
		_ = w.Write([]string{
			r.MessageID.String(),
			r.FromPhone,
			r.Intent,
			r.Status,
			r.Reason,
			matched,
			reviewed,
			r.CreatedAt.UTC().Format(timeLayout),
		})
	}
	w.Flush()
	return buf.Bytes()
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
