package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	applog "github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/controlnum"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/parser"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	applog.Init()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("documents_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&controlnum.Counter{}, &EdiMessage{}, &EdiAcknowledgment{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type recordedEvent struct {
	Type string
	Data map[string]interface{}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, Data: data})
	return nil
}

func (r *eventRecorder) typesSeen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func (r *eventRecorder) has(eventType string) bool {
	for _, t := range r.typesSeen() {
		if t == eventType {
			return true
		}
	}
	return false
}

func newTestService(t *testing.T) (*Service, *Repository, *eventRecorder) {
	t.Helper()
	db := newTestDB(t)
	repo := NewRepository(db)
	numbers := controlnum.NewService(controlnum.NewRepository(db, 0, 0))
	recorder := &eventRecorder{}
	return NewService(repo, numbers, parser.Default(), recorder), repo, recorder
}

func TestImport_Valid204(t *testing.T) {
	svc, _, recorder := newTestService(t)

	msg, err := svc.Import(context.Background(), models.ImportDocumentRequest{
		TenantID:        "t1",
		PartnerID:       "p1",
		TransactionType: models.Transaction204,
		RawContent:      `{"loadId":"L1"}`,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if msg.Status != models.StatusDelivered {
		t.Fatalf("expected DELIVERED, got %s", msg.Status)
	}
	if msg.ValidationStatus != models.ValidationValid {
		t.Fatalf("expected VALID, got %s", msg.ValidationStatus)
	}
	if msg.EntityType != models.EntityLoad || msg.EntityID != "L1" {
		t.Fatalf("expected LOAD/L1, got %s/%s", msg.EntityType, msg.EntityID)
	}
	if msg.Direction != models.DirectionInbound {
		t.Fatalf("expected INBOUND default, got %s", msg.Direction)
	}
	if len(msg.MessageID) < 4 || msg.MessageID[:3] != "IN-" {
		t.Fatalf("expected IN- message id, got %q", msg.MessageID)
	}
	if msg.ISAControlNumber == "" || msg.GSControlNumber == "" || msg.STControlNumber == "" {
		t.Fatalf("expected full envelope triple, got %+v", msg)
	}
	if msg.ProcessedAt == nil {
		t.Fatal("expected processed_at to be set")
	}

	if !recorder.has(models.EventDocumentReceived) {
		t.Fatalf("expected received event, saw %v", recorder.typesSeen())
	}
	if !recorder.has(models.Event204Received) {
		t.Fatalf("expected 204 received event, saw %v", recorder.typesSeen())
	}
}

func TestImport_EntityIDPrecedence(t *testing.T) {
	svc, _, _ := newTestService(t)

	// invoiceId wins over loadId and orderId
	msg, err := svc.Import(context.Background(), models.ImportDocumentRequest{
		TenantID:        "t1",
		PartnerID:       "p1",
		TransactionType: models.Transaction210,
		RawContent:      `{"orderId":"O1","loadId":"L1","invoiceId":"I1"}`,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if msg.EntityID != "I1" {
		t.Fatalf("expected invoiceId precedence, got %q", msg.EntityID)
	}
	if msg.EntityType != models.EntityInvoice {
		t.Fatalf("expected INVOICE default for 210, got %s", msg.EntityType)
	}
}

func TestImport_UnparsablePayload(t *testing.T) {
	svc, _, recorder := newTestService(t)

	msg, err := svc.Import(context.Background(), models.ImportDocumentRequest{
		TenantID:        "t1",
		PartnerID:       "p1",
		TransactionType: models.Transaction214,
		RawContent:      "INVALID",
	})
	if err != nil {
		t.Fatalf("import must not fail for malformed content: %v", err)
	}

	if msg.Status != models.StatusError {
		t.Fatalf("expected ERROR, got %s", msg.Status)
	}
	if msg.ValidationStatus != models.ValidationError {
		t.Fatalf("expected validation ERROR, got %s", msg.ValidationStatus)
	}
	if len(msg.ValidationErrors) == 0 {
		t.Fatal("expected validation errors to be recorded")
	}
	if !recorder.has(models.EventDocumentError) {
		t.Fatalf("expected error event, saw %v", recorder.typesSeen())
	}
	if recorder.has(models.EventDocumentReceived) {
		t.Fatal("error path must not emit a received event")
	}
}

func TestReprocess_ResetsStatusAndBumpsRetry(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	msg, err := svc.Import(ctx, models.ImportDocumentRequest{
		TenantID:        "t1",
		PartnerID:       "p1",
		TransactionType: models.Transaction204,
		RawContent:      "INVALID",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	for i := 1; i <= 2; i++ {
		got, err := svc.Reprocess(ctx, "t1", msg.ID, "operator retry")
		if err != nil {
			t.Fatalf("reprocess %d: %v", i, err)
		}
		if got.Status != models.StatusPending {
			t.Fatalf("expected PENDING, got %s", got.Status)
		}
		if got.RetryCount != i {
			t.Fatalf("expected retry count %d, got %d", i, got.RetryCount)
		}
		if got.LastRetryAt == nil {
			t.Fatal("expected last_retry_at to be set")
		}
	}
}

func TestReprocess_UnknownMessage(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Reprocess(context.Background(), "t1", "missing", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAcknowledge_LinksAckAndUpdatesStatus(t *testing.T) {
	svc, repo, recorder := newTestService(t)
	ctx := context.Background()

	msg, err := svc.Import(ctx, models.ImportDocumentRequest{
		TenantID:        "t1",
		PartnerID:       "p1",
		TransactionType: models.Transaction204,
		RawContent:      `{"loadId":"L1"}`,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	ack, err := svc.Acknowledge(ctx, "t1", msg.ID, models.AcknowledgeRequest{
		AckControlNumber: "000000005",
		AckStatus:        models.AckAccepted,
	})
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	reloaded, err := repo.Get(ctx, "t1", msg.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.StatusAcknowledged {
		t.Fatalf("expected ACKNOWLEDGED, got %s", reloaded.Status)
	}
	if reloaded.FunctionalAckID == nil || *reloaded.FunctionalAckID != ack.ID {
		t.Fatalf("expected functional ack link to %s, got %v", ack.ID, reloaded.FunctionalAckID)
	}
	if !recorder.has(models.Event997Sent) {
		t.Fatalf("expected 997 sent event, saw %v", recorder.typesSeen())
	}
}

func TestAcknowledge_UnknownMessage(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Acknowledge(context.Background(), "t1", "missing", models.AcknowledgeRequest{
		AckControlNumber: "000000001",
		AckStatus:        models.AckAccepted,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListErrors_FiltersErrorMessages(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, models.ImportDocumentRequest{
		TenantID: "t1", PartnerID: "p1", TransactionType: models.Transaction204,
		RawContent: `{"loadId":"L1"}`,
	}); err != nil {
		t.Fatalf("import ok: %v", err)
	}
	if _, err := svc.Import(ctx, models.ImportDocumentRequest{
		TenantID: "t1", PartnerID: "p1", TransactionType: models.Transaction204,
		RawContent: "INVALID",
	}); err != nil {
		t.Fatalf("import bad: %v", err)
	}

	errsOnly, err := svc.ListErrors(ctx, "t1", 10)
	if err != nil {
		t.Fatalf("list errors: %v", err)
	}
	if len(errsOnly) != 1 {
		t.Fatalf("expected 1 error message, got %d", len(errsOnly))
	}
	if errsOnly[0].Status != models.StatusError {
		t.Fatalf("expected ERROR status, got %s", errsOnly[0].Status)
	}
}

func TestListByLoad_ScopesToEntity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, load := range []string{"L1", "L1", "L2"} {
		if _, err := svc.Import(ctx, models.ImportDocumentRequest{
			TenantID: "t1", PartnerID: "p1", TransactionType: models.Transaction204,
			RawContent: fmt.Sprintf(`{"loadId":%q}`, load),
		}); err != nil {
			t.Fatalf("import %s: %v", load, err)
		}
	}

	byLoad, err := svc.ListByLoad(ctx, "t1", "L1")
	if err != nil {
		t.Fatalf("list by load: %v", err)
	}
	if len(byLoad) != 2 {
		t.Fatalf("expected 2 messages for L1, got %d", len(byLoad))
	}
}
