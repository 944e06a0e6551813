package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/shoplens/shoplens-backend/internal/logger"
	"github.com/shoplens/shoplens-backend/internal/repos"
	"github.com/shoplens/shoplens-backend/internal/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Dataset{}, &types.SaleRecord{}, &types.InventoryRecord{}, &types.Insight{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&types.Dataset{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&types.SaleRecord{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&types.InventoryRecord{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&types.Insight{})
	})
	return db
}

func newDatasetServiceForTest(t *testing.T, db *gorm.DB) DatasetService {
	t.Helper()
	log := logger.NewNop()
	return NewDatasetService(
		db,
		repos.NewDatasetRepo(db, log),
		repos.NewSaleRecordRepo(db, log),
		repos.NewInventoryRecordRepo(db, log),
		repos.NewInsightRepo(db, log),
		log,
	)
}

func TestIngestIdenticalUploadIsNoOp(t *testing.T) {
	db := testDB(t)
	svc := newDatasetServiceForTest(t, db)
	ctx := context.Background()

	ds, err := svc.Create(ctx, "store-a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sales := []types.RawSale{
		{Date: "2026-02-10", ProductName: "Chair", ProductID: "p3", Quantity: 4, UnitPrice: 75, TotalAmount: 300},
		{Date: "2026-02-11", ProductName: "Rug", ProductID: "p4", Quantity: 1, UnitPrice: 120, TotalAmount: 120},
	}

	got, changed, err := svc.Ingest(ctx, ds.ID, sales, nil)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if !changed || got.ID != ds.ID {
		t.Fatalf("first ingest: changed=%v dataset=%s, want changed into %s", changed, got.ID, ds.ID)
	}

	got, changed, err = svc.Ingest(ctx, ds.ID, sales, nil)
	if err != nil {
		t.Fatalf("repeat ingest: %v", err)
	}
	if changed {
		t.Fatal("identical re-upload reported a fingerprint change")
	}
	if got.ID != ds.ID {
		t.Fatalf("repeat ingest returned dataset %s, want %s", got.ID, ds.ID)
	}
}

func TestIngestReturnsExistingDatasetOnDuplicateContent(t *testing.T) {
	db := testDB(t)
	svc := newDatasetServiceForTest(t, db)
	ctx := context.Background()

	first, err := svc.Create(ctx, "store-a")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, "store-b")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	sales := []types.RawSale{
		{Date: "2026-01-05", ProductName: "Lamp", ProductID: "p1", Quantity: 2, UnitPrice: 50, TotalAmount: 100},
		{Date: "2026-01-06", ProductName: "Desk", ProductID: "p2", Quantity: 1, UnitPrice: 300, TotalAmount: 300},
	}
	if _, _, err := svc.Ingest(ctx, first.ID, sales, nil); err != nil {
		t.Fatalf("ingest into first: %v", err)
	}

	// Same logical set, different order: must hash identically and resolve
	// to the dataset that already holds it.
	reordered := []types.RawSale{sales[1], sales[0]}
	got, changed, err := svc.Ingest(ctx, second.ID, reordered, nil)
	if err != nil {
		t.Fatalf("ingest into second: %v", err)
	}
	if changed {
		t.Fatal("duplicate content reported a fingerprint change")
	}
	if got.ID != first.ID {
		t.Fatalf("duplicate content resolved to dataset %s, want existing %s", got.ID, first.ID)
	}

	// The second dataset must not have absorbed any records.
	recs, err := repos.NewSaleRecordRepo(db, logger.NewNop()).GetByDatasetID(ctx, nil, second.ID)
	if err != nil {
		t.Fatalf("load second dataset records: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("second dataset holds %d records, want 0", len(recs))
	}
}
