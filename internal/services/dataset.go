package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplens/shoplens-backend/internal/analytics"
	"github.com/shoplens/shoplens-backend/internal/errs"
	"github.com/shoplens/shoplens-backend/internal/fingerprint"
	"github.com/shoplens/shoplens-backend/internal/logger"
	"github.com/shoplens/shoplens-backend/internal/repos"
	"github.com/shoplens/shoplens-backend/internal/types"
)

const (
	DatasetStatusReady      = "ready"
	DatasetStatusProcessing = "processing"
)

// DatasetService owns dataset identity and record ingestion. Ingestion
// replaces a dataset's record set wholesale; the fingerprint decides whether
// anything actually changed.
type DatasetService interface {
	Create(ctx context.Context, name string) (*types.Dataset, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Dataset, error)
	List(ctx context.Context) ([]*types.Dataset, error)
	// Ingest stores the uploaded record set. The returned bool reports
	// whether the dataset's fingerprint changed; a logically identical
	// upload is a no-op, and a record set already held by another dataset
	// returns that dataset's identity instead of duplicating it.
	Ingest(ctx context.Context, id uuid.UUID, sales []types.RawSale, inventory []types.RawInventory) (*types.Dataset, bool, error)
	Snapshot(ctx context.Context, id uuid.UUID) (analytics.Snapshot, *types.Dataset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type datasetService struct {
	db            *gorm.DB
	datasets      repos.DatasetRepo
	saleRecs      repos.SaleRecordRepo
	inventoryRecs repos.InventoryRecordRepo
	insightRepo   repos.InsightRepo
	log           *logger.Logger
}

func NewDatasetService(
	db *gorm.DB,
	datasets repos.DatasetRepo,
	saleRecs repos.SaleRecordRepo,
	inventoryRecs repos.InventoryRecordRepo,
	insightRepo repos.InsightRepo,
	log *logger.Logger,
) DatasetService {
	return &datasetService{
		db:            db,
		datasets:      datasets,
		saleRecs:      saleRecs,
		inventoryRecs: inventoryRecs,
		insightRepo:   insightRepo,
		log:           log.With("service", "DatasetService"),
	}
}

func (s *datasetService) Create(ctx context.Context, name string) (*types.Dataset, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: dataset name required", errs.ErrInvalidArgument)
	}
	ds := &types.Dataset{
		ID:          uuid.New(),
		Name:        name,
		Fingerprint: fingerprint.Compute(nil, nil),
		Status:      DatasetStatusReady,
	}
	if _, err := s.datasets.Create(ctx, nil, []*types.Dataset{ds}); err != nil {
		return nil, err
	}
	s.log.Info("Dataset created", "dataset_id", ds.ID, "name", name)
	return ds, nil
}

func (s *datasetService) Get(ctx context.Context, id uuid.UUID) (*types.Dataset, error) {
	ds, err := s.datasets.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dataset %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return ds, nil
}

func (s *datasetService) List(ctx context.Context) ([]*types.Dataset, error) {
	return s.datasets.List(ctx, nil)
}

func (s *datasetService) Ingest(ctx context.Context, id uuid.UUID, sales []types.RawSale, inventory []types.RawInventory) (*types.Dataset, bool, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	saleRecords, invRecords, err := buildRecords(id, sales, inventory)
	if err != nil {
		return nil, false, err
	}

	fp := fingerprint.Compute(sales, inventory)
	if fp == ds.Fingerprint {
		s.log.Info("Ingest skipped, identical record set", "dataset_id", id, "fingerprint", fp)
		return ds, false, nil
	}

	// Duplicate-dataset detection: the same logical record set already lives
	// under another dataset, so hand back that identity instead of storing a
	// second copy.
	existing, err := s.datasets.GetByFingerprint(ctx, nil, fp)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if existing != nil && existing.ID != id {
		s.log.Info("Ingest matched existing dataset",
			"dataset_id", id,
			"existing_dataset_id", existing.ID,
			"fingerprint", fp,
		)
		return existing, false, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.saleRecs.DeleteByDatasetID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.inventoryRecs.DeleteByDatasetID(ctx, tx, id); err != nil {
			return err
		}
		if _, err := s.saleRecs.Create(ctx, tx, saleRecords); err != nil {
			return err
		}
		if _, err := s.inventoryRecs.Create(ctx, tx, invRecords); err != nil {
			return err
		}
		return s.datasets.UpdateFingerprint(ctx, tx, id, fp, len(saleRecords)+len(invRecords))
	})
	if err != nil {
		return nil, false, err
	}

	ds.Fingerprint = fp
	ds.RowCount = len(saleRecords) + len(invRecords)
	s.log.Info("Dataset ingested",
		"dataset_id", id,
		"sales", len(saleRecords),
		"inventory", len(invRecords),
		"fingerprint", fp,
	)
	return ds, true, nil
}

func (s *datasetService) Snapshot(ctx context.Context, id uuid.UUID) (analytics.Snapshot, *types.Dataset, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return analytics.Snapshot{}, nil, err
	}

	saleRecords, err := s.saleRecs.GetByDatasetID(ctx, nil, id)
	if err != nil {
		return analytics.Snapshot{}, nil, err
	}
	invRecords, err := s.inventoryRecs.GetByDatasetID(ctx, nil, id)
	if err != nil {
		return analytics.Snapshot{}, nil, err
	}

	snap := analytics.Snapshot{
		Sales:     make([]analytics.SaleRow, 0, len(saleRecords)),
		Inventory: make([]analytics.InventoryRow, 0, len(invRecords)),
	}
	for _, r := range saleRecords {
		snap.Sales = append(snap.Sales, analytics.SaleRow{
			Date:        r.Date,
			ProductName: r.ProductName,
			ProductID:   r.ProductID,
			Category:    r.Category,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			TotalAmount: r.TotalAmount,
		})
	}
	for _, r := range invRecords {
		snap.Inventory = append(snap.Inventory, analytics.InventoryRow{
			ProductName:  r.ProductName,
			ProductID:    r.ProductID,
			Category:     r.Category,
			CurrentStock: r.CurrentStock,
			UnitCost:     r.UnitCost,
			AsOfDate:     r.AsOfDate,
		})
	}
	return snap, ds, nil
}

func (s *datasetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.saleRecs.DeleteByDatasetID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.inventoryRecs.DeleteByDatasetID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.insightRepo.DeleteByDatasetID(ctx, tx, id); err != nil {
			return err
		}
		return s.datasets.Delete(ctx, tx, id)
	})
}

func buildRecords(datasetID uuid.UUID, sales []types.RawSale, inventory []types.RawInventory) ([]*types.SaleRecord, []*types.InventoryRecord, error) {
	saleRecords := make([]*types.SaleRecord, 0, len(sales))
	for i, s := range sales {
		date, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: sale %d has bad date %q", errs.ErrInvalidArgument, i, s.Date)
		}
		saleRecords = append(saleRecords, &types.SaleRecord{
			ID:          uuid.New(),
			DatasetID:   datasetID,
			Date:        date,
			ProductName: s.ProductName,
			ProductID:   s.ProductID,
			Quantity:    s.Quantity,
			UnitPrice:   s.UnitPrice,
			TotalAmount: s.TotalAmount,
			Category:    s.Category,
		})
	}

	invRecords := make([]*types.InventoryRecord, 0, len(inventory))
	for i, inv := range inventory {
		asOf := time.Time{}
		if inv.AsOfDate != "" {
			parsed, err := time.Parse("2006-01-02", inv.AsOfDate)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: inventory %d has bad as_of_date %q", errs.ErrInvalidArgument, i, inv.AsOfDate)
			}
			asOf = parsed
		}
		invRecords = append(invRecords, &types.InventoryRecord{
			ID:           uuid.New(),
			DatasetID:    datasetID,
			ProductName:  inv.ProductName,
			ProductID:    inv.ProductID,
			CurrentStock: inv.CurrentStock,
			UnitCost:     inv.UnitCost,
			Category:     inv.Category,
			AsOfDate:     asOf,
		})
	}
	return saleRecords, invRecords, nil
}
