package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketProjects        = []byte("projects")
	bucketProducts        = []byte("products")
	bucketPrinters        = []byte("printers")
	bucketSpools          = []byte("spools")
	bucketColorInventory  = []byte("colorinventory")
	bucketPlannedCycles   = []byte("plannedcycles")
	bucketDaySchedules    = []byte("dayschedules")
	bucketFactorySettings = []byte("factorysettings")
	bucketPlanningMeta    = []byte("planningmeta")
	bucketPlanningLog     = []byte("planninglog")
)

var allBuckets = [][]byte{
	bucketProjects,
	bucketProducts,
	bucketPrinters,
	bucketSpools,
	bucketColorInventory,
	bucketPlannedCycles,
	bucketDaySchedules,
	bucketFactorySettings,
	bucketPlanningMeta,
	bucketPlanningLog,
}

const factorySettingsKey = "current"
const planningMetaKey = "current"

// BoltStore is a Store backed by a single bbolt file, one bucket per entity
// type, JSON-encoded values keyed by ID.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (creating if absent) a bbolt database at path and
// ensures every bucket this store needs exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("creating bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func put(tx *bolt.Tx, bucket []byte, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s/%s: %w", bucket, key, err)
	}
	return tx.Bucket(bucket).Put([]byte(key), data)
}

func get(tx *bolt.Tx, bucket []byte, key string, v interface{}) (bool, error) {
	data := tx.Bucket(bucket).Get([]byte(key))
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshaling %s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// Projects

func (s *BoltStore) GetProject(id string) (*types.Project, error) {
	var p types.Project
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx, bucketProjects, id, &p)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *BoltStore) ListProjects() ([]*types.Project, error) {
	var projects []*types.Project
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProjects).ForEach(func(k, v []byte) error {
			var p types.Project
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("unmarshaling project %s: %w", k, err)
			}
			projects = append(projects, &p)
			return nil
		})
	})
	return projects, err
}

func (s *BoltStore) GetActiveProjects() ([]*types.Project, error) {
	all, err := s.ListProjects()
	if err != nil {
		return nil, err
	}
	active := make([]*types.Project, 0, len(all))
	for _, p := range all {
		if p.IncludeInPlanning && p.Status != types.ProjectStatusCompleted && p.Status != types.ProjectStatusOnHold {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *BoltStore) CreateProject(project *types.Project) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketProjects, project.ID, project)
	})
}

func (s *BoltStore) UpdateProject(project *types.Project) error {
	return s.CreateProject(project)
}

// Products

func (s *BoltStore) GetProduct(id string) (*types.Product, error) {
	var p types.Product
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx, bucketProducts, id, &p)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *BoltStore) GetProducts() ([]*types.Product, error) {
	var products []*types.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).ForEach(func(k, v []byte) error {
			var p types.Product
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("unmarshaling product %s: %w", k, err)
			}
			products = append(products, &p)
			return nil
		})
	})
	return products, err
}

// CreateProduct persists a product record. Not part of the Store interface
// (the engine only ever reads products); used by cmd/planner's bootstrap
// path and tests to seed a catalog.
func (s *BoltStore) CreateProduct(product *types.Product) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketProducts, product.ID, product)
	})
}

// Printers

func (s *BoltStore) ListPrinters() ([]*types.Printer, error) {
	var printers []*types.Printer
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrinters).ForEach(func(k, v []byte) error {
			var p types.Printer
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("unmarshaling printer %s: %w", k, err)
			}
			printers = append(printers, &p)
			return nil
		})
	})
	return printers, err
}

func (s *BoltStore) GetActivePrinters() ([]*types.Printer, error) {
	all, err := s.ListPrinters()
	if err != nil {
		return nil, err
	}
	active := make([]*types.Printer, 0, len(all))
	for _, p := range all {
		if p.Active && p.Status == types.PrinterStatusReady {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *BoltStore) UpdatePrinter(printer *types.Printer) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketPrinters, printer.ID, printer)
	})
}

// CreatePrinter persists a new printer record, the write counterpart to
// UpdatePrinter used for fleet bootstrap rather than runtime state changes.
func (s *BoltStore) CreatePrinter(printer *types.Printer) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketPrinters, printer.ID, printer)
	})
}

// Spools

func (s *BoltStore) GetSpools() ([]*types.Spool, error) {
	var spools []*types.Spool
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSpools).ForEach(func(k, v []byte) error {
			var sp types.Spool
			if err := json.Unmarshal(v, &sp); err != nil {
				return fmt.Errorf("unmarshaling spool %s: %w", k, err)
			}
			spools = append(spools, &sp)
			return nil
		})
	})
	return spools, err
}

// CreateSpool persists a new spool record.
func (s *BoltStore) CreateSpool(spool *types.Spool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketSpools, spool.ID, spool)
	})
}

// Color inventory

// WriteColorInventory upserts one color's aggregate inventory record, keyed
// by color name (there is one record per color, not per spool).
func (s *BoltStore) WriteColorInventory(item *types.ColorInventoryItem) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketColorInventory, item.Color, item)
	})
}

func (s *BoltStore) GetColorInventory() ([]*types.ColorInventoryItem, error) {
	var items []*types.ColorInventoryItem
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketColorInventory).ForEach(func(k, v []byte) error {
			var item types.ColorInventoryItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("unmarshaling color inventory item %s: %w", k, err)
			}
			items = append(items, &item)
			return nil
		})
	})
	return items, err
}

// Planned cycles

func (s *BoltStore) GetPlannedCycles() ([]*types.PlannedCycle, error) {
	var cycles []*types.PlannedCycle
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPlannedCycles).ForEach(func(k, v []byte) error {
			var c types.PlannedCycle
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("unmarshaling planned cycle %s: %w", k, err)
			}
			cycles = append(cycles, &c)
			return nil
		})
	})
	return cycles, err
}

func (s *BoltStore) GetPlannedCyclesFrom(from time.Time) ([]*types.PlannedCycle, error) {
	all, err := s.GetPlannedCycles()
	if err != nil {
		return nil, err
	}
	filtered := make([]*types.PlannedCycle, 0, len(all))
	for _, c := range all {
		if !c.StartTime.Before(from) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// ReplacePlannedCycles atomically swaps the planned-cycle bucket's contents
// for preserved (immovable cycles kept as-is) plus created (the new plan),
// so a recalculation run never leaves a half-written schedule on disk.
func (s *BoltStore) ReplacePlannedCycles(preserved, created []*types.PlannedCycle) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketPlannedCycles); err != nil {
			return fmt.Errorf("clearing planned cycles bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketPlannedCycles); err != nil {
			return fmt.Errorf("recreating planned cycles bucket: %w", err)
		}
		for _, c := range preserved {
			if err := put(tx, bucketPlannedCycles, c.ID, c); err != nil {
				return err
			}
		}
		for _, c := range created {
			if err := put(tx, bucketPlannedCycles, c.ID, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// Factory settings and day schedules

func (s *BoltStore) GetFactorySettings() (*types.FactorySettings, error) {
	var fs types.FactorySettings
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx, bucketFactorySettings, factorySettingsKey, &fs)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("factory settings not found")
	}
	return &fs, nil
}

// WriteFactorySettings persists the singleton factory settings record. Not
// part of the Store interface (settings are loaded via pkg/config, not
// written by the engine) but used by cmd/planner's bootstrap path and tests.
func (s *BoltStore) WriteFactorySettings(fs *types.FactorySettings) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketFactorySettings, factorySettingsKey, fs)
	})
}

func (s *BoltStore) GetDayScheduleForDate(date time.Time) (*types.DaySchedule, bool, error) {
	key := date.Format("2006-01-02")
	var ds types.DaySchedule
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx, bucketDaySchedules, key, &ds)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &ds, true, nil
}

// WriteDayScheduleOverride persists a per-date override (e.g. a holiday)
// read back through GetDayScheduleForDate.
func (s *BoltStore) WriteDayScheduleOverride(date time.Time, ds *types.DaySchedule) error {
	key := date.Format("2006-01-02")
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketDaySchedules, key, ds)
	})
}

// Planning meta and log

func (s *BoltStore) GetPlanningMeta() (*types.PlanningMeta, error) {
	var meta types.PlanningMeta
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx, bucketPlanningMeta, planningMetaKey, &meta)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return &types.PlanningMeta{}, nil
	}
	return &meta, nil
}

func (s *BoltStore) WritePlanningMeta(meta *types.PlanningMeta) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketPlanningMeta, planningMetaKey, meta)
	})
}

func (s *BoltStore) AppendPlanningLogEntry(entry PlanningLogEntry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanningLog)

		var entries []PlanningLogEntry
		data := b.Get([]byte(planningMetaKey))
		if data != nil {
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("unmarshaling planning log: %w", err)
			}
		}

		entries = append(entries, entry)
		if len(entries) > MaxPlanningLogEntries {
			entries = entries[len(entries)-MaxPlanningLogEntries:]
		}

		encoded, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling planning log: %w", err)
		}
		return b.Put([]byte(planningMetaKey), encoded)
	})
}

func (s *BoltStore) ListPlanningLogEntries() ([]PlanningLogEntry, error) {
	var entries []PlanningLogEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPlanningLog).Get([]byte(planningMetaKey))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &entries)
	})
	return entries, err
}
