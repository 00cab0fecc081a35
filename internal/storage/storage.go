package storage

import (
	"context"
	"time"
)

// MealEntryRow — one persisted meal entry. Entries are keyed into a week
// by (owner, profile, date, slot_type) with Position preserving insertion
// order inside the slot.
type MealEntryRow struct {
	ID          string
	OwnerUserID string
	ProfileID   string
	Date        string // YYYY-MM-DD
	SlotType    string
	Position    int
	Name        string
	OriginRef   string
	OriginKind  string
	Servings    float64
	Kcal        float64
	ProteinG    float64
	CarbsG      float64
	FatG        float64
	CreatedAt   time.Time
}

// WeeksStorage persists the meal entries that make up planner weeks.
// Weeks themselves are assembled from entry rows; a week with no rows is
// simply empty, never an error.
type WeeksStorage interface {
	// ListEntries returns entries with from <= date <= to, ordered by
	// date, slot type and position.
	ListEntries(ctx context.Context, ownerUserID, profileID, from, to string) ([]MealEntryRow, error)

	// AddEntries appends entries. Positions are assigned by the caller.
	AddEntries(ctx context.Context, entries []MealEntryRow) error

	// NextPosition returns the next free position inside a slot.
	NextPosition(ctx context.Context, ownerUserID, profileID, date, slotType string) (int, error)

	// DeleteEntry removes one entry by id within the owner's data.
	// Returns false when no such entry exists.
	DeleteEntry(ctx context.Context, ownerUserID, profileID, entryID string) (bool, error)

	// Close закрывает соединение (для Postgres)
	Close() error
}

// Storage — интерфейс хранилища (Memory или Postgres)
type Storage interface {
	WeeksStorage
	PlansStorage
	ExportsStorage
}

// PrepPlan — an authored, calendar-agnostic multi-day meal prep plan.
type PrepPlan struct {
	ID          string
	OwnerUserID string
	ProfileID   string
	Name        string
	DayCount    int
	CreatedAt   time.Time
}

// PrepPlanItem — one meal inside a prep plan, addressed by zero-based
// day offset and slot type. Ingredient lines are stored as a JSON blob.
type PrepPlanItem struct {
	ID          string
	PlanID      string
	DayOffset   int
	SlotType    string
	Position    int
	Name        string
	Servings    float64
	Kcal        float64
	ProteinG    float64
	CarbsG      float64
	FatG        float64
	Ingredients []byte // JSON: [{name, quantity, unit}]
	CreatedAt   time.Time
}

// PlansStorage persists meal prep plans. Plans are immutable after
// creation.
type PlansStorage interface {
	// CreatePlan stores a plan together with its items.
	CreatePlan(ctx context.Context, plan *PrepPlan, items []PrepPlanItem) error

	// GetPlan returns the plan and its items ordered by day offset, slot
	// type and position. bool=false means not found.
	GetPlan(ctx context.Context, ownerUserID, planID string) (PrepPlan, []PrepPlanItem, bool, error)

	// ListPlans returns the owner's plans for a profile, newest first.
	ListPlans(ctx context.Context, ownerUserID, profileID string) ([]PrepPlan, error)

	// DeletePlan removes a plan and its items within the owner's data.
	// Returns false when no such plan exists.
	DeletePlan(ctx context.Context, ownerUserID, planID string) (bool, error)
}

// ExportRecord — a generated shopping-list artifact (metadata + optional
// data for memory mode).
type ExportRecord struct {
	ID          string
	OwnerUserID string
	ProfileID   string
	PlanID      string
	Format      string  // "pdf" or "csv"
	ObjectKey   *string // S3 object key (NULL for memory mode)
	SizeBytes   int64
	CreatedAt   time.Time
	Data        []byte // Only used in memory mode (not stored in DB)
}

// ExportsStorage persists shopping-list export records.
type ExportsStorage interface {
	// CreateExport stores an export record.
	CreateExport(ctx context.Context, rec *ExportRecord) error

	// GetExport returns an export by id within the owner's data.
	// bool=false means not found.
	GetExport(ctx context.Context, ownerUserID, id string) (ExportRecord, bool, error)

	// ListExports returns the owner's exports for a profile, newest first.
	ListExports(ctx context.Context, ownerUserID, profileID string, limit int) ([]ExportRecord, error)
}
