package orders

import (
	"context"
	"time"

	"ordercore/internal/engine"
)

// RunStatus classifies the overall outcome of one correction run.
type RunStatus string

const (
	// RunCompleted means the document was parsed and every rule ran.
	RunCompleted RunStatus = "completed"
	// RunNoRecord means no fact record matched the detected order id.
	RunNoRecord RunStatus = "no_record"
	// RunFailed means the invocation aborted (unparseable document or
	// undetectable order id).
	RunFailed RunStatus = "failed"
)

// CorrectionRun is the persisted audit record of one document
// correction: which document, which order, the per-rule outcome log,
// and where the corrected artifact was archived.
type CorrectionRun struct {
	ID          string           `json:"id"`
	OrderID     string           `json:"order_id,omitempty"`
	Document    string           `json:"document"`
	Status      RunStatus        `json:"status"`
	Outcomes    []engine.Outcome `json:"outcomes,omitempty"`
	Error       string           `json:"error,omitempty"`
	ArtifactKey string           `json:"artifact_key,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Store is the durability contract for order facts and correction
// runs. Implementations live under internal/infra/persistence.
type Store interface {
	// ReplaceOrders swaps the stored order fact maps for a fresh sync.
	ReplaceOrders(ctx context.Context, orders []map[string]string) error
	// ListOrders returns the stored order fact maps.
	ListOrders(ctx context.Context) ([]map[string]string, error)

	// SaveRun appends or overwrites one correction run by ID.
	SaveRun(ctx context.Context, run CorrectionRun) error
	// GetRun fetches a run by ID.
	GetRun(ctx context.Context, id string) (CorrectionRun, bool, error)
	// ListRuns returns all runs ordered by creation time.
	ListRuns(ctx context.Context) ([]CorrectionRun, error)
	// ListRunsForOrder returns the runs recorded for one order id.
	ListRunsForOrder(ctx context.Context, orderID string) ([]CorrectionRun, error)

	// Close releases any underlying resources.
	Close() error
}
