package integrity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
)

// RemovalObserver is told about every record a cascade removes.
type RemovalObserver interface {
	RecordRemoved(kind repository.Kind)
}

// Walker deletes a record after everything that references it, following Graph.
type Walker struct {
	graph    map[repository.Kind][]Edge
	observer RemovalObserver
}

func NewWalker(observer RemovalObserver) *Walker {
	return &Walker{graph: Graph, observer: observer}
}

// Delete removes kind/id and its dependents through c, children first. Missing
// records are skipped, so a repeated call removes nothing and succeeds.
// Callers run it inside Store.WithTx.
func (w *Walker) Delete(ctx context.Context, c repository.Cascader, kind repository.Kind, id uuid.UUID) (model.RemovalReport, error) {
	var report model.RemovalReport
	if err := w.walk(ctx, c, kind, id, &report); err != nil {
		return model.RemovalReport{}, err
	}
	return report, nil
}

func (w *Walker) walk(ctx context.Context, c repository.Cascader, kind repository.Kind, id uuid.UUID, report *model.RemovalReport) error {
	for _, edge := range w.graph[kind] {
		children, err := c.ReferencingIDs(ctx, edge.Child, edge.Ref, id)
		if err != nil {
			return fmt.Errorf("failed to find %s of %s %s: %w", edge.Child, kind, id, err)
		}
		for _, child := range children {
			if err := w.walk(ctx, c, edge.Child, child, report); err != nil {
				return err
			}
		}
	}

	removed, err := c.DeleteRecord(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	if removed {
		count(report, kind)
		if w.observer != nil {
			w.observer.RecordRemoved(kind)
		}
	}
	return nil
}

func count(r *model.RemovalReport, kind repository.Kind) {
	switch kind {
	case repository.KindUser:
		r.Users++
	case repository.KindPatient:
		r.Patients++
	case repository.KindPrescription:
		r.Prescriptions++
	case repository.KindConfirmation:
		r.Confirmations++
	case repository.KindNotification:
		r.Notifications++
	}
}
