package application

import (
	"context"
	"fmt"

	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	"github.com/jinford/workshop-ops/internal/platform/database"
)

// releaseAllResources はジョブに割り当てられた技術者・工具・機械・作業場所を
// すべて解放します。キャンセル・削除・完了で共通の解放セットを使います
func releaseAllResources(ctx context.Context, a *database.Adapter, job *domain.Job) error {
	for _, t := range job.Technicians {
		if err := a.Technicians.RemoveJob(ctx, t.TechnicianID, job.ID); err != nil {
			return fmt.Errorf("failed to release technician: %w", err)
		}
	}
	for _, t := range job.Tools {
		if err := a.Tools.SetAvailability(ctx, t.ToolID, true, nil); err != nil {
			return fmt.Errorf("failed to release tool: %w", err)
		}
	}
	for _, m := range job.Machines {
		if err := a.Machines.SetAvailability(ctx, m.MachineID, true, nil); err != nil {
			return fmt.Errorf("failed to release machine: %w", err)
		}
	}
	for _, w := range job.WorkStations {
		if err := a.WorkStations.SetAvailability(ctx, w.WorkStationID, true); err != nil {
			return fmt.Errorf("failed to release workstation: %w", err)
		}
	}
	return nil
}
