package goals

import "github.com/goalpost-dev/goalpost/internal/models"

// Achievements is the aggregate view over one owner's committed goals and
// tasks. It is recomputed from the store on every call, never cached.
type Achievements struct {
	TotalGoals     int64   `json:"total_goals"`
	CompletedGoals int64   `json:"completed_goals"`
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	GoalPercent    float64 `json:"goal_completion_percent"`
	TaskPercent    float64 `json:"task_completion_percent"`
}

func (s *Service) Achievements(ownerID uint) (Achievements, error) {
	var a Achievements

	if err := s.db.Model(&models.Goal{}).Where("owner_id = ?", ownerID).Count(&a.TotalGoals).Error; err != nil {
		return Achievements{}, err
	}

	if err := s.db.Model(&models.Goal{}).Where("owner_id = ? AND status = ?", ownerID, models.GoalStatusDone).Count(&a.CompletedGoals).Error; err != nil {
		return Achievements{}, err
	}

	if err := s.db.Model(&models.Task{}).Where("owner_id = ?", ownerID).Count(&a.TotalTasks).Error; err != nil {
		return Achievements{}, err
	}

	if err := s.db.Model(&models.Task{}).Where("owner_id = ? AND is_done = ?", ownerID, true).Count(&a.CompletedTasks).Error; err != nil {
		return Achievements{}, err
	}

	a.GoalPercent = percent(a.CompletedGoals, a.TotalGoals)
	a.TaskPercent = percent(a.CompletedTasks, a.TotalTasks)

	return a, nil
}

func percent(done, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}
