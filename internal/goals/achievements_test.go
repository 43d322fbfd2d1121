package goals

import (
	"math"
	"testing"

	"github.com/goalpost-dev/goalpost/internal/models"
)

func TestAchievements(t *testing.T) {
	svc, _ := newTestService(t)

	// Owner A: 3 goals, one done; 5 tasks across them, two done.
	if _, err := svc.CreateGoal(ownerA, GoalInput{Title: "Goal one", Status: models.GoalStatusDone}, []TaskLineItem{
		{Title: "A", IsDone: true},
		{Title: "B"},
	}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	if _, err := svc.CreateGoal(ownerA, GoalInput{Title: "Goal two", Status: models.GoalStatusInProgress}, []TaskLineItem{
		{Title: "C", IsDone: true},
		{Title: "D"},
		{Title: "E"},
	}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	if _, err := svc.CreateGoal(ownerA, GoalInput{Title: "Goal three"}, nil); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	// Another owner's records must not leak into the numbers.
	if _, err := svc.CreateGoal(ownerB, GoalInput{Title: "Unrelated", Status: models.GoalStatusDone}, []TaskLineItem{
		{Title: "X", IsDone: true},
	}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	a, err := svc.Achievements(ownerA)

	if err != nil {
		t.Fatalf("Achievements: %v", err)
	}

	if a.TotalGoals != 3 || a.CompletedGoals != 1 {
		t.Errorf("goals = %d/%d, want 1/3 done", a.CompletedGoals, a.TotalGoals)
	}

	if a.TotalTasks != 5 || a.CompletedTasks != 2 {
		t.Errorf("tasks = %d/%d, want 2/5 done", a.CompletedTasks, a.TotalTasks)
	}

	if math.Abs(a.GoalPercent-100.0/3) > 1e-9 {
		t.Errorf("goal percent = %f, want one third", a.GoalPercent)
	}

	if math.Abs(a.TaskPercent-40) > 1e-9 {
		t.Errorf("task percent = %f, want 40", a.TaskPercent)
	}
}

func TestAchievementsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.Achievements(ownerA)

	if err != nil {
		t.Fatalf("Achievements: %v", err)
	}

	if a.TotalGoals != 0 || a.TotalTasks != 0 || a.GoalPercent != 0 || a.TaskPercent != 0 {
		t.Errorf("empty owner aggregate = %+v, want all zero", a)
	}
}
