package service

import (
	"testing"
	"time"

	"app/internal/logger"
	"app/internal/model"
)

func TestUpcomingTasksFiltering(t *testing.T) {
	svc := NewNotificationService(nil, nil, nil, "digest_queue", logger.New()).(*notificationService)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }

	tasks := []model.Task{
		{ID: "t1", Title: "Due tomorrow", DueDate: "2026-09-02", Status: model.StatusNotStarted},
		{ID: "t2", Title: "Already done", DueDate: "2026-09-03", Status: model.StatusCompleted},
		{ID: "t3", Title: "Past due", DueDate: "2026-08-30", Status: model.StatusNotStarted},
		{ID: "t4", Title: "Beyond window", DueDate: "2026-09-20", Status: model.StatusInProgress},
		{ID: "t5", Title: "Unparseable date", DueDate: "soon", Status: model.StatusNotStarted},
		{ID: "t6", Title: "At window edge", DueDate: "2026-09-08", Status: model.StatusInProgress},
	}

	upcoming := svc.upcomingTasks(tasks, 7)
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming tasks, got %d: %+v", len(upcoming), upcoming)
	}
	if upcoming[0].ID != "t1" || upcoming[1].ID != "t6" {
		t.Fatalf("unexpected selection: %+v", upcoming)
	}
}

func TestUpcomingTasksEmptyWhenNothingDue(t *testing.T) {
	svc := NewNotificationService(nil, nil, nil, "digest_queue", logger.New()).(*notificationService)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }

	tasks := []model.Task{
		{ID: "t1", Title: "Far future", DueDate: "2027-01-10", Status: model.StatusNotStarted},
	}
	if upcoming := svc.upcomingTasks(tasks, 7); len(upcoming) != 0 {
		t.Fatalf("expected no upcoming tasks, got %+v", upcoming)
	}
}
