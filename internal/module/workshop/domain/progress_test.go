package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-10))
	assert.Equal(t, 0, ClampProgress(0))
	assert.Equal(t, 55, ClampProgress(55))
	assert.Equal(t, 100, ClampProgress(100))
	assert.Equal(t, 100, ClampProgress(150))
}

func TestRatioPolicy(t *testing.T) {
	policy := RatioPolicy{}

	t.Run("タスクがない場合は現状維持", func(t *testing.T) {
		assert.Equal(t, 30, policy.Recompute(nil, 30))
	})

	t.Run("完了比率から算出する", func(t *testing.T) {
		tasks := []Task{
			{Status: TaskStatusCompleted},
			{Status: TaskStatusTodo},
			{Status: TaskStatusTodo},
		}
		// round(100 * 1/3) = 33
		assert.Equal(t, 33, policy.Recompute(tasks, 10))
	})

	t.Run("全タスク完了で100", func(t *testing.T) {
		tasks := []Task{
			{Status: TaskStatusCompleted},
			{Status: TaskStatusCompleted},
		}
		assert.Equal(t, 100, policy.Recompute(tasks, 50))
	})

	t.Run("タスク追加で進捗が下がることを許容する", func(t *testing.T) {
		tasks := []Task{
			{Status: TaskStatusCompleted},
			{Status: TaskStatusTodo},
			{Status: TaskStatusTodo},
			{Status: TaskStatusTodo},
		}
		assert.Equal(t, 25, policy.Recompute(tasks, 50))
	})
}

func TestMonotonicStepPolicy(t *testing.T) {
	policy := MonotonicStepPolicy{}

	t.Run("固定加算で算出する", func(t *testing.T) {
		tasks := []Task{
			{Status: TaskStatusCompleted},
			{Status: TaskStatusCompleted},
			{Status: TaskStatusTodo},
		}
		// 30 + 5*2 = 40
		assert.Equal(t, 40, policy.Recompute(tasks, 10))
	})

	t.Run("現在値より下がらない", func(t *testing.T) {
		tasks := []Task{{Status: TaskStatusTodo}}
		assert.Equal(t, 80, policy.Recompute(tasks, 80))
	})

	t.Run("100を超えない", func(t *testing.T) {
		tasks := make([]Task, 20)
		for i := range tasks {
			tasks[i].Status = TaskStatusCompleted
		}
		assert.Equal(t, 100, policy.Recompute(tasks, 10))
	})
}

func TestAppendProgressClampsAndRecords(t *testing.T) {
	job := &Job{Status: JobStatusInProgress}

	job.AppendProgress(150, "step", "message", "actor", job.UpdatedAt)

	assert.Equal(t, 100, job.Progress)
	assert.Len(t, job.ProgressHistory, 1)
	assert.Equal(t, 100, job.ProgressHistory[0].Progress)
	assert.Equal(t, JobStatusInProgress, job.ProgressHistory[0].Status)
	assert.Equal(t, "actor", job.ProgressHistory[0].Actor)
}
