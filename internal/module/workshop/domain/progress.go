package domain

import "math"

// 進捗の固定値。遷移ごとの値の違いを一箇所に集約しています
const (
	// ProgressQualityChecked はジョブ作成時の初期進捗（初期品質チェック完了）
	ProgressQualityChecked = 10
	// ProgressWorkStarted は個別リソース割り当てによる作業開始時の進捗
	ProgressWorkStarted = 20
	// ProgressResourcesAssigned は一括リソース割り当て完了時の進捗
	ProgressResourcesAssigned = 30
	// ProgressCompleted は完了時の進捗
	ProgressCompleted = 100
)

// ClampProgress は進捗値を[0,100]に収めます
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ProgressPolicy はタスク状況からジョブ進捗を算出するポリシーです
// 算出方法が複数系統あったため、単一の差し替え可能なポリシーとして公開しています
type ProgressPolicy interface {
	// Recompute はタスク一覧と現在の進捗から新しい進捗を算出します
	Recompute(tasks []Task, current int) int
}

// RatioPolicy は完了タスク比率から進捗を算出します
// タスクの追加・削除に対して自己補正されるため、既定のポリシーです。
// 進捗が下がることもあります
type RatioPolicy struct{}

// Recompute は round(100 × 完了数 / 総数) を返します。タスクがない場合は現状維持です
func (RatioPolicy) Recompute(tasks []Task, current int) int {
	if len(tasks) == 0 {
		return ClampProgress(current)
	}

	completed := 0
	for _, t := range tasks {
		if t.Status == TaskStatusCompleted {
			completed++
		}
	}

	ratio := float64(completed) / float64(len(tasks)) * 100
	return ClampProgress(int(math.Round(ratio)))
}

// MonotonicStepPolicy は完了タスク数ごとの固定加算で進捗を算出します
// min(100, 30 + 5×完了数)。進捗を下げることはありません
type MonotonicStepPolicy struct{}

// Recompute は固定加算式の進捗を返します（現在値より低くはなりません）
func (MonotonicStepPolicy) Recompute(tasks []Task, current int) int {
	completed := 0
	for _, t := range tasks {
		if t.Status == TaskStatusCompleted {
			completed++
		}
	}

	progress := ProgressResourcesAssigned + 5*completed
	if progress > 100 {
		progress = 100
	}
	if progress < current {
		return ClampProgress(current)
	}
	return ClampProgress(progress)
}
