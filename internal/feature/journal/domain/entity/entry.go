// Package entity はjournalフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	analysis "calorie_backend/internal/feature/analysis/domain/entity"
)

// Entry はユーザーが明示的に保存した解析結果の記録です。画像は保存しません。
type Entry struct {
	ID                        string
	SessionID                 string // 保存元のセッション（空の場合あり）
	Ingredients               []analysis.Ingredient
	OverallAccuracyPercentage float64
	CreatedAt                 time.Time
}

// Result はエントリを解析結果として返します。
func (e Entry) Result() analysis.AnalysisResult {
	return analysis.AnalysisResult{
		Ingredients:               e.Ingredients,
		OverallAccuracyPercentage: e.OverallAccuracyPercentage,
	}
}
