package entity

import "math"

// LowAccuracyThreshold を下回る全体精度は低精度として警告対象になります。
const LowAccuracyThreshold = 70

// Ingredient は解析で推定された食材1件です。
type Ingredient struct {
	Name               string  // 小文字化済みの食材名
	Grams              float64 // 推定重量（g）
	Calories           float64 // 推定カロリー（kcal）
	AccuracyPercentage float64 // 推定の信頼度（0〜100）
}

// AnalysisResult は1回の解析結果です。
// Ingredientsの順序はモデル出力の順序のままで、並べ替えません。
type AnalysisResult struct {
	Ingredients               []Ingredient
	OverallAccuracyPercentage float64
}

// TotalCalories は全食材のカロリー合計を返します。
func (r AnalysisResult) TotalCalories() float64 {
	var sum float64
	for _, in := range r.Ingredients {
		sum += in.Calories
	}
	return sum
}

// RoundedTotalCalories は表示用に四捨五入した合計カロリーを返します。
func (r AnalysisResult) RoundedTotalCalories() int64 {
	return int64(math.Round(r.TotalCalories()))
}

// IsLowAccuracy は全体精度がしきい値未満かどうかを返します。
func (r AnalysisResult) IsLowAccuracy() bool {
	return r.OverallAccuracyPercentage < LowAccuracyThreshold
}
