// Package dto はanalysisのドメインモデルとAPIレスポンスの変換を提供します。
package dto

import (
	"calorie_backend/internal/api"
	"calorie_backend/internal/feature/analysis/domain/entity"
)

// ToIngredients は食材のスライスをAPI表現に変換します。nilは空配列になります。
func ToIngredients(in []entity.Ingredient) []api.Ingredient {
	out := make([]api.Ingredient, 0, len(in))
	for _, i := range in {
		out = append(out, api.Ingredient{
			Name:               i.Name,
			Grams:              i.Grams,
			Calories:           i.Calories,
			AccuracyPercentage: i.AccuracyPercentage,
		})
	}
	return out
}

// ToAnalysisResponse は解析結果を合計カロリー・低精度フラグ付きのAPIレスポンスに変換します。
func ToAnalysisResponse(r entity.AnalysisResult) api.AnalysisResponse {
	return api.AnalysisResponse{
		Ingredients:               ToIngredients(r.Ingredients),
		OverallAccuracyPercentage: r.OverallAccuracyPercentage,
		TotalCalories:             r.RoundedTotalCalories(),
		LowAccuracy:               r.IsLowAccuracy(),
	}
}
