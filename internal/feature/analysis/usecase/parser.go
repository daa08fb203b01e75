package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"calorie_backend/internal/feature/analysis/domain"
	"calorie_backend/internal/feature/analysis/domain/entity"
)

// ExtractJSON はモデル出力から最初のバランスの取れた {...} を取り出します。
// 文字列リテラル内の波括弧とエスケープは数えません。
// 見つからない場合は domain.ErrNoStructuredData を返します。
func ExtractJSON(raw string) (string, error) {
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		if end, ok := matchBrace(raw, start); ok {
			return raw[start : end+1], nil
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", domain.ErrNoStructuredData
}

// matchBrace はstartの '{' に対応する '}' の位置を返します。
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// Parse はモデルの生テキストを検証済みのAnalysisResultに変換します。
// 失敗時はdomain.ErrFormatを親に持つエラーを返し、部分的な結果は返しません。
func Parse(raw string) (*entity.AnalysisResult, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid json", domain.ErrMalformedResponse)
	}

	doc := gjson.Parse(payload)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: payload is not an object", domain.ErrMalformedResponse)
	}
	list := doc.Get("ingredients")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: ingredients is missing or not an array", domain.ErrMalformedResponse)
	}

	items := list.Array()
	ingredients := make([]entity.Ingredient, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: ingredient %d is not an object", domain.ErrMalformedResponse, i)
		}
		name := item.Get("name")
		if name.Type != gjson.String {
			return nil, fmt.Errorf("%w: ingredient %d has no name", domain.ErrMalformedResponse, i)
		}
		ingredients = append(ingredients, entity.Ingredient{
			Name:               name.Str,
			Grams:              number(item.Get("grams")),
			Calories:           number(item.Get("calories")),
			AccuracyPercentage: number(item.Get("accuracy_percentage")),
		})
	}

	result := Normalize(entity.AnalysisResult{
		Ingredients:               ingredients,
		OverallAccuracyPercentage: number(doc.Get("overall_accuracy_percentage")),
	})
	return &result, nil
}

// Normalize は食材名を小文字化し、数値フィールドの欠損値を0に揃えます。
// 冪等であり、入力のスライスは変更しません。
func Normalize(r entity.AnalysisResult) entity.AnalysisResult {
	out := entity.AnalysisResult{
		Ingredients:               make([]entity.Ingredient, 0, len(r.Ingredients)),
		OverallAccuracyPercentage: orZero(r.OverallAccuracyPercentage),
	}
	for _, in := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, entity.Ingredient{
			Name:               strings.ToLower(in.Name),
			Grams:              orZero(in.Grams),
			Calories:           orZero(in.Calories),
			AccuracyPercentage: orZero(in.AccuracyPercentage),
		})
	}
	return out
}

// number はJSON値を数値として読みます。数値文字列は数値として扱い、
// 欠損・null・bool・数値でない文字列はすべて0になります。
func number(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return orZero(r.Num)
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		return orZero(f)
	default:
		return 0
	}
}

// orZero はNaN・無限大・負のゼロを0に置き換えます。
func orZero(f float64) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
