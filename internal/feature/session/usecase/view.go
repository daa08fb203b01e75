package usecase

import (
	analysisdomain "calorie_backend/internal/feature/analysis/domain"
	analysis "calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/session/domain/entity"
)

// View は表示層が描画する内容です。HTTPとCLIの両方がこれを描画します。
type View struct {
	ID       string
	State    entity.State
	Image    *analysis.EncodedImage // プレビュー用
	Result   *analysis.AnalysisResult
	Busy     bool // 解析中はボタンを無効化する
	CanRetry bool // 画像があり、解析中でない

	TotalCalories int64 // 四捨五入済み
	LowAccuracy   bool  // 全体精度が70%未満

	ErrorKind    entity.ErrorKind
	ErrorMessage string // エラー状態のときだけ設定される単一のバナー
}

// NewView はセッションから表示内容を組み立てます。
// 解析失敗の理由（通信・形式）は区別せず、同じ汎用メッセージを表示します。
func NewView(s *entity.Session) View {
	v := View{
		ID:        s.ID,
		State:     s.State,
		Busy:      s.State == entity.StateAnalyzing,
		CanRetry:  s.HasImage() && s.State != entity.StateAnalyzing,
		ErrorKind: s.ErrorKind,
	}
	if s.HasImage() {
		v.Image = s.Image
	}
	// カメラのエラーは表示中の結果を消さない
	if s.Result != nil && (s.State == entity.StateResultReady || s.ErrorKind == entity.ErrorKindDevice) {
		v.Result = s.Result
		v.TotalCalories = s.Result.RoundedTotalCalories()
		v.LowAccuracy = s.Result.IsLowAccuracy()
	}
	if s.State == entity.StateError {
		switch s.ErrorKind {
		case entity.ErrorKindDevice:
			v.ErrorMessage = s.ErrorMessage
		default:
			v.ErrorMessage = analysisdomain.UserMessage
		}
	}
	return v
}
