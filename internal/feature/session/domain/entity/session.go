// Package entity はsessionフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	"calorie_backend/internal/feature/analysis/domain/entity"
)

// State はセッションの表示状態です。
type State string

const (
	StateIdle          State = "idle"           // 画像未選択
	StateImageSelected State = "image_selected" // 画像選択済み・未解析
	StateAnalyzing     State = "analyzing"      // 推論の応答待ち
	StateResultReady   State = "result_ready"   // 結果表示中
	StateError         State = "error"          // エラー表示中
)

// ErrorKind はエラー状態の種類です。
type ErrorKind string

const (
	ErrorKindNone     ErrorKind = ""
	ErrorKindAnalysis ErrorKind = "analysis" // 推論・パースの失敗
	ErrorKindDevice   ErrorKind = "device"   // カメラの取得失敗
)

// Session は1つのブラウザタブ（または端末）の解析サイクルを表します。
// 画像・結果・エラーはこのセッション内でのみ保持され、他のセッションと共有されません。
//
// Seq は解析開始と画像変更のたびに増加します。
// 完了した推論は開始時のSeqと一致する場合にのみ反映され、古い応答は破棄されます。
type Session struct {
	ID           string                 `json:"id"`
	State        State                  `json:"state"`
	Image        *entity.EncodedImage   `json:"image,omitempty"`
	Result       *entity.AnalysisResult `json:"result,omitempty"`
	ErrorKind    ErrorKind              `json:"error_kind,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Seq          uint64                 `json:"seq"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// NewSession は idle 状態の新しいセッションを生成します。
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasImage は画像が選択されているかを返します。
func (s *Session) HasImage() bool {
	return s.Image != nil && !s.Image.IsEmpty()
}

// SelectImage は画像を置き換え、以前の結果とエラーを破棄します（任意の状態 → image_selected）。
// 解析中であれば、その応答はSeqの不一致により破棄されます。
func (s *Session) SelectImage(img entity.EncodedImage, now time.Time) {
	s.Image = &img
	s.Result = nil
	s.clearError()
	s.State = StateImageSelected
	s.Seq++
	s.UpdatedAt = now
}

// ClearImage は画像と結果を破棄して idle に戻ります。
func (s *Session) ClearImage(now time.Time) {
	s.Image = nil
	s.Result = nil
	s.clearError()
	s.State = StateIdle
	s.Seq++
	s.UpdatedAt = now
}

// BeginAnalysis は解析を開始し、この解析のSeqを返します。
// 画像がない場合は何もせず started=false を返します。
// 解析中の場合は ok=false を返し、呼び出し元は要求を拒否します。
func (s *Session) BeginAnalysis(now time.Time) (seq uint64, started bool, ok bool) {
	if s.State == StateAnalyzing {
		return 0, false, false
	}
	if !s.HasImage() {
		return 0, false, true
	}
	s.Result = nil
	s.clearError()
	s.State = StateAnalyzing
	s.Seq++
	s.UpdatedAt = now
	return s.Seq, true, true
}

// CompleteAnalysis は解析結果を反映します。seqが現在の解析と一致しない場合は false を返し、何も変更しません。
func (s *Session) CompleteAnalysis(seq uint64, result entity.AnalysisResult, now time.Time) bool {
	if !s.isCurrent(seq) {
		return false
	}
	s.Result = &result
	s.State = StateResultReady
	s.UpdatedAt = now
	return true
}

// FailAnalysis は解析失敗を反映します。画像は残るため、そのまま再解析できます。
func (s *Session) FailAnalysis(seq uint64, now time.Time) bool {
	if !s.isCurrent(seq) {
		return false
	}
	s.Result = nil
	s.State = StateError
	s.ErrorKind = ErrorKindAnalysis
	s.UpdatedAt = now
	return true
}

// FailDevice はカメラ取得の失敗を反映します。analyzing を経由せずに error へ遷移します。
// 選択済みの画像と表示中の結果はそのまま残ります。
func (s *Session) FailDevice(message string, now time.Time) {
	s.State = StateError
	s.ErrorKind = ErrorKindDevice
	s.ErrorMessage = message
	s.Seq++
	s.UpdatedAt = now
}

func (s *Session) isCurrent(seq uint64) bool {
	return s.State == StateAnalyzing && s.Seq == seq
}

func (s *Session) clearError() {
	s.ErrorKind = ErrorKindNone
	s.ErrorMessage = ""
}
