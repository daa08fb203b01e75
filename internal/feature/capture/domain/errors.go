// Package domain はcaptureフィーチャーのドメインエラーを定義します。
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCaptureCancelled はユーザーが撮影をキャンセルしたことを示します。エラー表示は不要です。
	ErrCaptureCancelled = errors.New("capture cancelled")

	// ErrInvalidDataURI は base64 データURIとして解釈できない入力を示します。
	ErrInvalidDataURI = errors.New("invalid data URI")

	// ErrNotImage は画像以外のファイルが選択されたことを示します。
	ErrNotImage = errors.New("file is not an image")
)

// DeviceErrorMessage はカメラ取得失敗時にユーザーへ表示するメッセージです。
const DeviceErrorMessage = "Could not access camera. Please ensure you have granted camera permissions."

// DeviceError はカメラの取得・読み取りに失敗したことを表します（権限拒否、デバイスなし等）。
type DeviceError struct {
	Op  string // open / read / encode
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("camera %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
