// Package usecase はcaptureフィーチャー（画像ソースアダプター）のビジネスロジックを実装します。
package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	analysisdomain "calorie_backend/internal/feature/analysis/domain"
	"calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/capture/domain"
)

// JPEGQuality はカメラ撮影時の再エンコード品質（0.8相当）です。
const JPEGQuality = 80

// CameraConfig はカメラの取得条件です。
type CameraConfig struct {
	DeviceID int // 0はデフォルト（環境側カメラ）
	Width    int // 希望解像度。デバイスが近い値を選びます
	Height   int
}

// DefaultCameraConfig は 1920x1080 を希望するデフォルト設定です。
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{Width: 1920, Height: 1080}
}

// Device は開いているカメラです。Closeは必ず1回呼ばれます。
type Device interface {
	// Read は現在のフレームを1枚取得します。
	Read() (image.Image, error)
	Close() error
}

// Opener はカメラデバイスを開きます。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Opener interface {
	Open(ctx context.Context, cfg CameraConfig) (Device, error)
}

// Shutter はプレビュー中にユーザーの撮影操作を待ちます。
// 撮影ならnil、キャンセルなら domain.ErrCaptureCancelled を返します。
type Shutter interface {
	Wait(ctx context.Context, dev Device) error
}

// captureUsecase はファイル・データURI・カメラから EncodedImage を作ります。
type captureUsecase struct {
	opener  Opener
	shutter Shutter
	cfg     CameraConfig
}

// NewCaptureUsecase はcaptureUsecaseの新しいインスタンスを生成します。
// openerがnilの場合、FromCameraは常にDeviceErrorを返します。
func NewCaptureUsecase(opener Opener, shutter Shutter, cfg CameraConfig) *captureUsecase {
	return &captureUsecase{opener: opener, shutter: shutter, cfg: cfg}
}

// FromFile はファイルの内容をそのまま EncodedImage にします（再エンコードしません）。
// declaredMIMEが空か application/octet-stream の場合は内容から判定します。
func (u *captureUsecase) FromFile(r io.Reader, declaredMIME string) (entity.EncodedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, entity.MaxImageSize+1))
	if err != nil {
		return entity.EncodedImage{}, fmt.Errorf("read image: %w", err)
	}
	return newEncodedImage(data, declaredMIME)
}

// FromDataURI はブラウザの canvas.toDataURL などが返す data:<mime>;base64,<payload> を読み込みます。
// プレフィックスのない生のbase64も受け付けます。
func (u *captureUsecase) FromDataURI(s string) (entity.EncodedImage, error) {
	s = strings.TrimSpace(s)
	var declared string
	if meta, _, ok := strings.Cut(s, ","); ok {
		if !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
			return entity.EncodedImage{}, domain.ErrInvalidDataURI
		}
		declared = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	}

	data, err := base64.StdEncoding.DecodeString(entity.StripDataURIPrefix(s))
	if err != nil {
		return entity.EncodedImage{}, fmt.Errorf("%w: %v", domain.ErrInvalidDataURI, err)
	}
	return newEncodedImage(data, declared)
}

// FromCamera はカメラを開き、シャッター操作を待って1フレームを JPEG（品質80）で返します。
// デバイスはどの経路でも必ず解放されます。代替画像を生成することはありません。
func (u *captureUsecase) FromCamera(ctx context.Context) (entity.EncodedImage, error) {
	if u.opener == nil {
		return entity.EncodedImage{}, &domain.DeviceError{Op: "open", Err: errors.New("no camera backend configured")}
	}

	dev, err := u.opener.Open(ctx, u.cfg)
	if err != nil {
		return entity.EncodedImage{}, &domain.DeviceError{Op: "open", Err: err}
	}
	defer func() {
		if err := dev.Close(); err != nil {
			slog.Warn("failed to release camera", "error", err, "device", u.cfg.DeviceID)
		}
	}()

	if u.shutter != nil {
		if err := u.shutter.Wait(ctx, dev); err != nil {
			return entity.EncodedImage{}, err
		}
	}

	frame, err := dev.Read()
	if err != nil {
		return entity.EncodedImage{}, &domain.DeviceError{Op: "read", Err: err}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return entity.EncodedImage{}, &domain.DeviceError{Op: "encode", Err: err}
	}

	slog.Info("camera frame captured", "device", u.cfg.DeviceID, "bytes", buf.Len())
	return entity.EncodedImage{MIMEType: "image/jpeg", Data: buf.Bytes()}, nil
}

// IsImage はMIMEタイプが image/* かどうかを返します。
func IsImage(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

func newEncodedImage(data []byte, declaredMIME string) (entity.EncodedImage, error) {
	if len(data) == 0 {
		return entity.EncodedImage{}, analysisdomain.ErrEmptyImage
	}
	if len(data) > entity.MaxImageSize {
		return entity.EncodedImage{}, fmt.Errorf("%w of %d bytes", analysisdomain.ErrImageTooLarge, entity.MaxImageSize)
	}

	mimeType := strings.TrimSpace(declaredMIME)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}
	// パラメータ（; charset=...）は落とす
	if base, _, ok := strings.Cut(mimeType, ";"); ok {
		mimeType = strings.TrimSpace(base)
	}
	return entity.EncodedImage{MIMEType: mimeType, Data: data}, nil
}
