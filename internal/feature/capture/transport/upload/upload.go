// Package upload はmultipartで送られた画像をEncodedImageとして読み込みます。
package upload

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/capture/domain"
	"calorie_backend/internal/feature/capture/usecase"
)

// FieldName はアップロード画像のフォームフィールド名です。
const FieldName = "image"

// FileReader はファイル内容からEncodedImageを作ります。
// Goの慣例に従い、インターフェースは利用者側で定義します。
type FileReader interface {
	FromFile(r io.Reader, declaredMIME string) (entity.EncodedImage, error)
}

// ReadImage はフォームの image フィールドを読み込みます。画像以外は domain.ErrNotImage です。
func ReadImage(c *gin.Context, reader FileReader) (entity.EncodedImage, error) {
	file, err := c.FormFile(FieldName)
	if err != nil {
		return entity.EncodedImage{}, fmt.Errorf("form file %q: %w", FieldName, err)
	}

	f, err := file.Open()
	if err != nil {
		return entity.EncodedImage{}, fmt.Errorf("open uploaded file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	img, err := reader.FromFile(f, file.Header.Get("Content-Type"))
	if err != nil {
		return entity.EncodedImage{}, err
	}
	if !usecase.IsImage(img.MIMEType) {
		return entity.EncodedImage{}, fmt.Errorf("%w: %s", domain.ErrNotImage, img.MIMEType)
	}
	return img, nil
}
