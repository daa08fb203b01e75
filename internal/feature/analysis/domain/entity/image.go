// Package entity はanalysisフィーチャーのドメインモデルを定義します。
package entity

import (
	"encoding/base64"
	"strings"
)

const (
	// DefaultMIMEType はMIMEタイプが不明な画像に使うタイプです。
	DefaultMIMEType = "image/jpeg"
	// MaxImageSize は受け付ける画像の最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
)

// EncodedImage はアップロードまたはカメラ撮影で得られた画像です。
// 1回の解析サイクルの間だけ保持され、次の撮影・アップロードで丸ごと置き換えられます。
type EncodedImage struct {
	MIMEType string // 例: image/jpeg
	Data     []byte // エンコード済みの画像バイト列
}

// IsEmpty は画像データが空かどうかを返します。
func (i EncodedImage) IsEmpty() bool {
	return len(i.Data) == 0
}

// ContentType はMIMEタイプを返します。未設定の場合はimage/jpegです。
func (i EncodedImage) ContentType() string {
	if i.MIMEType == "" {
		return DefaultMIMEType
	}
	return i.MIMEType
}

// Base64 はデータURIプレフィックスを含まない生のbase64文字列を返します。
func (i EncodedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURI は data:<mime>;base64,<payload> 形式の文字列を返します。
func (i EncodedImage) DataURI() string {
	return "data:" + i.ContentType() + ";base64," + i.Base64()
}

// StripDataURIPrefix はデータURIのプレフィックスを取り除き、base64部分だけを返します。
// カンマを含まない文字列はそのまま返します。
func StripDataURIPrefix(s string) string {
	if _, payload, ok := strings.Cut(s, ","); ok {
		return payload
	}
	return s
}
