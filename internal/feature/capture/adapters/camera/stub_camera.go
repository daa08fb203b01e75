//go:build !gocv
// +build !gocv

// Package camera はOpenCV（gocv）を使ったカメラアダプターを提供します。
// gocvタグなしのビルドではカメラは常に利用不可として扱われます。
package camera

import (
	"context"
	"errors"

	"calorie_backend/internal/feature/capture/usecase"
)

var errNoCameraSupport = errors.New("camera support is not compiled in (build with -tags gocv)")

// GoCVOpener はgocvタグなしのビルドで使われるスタブです。
type GoCVOpener struct{}

var _ usecase.Opener = (*GoCVOpener)(nil)

// NewGoCVOpener はスタブのOpenerを生成します。
func NewGoCVOpener() *GoCVOpener {
	return &GoCVOpener{}
}

// Open は常にエラーを返します。
func (o *GoCVOpener) Open(context.Context, usecase.CameraConfig) (usecase.Device, error) {
	return nil, errNoCameraSupport
}

// PreviewShutter はgocvタグなしのビルドで使われるスタブです。
type PreviewShutter struct{}

var _ usecase.Shutter = (*PreviewShutter)(nil)

// NewPreviewShutter はスタブのShutterを生成します。
func NewPreviewShutter(string) *PreviewShutter {
	return &PreviewShutter{}
}

// Wait は常にエラーを返します。
func (s *PreviewShutter) Wait(context.Context, usecase.Device) error {
	return errNoCameraSupport
}
