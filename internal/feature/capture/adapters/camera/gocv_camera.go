//go:build gocv
// +build gocv

// Package camera はOpenCV（gocv）を使ったカメラアダプターを提供します。
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"calorie_backend/internal/feature/capture/domain"
	"calorie_backend/internal/feature/capture/usecase"
)

// GoCVOpener は OpenCV の VideoCapture でカメラを開きます。
type GoCVOpener struct{}

var _ usecase.Opener = (*GoCVOpener)(nil)

// NewGoCVOpener はGoCVOpenerを生成します。
func NewGoCVOpener() *GoCVOpener {
	return &GoCVOpener{}
}

// Open は指定デバイスを開き、希望解像度を設定します。
func (o *GoCVOpener) Open(ctx context.Context, cfg usecase.CameraConfig) (usecase.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vc, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open video capture %d: %w", cfg.DeviceID, err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("video capture %d is not available", cfg.DeviceID)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	return &gocvDevice{vc: vc}, nil
}

type gocvDevice struct {
	vc *gocv.VideoCapture
}

func (d *gocvDevice) Read() (image.Image, error) {
	mat := gocv.NewMat()
	defer mat.Close()

	if ok := d.vc.Read(&mat); !ok || mat.Empty() {
		return nil, errors.New("failed to read frame")
	}
	return mat.ToImage()
}

func (d *gocvDevice) Close() error {
	return d.vc.Close()
}

// PreviewShutter はプレビューウィンドウを表示し、キー入力で撮影またはキャンセルします。
// Space/Enter で撮影、Esc/q でキャンセルです。
type PreviewShutter struct {
	title string
}

var _ usecase.Shutter = (*PreviewShutter)(nil)

// NewPreviewShutter はPreviewShutterを生成します。
func NewPreviewShutter(title string) *PreviewShutter {
	return &PreviewShutter{title: title}
}

// Wait はユーザーが撮影するかキャンセルするまでプレビューを更新し続けます。
func (s *PreviewShutter) Wait(ctx context.Context, dev usecase.Device) error {
	window := gocv.NewWindow(s.title)
	defer func() { _ = window.Close() }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := dev.Read()
		if err != nil {
			return &domain.DeviceError{Op: "read", Err: err}
		}
		mat, err := gocv.ImageToMatRGB(frame)
		if err != nil {
			return &domain.DeviceError{Op: "read", Err: err}
		}
		window.IMShow(mat)
		_ = mat.Close()

		switch window.WaitKey(30) {
		case ' ', '\r', '\n':
			return nil
		case 27, 'q':
			return domain.ErrCaptureCancelled
		}
	}
}
