// Package shutter provides non-graphical Shutter implementations.
package shutter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"calorie_backend/internal/feature/capture/domain"
	"calorie_backend/internal/feature/capture/usecase"
)

// Immediate captures as soon as the device is open. Used by the kiosk HTTP endpoint,
// where the request itself is the user's shutter action.
type Immediate struct{}

var _ usecase.Shutter = Immediate{}

func (Immediate) Wait(ctx context.Context, _ usecase.Device) error {
	return ctx.Err()
}

// LineSource は端末から1行ずつ読み込みます。対話ループと同じものを共有します。
type LineSource interface {
	Next(ctx context.Context) (string, error)
}

// Terminal asks the user on a terminal: Enter captures, "q" cancels.
type Terminal struct {
	in  LineSource
	out io.Writer
}

var _ usecase.Shutter = (*Terminal)(nil)

// NewTerminal creates a Terminal shutter reading from in and prompting on out.
func NewTerminal(in LineSource, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

func (t *Terminal) Wait(ctx context.Context, _ usecase.Device) error {
	fmt.Fprint(t.out, "Camera ready. Press Enter to capture, or q + Enter to cancel: ")

	line, err := t.in.Next(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// 入力の終わりはキャンセル扱い
		return domain.ErrCaptureCancelled
	}
	if strings.EqualFold(strings.TrimSpace(line), "q") {
		return domain.ErrCaptureCancelled
	}
	return nil
}
