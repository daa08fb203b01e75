package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	analysis "calorie_backend/internal/feature/analysis/domain/entity"
	capturedomain "calorie_backend/internal/feature/capture/domain"
	captureusecase "calorie_backend/internal/feature/capture/usecase"
	journal "calorie_backend/internal/feature/journal/domain/entity"
	"calorie_backend/internal/feature/session/domain/entity"
	"calorie_backend/internal/feature/session/usecase"
)

const prompt = "[r] reanalyze  [n <file>] new photo  [c] camera  [s] save  [q] quit > "

// SessionUsecase は端末から操作するセッションのユースケースです。
type SessionUsecase interface {
	Get(ctx context.Context, id string) (*entity.Session, error)
	SelectImage(ctx context.Context, id string, img analysis.EncodedImage) (*entity.Session, error)
	CaptureFromCamera(ctx context.Context, id string) (*entity.Session, error)
	Analyze(ctx context.Context, id string) (*entity.Session, error)
	Reanalyze(ctx context.Context, id string) (*entity.Session, error)
	Wait()
}

// FileReader はファイル内容から画像を作ります。
type FileReader interface {
	FromFile(r io.Reader, declaredMIME string) (analysis.EncodedImage, error)
}

// JournalSaver は現在の結果を記録します。
type JournalSaver interface {
	SaveFromSession(ctx context.Context, sessionID string) (*journal.Entry, error)
}

// LineSource は端末から1行ずつ読み込みます。
// カメラのシャッターと同じものを渡し、標準入力の読み手を1つにします。
type LineSource interface {
	Next(ctx context.Context) (string, error)
}

// Loop は1つのセッションを端末で操作する対話ループです。
type Loop struct {
	uc      SessionUsecase
	files   FileReader
	journal JournalSaver // nilの場合は保存できない
	in      LineSource
	out     io.Writer
}

// NewLoop はLoopを生成します。
func NewLoop(uc SessionUsecase, files FileReader, journal JournalSaver, in LineSource, out io.Writer) *Loop {
	return &Loop{uc: uc, files: files, journal: journal, in: in, out: out}
}

// ReadFile はファイルを読み込みます。MIMEタイプは内容から判定し、画像以外は拒否します。
func ReadFile(files FileReader, path string) (analysis.EncodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return analysis.EncodedImage{}, err
	}
	defer f.Close()

	img, err := files.FromFile(f, "")
	if err != nil {
		return analysis.EncodedImage{}, err
	}
	if !captureusecase.IsImage(img.MIMEType) {
		return analysis.EncodedImage{}, fmt.Errorf("%w: %s is %s", capturedomain.ErrNotImage, path, img.MIMEType)
	}
	return img, nil
}

// SelectFile はファイルを選択して解析し、結果を描画します。
func (l *Loop) SelectFile(ctx context.Context, id, path string) error {
	img, err := ReadFile(l.files, path)
	if err != nil {
		return err
	}
	if _, err := l.uc.SelectImage(ctx, id, img); err != nil {
		return err
	}
	return l.analyze(ctx, id, l.uc.Analyze)
}

// Capture はカメラで撮影して解析します。キャンセルされた場合は何も変わりません。
func (l *Loop) Capture(ctx context.Context, id string) error {
	before, err := l.uc.Get(ctx, id)
	if err != nil {
		return err
	}
	s, err := l.uc.CaptureFromCamera(ctx, id)
	if err != nil {
		return err
	}
	if s.Seq == before.Seq {
		fmt.Fprintln(l.out, "Capture cancelled.")
		return nil
	}
	if s.State != entity.StateImageSelected {
		// カメラエラー
		return Render(l.out, usecase.NewView(s))
	}
	return l.analyze(ctx, id, l.uc.Analyze)
}

// Run はqまたは入力の終わりまでコマンドを処理します。
func (l *Loop) Run(ctx context.Context, id string) error {
	for {
		fmt.Fprint(l.out, "\n"+prompt)
		line, err := l.in.Next(ctx)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(l.out)
			return nil
		}
		if err != nil {
			return err
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch cmd {
		case "":
			continue
		case "q", "quit":
			return nil
		case "r", "reanalyze":
			err = l.analyze(ctx, id, l.uc.Reanalyze)
		case "n", "new":
			if arg = strings.TrimSpace(arg); arg == "" {
				fmt.Fprintln(l.out, "usage: n <file>")
				continue
			}
			err = l.SelectFile(ctx, id, arg)
		case "c", "camera":
			err = l.Capture(ctx, id)
		case "s", "save":
			err = l.Save(ctx, id)
		default:
			fmt.Fprintf(l.out, "unknown command %q\n", cmd)
			continue
		}
		if err != nil {
			slog.Debug("command failed", "command", cmd, "error", err)
			fmt.Fprintf(l.out, "Error: %v\n", err)
		}
	}
}

func (l *Loop) analyze(ctx context.Context, id string, start func(context.Context, string) (*entity.Session, error)) error {
	s, err := start(ctx, id)
	if err != nil {
		return err
	}
	if err := Render(l.out, usecase.NewView(s)); err != nil {
		return err
	}
	l.uc.Wait()

	s, err = l.uc.Get(ctx, id)
	if err != nil {
		return err
	}
	return Render(l.out, usecase.NewView(s))
}

// Save は現在の結果を記録します。
func (l *Loop) Save(ctx context.Context, id string) error {
	if l.journal == nil {
		return errors.New("journal is not configured")
	}
	e, err := l.journal.SaveFromSession(ctx, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(l.out, "Saved to journal (%s, %d kcal).\n", e.ID, e.Result().RoundedTotalCalories())
	return err
}
