// Package terminal は端末入力を複数の利用者で共有するための行リーダーを提供します。
package terminal

import (
	"bufio"
	"context"
	"io"
)

// Lines は1つのio.Readerを1つのgoroutineだけで読み、行単位で受け渡します。
// 送信はバッファなしのチャネルで行うため、ctxで待つのをやめた利用者が
// 次の行を奪うことはありません。
type Lines struct {
	lines chan string
	err   error // linesをcloseする前に書き込む
}

// NewLines はrを読むLinesを生成します。
func NewLines(r io.Reader) *Lines {
	l := &Lines{lines: make(chan string)}
	go l.read(r)
	return l
}

func (l *Lines) read(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l.lines <- sc.Text()
	}
	l.err = sc.Err()
	close(l.lines)
}

// Next は次の1行を返します。入力の終わりではio.EOFを返します。
func (l *Lines) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			if l.err != nil {
				return "", l.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}
