// Package domain はjournalフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrNothingToSave は結果表示中でないセッションを保存しようとしたことを示します。
	ErrNothingToSave = errors.New("session has no result to save")

	// ErrEntryNotFound はエントリが存在しないことを示します。
	ErrEntryNotFound = errors.New("journal entry not found")
)
