// Package domain はsessionフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrSessionNotFound はセッションが存在しない（期限切れ・削除済み）ことを示します。
	ErrSessionNotFound = errors.New("session not found")

	// ErrAnalysisInProgress は解析中に再度解析を要求したことを示します（UI上はボタンが無効な状態）。
	ErrAnalysisInProgress = errors.New("analysis already in progress")

	// ErrNoResult は結果がない状態で結果を必要とする操作をしたことを示します。
	ErrNoResult = errors.New("no analysis result")
)
