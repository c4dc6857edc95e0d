// Package domain はanalysisフィーチャーのドメインエラーを定義します。
package domain

import (
	"errors"
	"fmt"
)

// ErrBatchFailure は一括分析のいずれかの銘柄で失敗したことを表します。
// 部分的な成功は扱わず、バッチ全体を失敗とみなします。
var ErrBatchFailure = errors.New("batch analysis failed")

var (
	// ErrInvalidTicker は銘柄コードの形式が不正であることを表します。
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrEmptyResult は外部サービスが結果を返さなかったことを表します。
	ErrEmptyResult = errors.New("empty analysis result")
)

// BatchError はバッチ失敗の原因となった銘柄とエラーを保持します。
// ユーザーには表示せず、ログにのみ出力します。
type BatchError struct {
	Ticker string
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: ticker %q: %v", ErrBatchFailure, e.Ticker, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Is は errors.Is(err, ErrBatchFailure) を満たすようにします。
func (e *BatchError) Is(target error) bool {
	return target == ErrBatchFailure
}
