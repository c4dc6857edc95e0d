package usecase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"stockscope/internal/feature/analysis/domain"
)

// MaxTickerLength は銘柄コードの最大文字数（rune数）です。
const MaxTickerLength = 32

// isSeparator はカンマ・全角カンマ・空白を区切り文字として扱います。
func isSeparator(r rune) bool {
	return r == ',' || r == '，' || unicode.IsSpace(r)
}

// ParseTickers は自由入力の文字列を銘柄コードのリストに分割します。
// 連続する区切り文字は1つとして扱い、空の要素は除外します。重複はそのまま残します。
func ParseTickers(raw string) []string {
	fields := strings.FieldsFunc(raw, isSeparator)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ValidateTicker は銘柄コードの長さを検証します。
// 文字種は制限しません（M&M.NS, BF'B など）。プロンプト内で銘柄を囲むダブルクォートと制御文字のみ拒否します。
func ValidateTicker(ticker string) error {
	if utf8.RuneCountInString(ticker) > MaxTickerLength {
		return fmt.Errorf("%w: exceeds maximum length of %d characters", domain.ErrInvalidTicker, MaxTickerLength)
	}
	if strings.ContainsFunc(ticker, isForbidden) {
		return fmt.Errorf("%w: contains a quote or control character", domain.ErrInvalidTicker)
	}
	return nil
}

func isForbidden(r rune) bool {
	return r == '"' || unicode.IsControl(r)
}
