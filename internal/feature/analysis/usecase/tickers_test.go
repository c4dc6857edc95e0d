package usecase_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"stockscope/internal/feature/analysis/domain"
	"stockscope/internal/feature/analysis/usecase"
)

func TestParseTickers(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "comma and spaces", input: "AAPL, TSLA  2330.TW", expected: []string{"AAPL", "TSLA", "2330.TW"}},
		{name: "full-width comma", input: "7203.T，6758.T", expected: []string{"7203.T", "6758.T"}},
		{name: "tabs and newlines", input: "\tAAPL\nMSFT\r\n", expected: []string{"AAPL", "MSFT"}},
		{name: "ideographic space", input: "AAPL　MSFT", expected: []string{"AAPL", "MSFT"}},
		{name: "duplicates are kept", input: "AAPL,AAPL", expected: []string{"AAPL", "AAPL"}},
		{name: "case is preserved", input: "aapl", expected: []string{"aapl"}},
		{name: "only separators", input: ",, ,", expected: []string{}},
		{name: "empty", input: "", expected: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := usecase.ParseTickers(tc.input)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("result mismatch: got %#v, want %#v", got, tc.expected)
			}
		})
	}
}

func TestValidateTicker(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		ticker  string
		wantErr bool
	}{
		{name: "plain", ticker: "AAPL"},
		{name: "exchange suffix", ticker: "2330.TW"},
		{name: "class share", ticker: "BRK-B"},
		{name: "index", ticker: "^GSPC"},
		{name: "fx pair", ticker: "EURUSD=X"},
		{name: "japanese name", ticker: "トヨタ"},
		{name: "ampersand", ticker: "M&M.NS"},
		{name: "apostrophe", ticker: "BF'B"},
		{name: "braces", ticker: "{x}"},
		{name: "too long", ticker: strings.Repeat("A", usecase.MaxTickerLength+1), wantErr: true},
		{name: "quote character", ticker: `AAPL"`, wantErr: true},
		{name: "control character", ticker: "AAPL\x00", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := usecase.ValidateTicker(tc.ticker)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidTicker) {
					t.Fatalf("expected ErrInvalidTicker, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
