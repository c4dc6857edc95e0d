// Package web はダッシュボードのHTMLテンプレートを提供します。
package web

import (
	"embed"
	"fmt"
	"html/template"
	"math"

	analysisentity "stockscope/internal/feature/analysis/domain/entity"
	"stockscope/internal/feature/dashboard/domain/entity"
	"stockscope/internal/feature/dashboard/presenter"
)

// DashboardTemplate はダッシュボード画面のテンプレート名です。
const DashboardTemplate = "dashboard.html"

//go:embed templates/*.html
var files embed.FS

// Templates はダッシュボード用テンプレートを読み込みます。gin の SetHTMLTemplate に渡します。
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

// Funcs はテンプレートで使う表示用関数です。
func Funcs() template.FuncMap {
	return template.FuncMap{
		"price":        price,
		"optional":     optional,
		"signed":       signed,
		"magnitude":    magnitude,
		"formatVolume": presenter.FormatVolume,
		"sortMark":     sortMark,
	}
}

func price(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// optional は未提供の値を "-" で表示します。
func optional(o analysisentity.Optional[float64]) string {
	if !o.Valid {
		return "-"
	}
	return price(o.Value)
}

func signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// magnitude は符号を付けずに絶対値を表示します。向きは符号クラスで表します。
func magnitude(v float64) string {
	return price(math.Abs(v))
}

// sortMark は現在の並び替え列に方向の記号を付けます。
func sortMark(v presenter.View, key string) string {
	if string(v.SortKey) != key {
		return ""
	}
	if v.SortDirection == entity.Ascending {
		return "▲"
	}
	return "▼"
}
