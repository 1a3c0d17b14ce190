package dto

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Unknown は未観測の値の表示文字列です。0とは区別して表示します。
const Unknown = "unknown"

// Trend は変化率の色分けに使う向きです。
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
	TrendUnknown  Trend = "unknown"
)

// FormatPrice は価格を小数点以下8桁で表示します（例: "$0.00012345"）。
func FormatPrice(v *float64) string {
	if v == nil {
		return Unknown
	}
	return "$" + decimal.NewFromFloat(*v).StringFixed(8)
}

// FormatMarketCap は時価総額を3桁区切りで表示します（例: "$1,234,567"）。
func FormatMarketCap(v *float64) string {
	if v == nil {
		return Unknown
	}
	p := message.NewPrinter(language.English)
	return "$" + p.Sprint(number.Decimal(*v, number.MaxFractionDigits(3)))
}

// FormatPercent は変化率を小数点以下2桁のパーセントで表示します（例: "-3.45%"）。
func FormatPercent(v *float64) string {
	if v == nil {
		return Unknown
	}
	return decimal.NewFromFloat(*v).StringFixed(2) + "%"
}

// TrendOf は0より大きければpositive、それ以外はnegativeを返します。
func TrendOf(v *float64) Trend {
	switch {
	case v == nil:
		return TrendUnknown
	case *v > 0:
		return TrendPositive
	default:
		return TrendNegative
	}
}
