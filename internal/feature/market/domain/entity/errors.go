package entity

import (
	"errors"
	"fmt"
)

// ErrNoTrackedCoins は追跡対象の銘柄が1件も設定されていないことを示します。
var ErrNoTrackedCoins = errors.New("no tracked coins configured")

// FetchError はマーケットフィードへの通信失敗、または2xx以外のステータスを表します。
type FetchError struct {
	Status int // HTTPステータス。通信自体に失敗した場合は0
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("market feed http %d", e.Status)
	}
	return fmt.Sprintf("market feed request failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError はレスポンスボディが期待する形式にデコードできないことを表します。
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("market feed decode failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
