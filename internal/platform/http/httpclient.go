// Package http は外部API呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient はGemini APIなどの外部API呼び出し用HTTPクライアントを作成します。
//
// timeout はリクエスト全体の上限です。0 の場合は上限を設けず、
// 接続確立（Dial）とTLSハンドシェイクのタイムアウトのみが効きます。
//
// 一括分析では同一ホストへ銘柄数ぶんの並列リクエストが発生するため、
// ホストごとのアイドル接続数をデフォルト（2）より大きく取ります。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
