// Package http は外部API呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は推論プロバイダー呼び出し用に設定されたHTTPクライアントを作成します。
//
// 接続確立（TCP接続とTLSハンドシェイク）にのみ上限を設けます。
// timeoutに0を渡すと応答待ちは無制限になり、呼び出しの打ち切りはctxに委ねられます。
// 画像付きの推論は数十秒かかることがあるため、推論クライアントは0で生成します。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
