package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent は外部API呼び出し時に付与する User-Agent です。
const DefaultUserAgent = "country-explorer/1.0"

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConns: 最大アイドル接続数
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
//   - User-Agent が未設定のリクエストには DefaultUserAgent を付与する
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: &userAgentTransport{next: t, agent: DefaultUserAgent}}
}

type userAgentTransport struct {
	next  http.RoundTripper
	agent string
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	// RoundTripper はリクエストを書き換えてはならないため複製する
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", u.agent)
	return u.next.RoundTrip(r)
}
