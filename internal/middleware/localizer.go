package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// displayFormat はクライアントに返す日時の表示フォーマット。
const displayFormat = "2006-01-02 15:04:05"

// timestampLayouts は日時として解釈を試みるレイアウト。
// JSONレスポンス中の文字列値のうち、いずれかで完全にパースできたものだけを
// 日時とみなして書き換える。
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// bodyRecorder はレスポンスボディをバッファし、後段で書き換え可能にする。
type bodyRecorder struct {
	http.ResponseWriter
	buf        bytes.Buffer
	statusCode int
}

// WriteHeader はステータスコードを記録する。実際の書き込みは遅延させる。
func (br *bodyRecorder) WriteHeader(code int) {
	br.statusCode = code
}

// Write はボディをバッファに溜める。
func (br *bodyRecorder) Write(b []byte) (int, error) {
	return br.buf.Write(b)
}

// NewDateLocalizerMiddleware は送出されるJSONボディを走査し、日時として
// パースできる文字列値を指定タイムゾーンの表示フォーマットに書き換える
// ミドルウェアを返す。JSONとして解釈できないボディは元のまま送出する
// （フェイルオープン）。
func NewDateLocalizerMiddleware(loc *time.Location) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &bodyRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			body := rec.buf.Bytes()

			var payload any
			if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
				// JSONでないボディには手を加えない
				w.WriteHeader(rec.statusCode)
				w.Write(body)
				return
			}

			localized, err := json.Marshal(localizeValues(payload, loc))
			if err != nil {
				w.WriteHeader(rec.statusCode)
				w.Write(body)
				return
			}

			w.WriteHeader(rec.statusCode)
			w.Write(localized)
			w.Write([]byte("\n"))
		})
	}
}

// localizeValues はJSON構造を再帰的に走査し、日時文字列を書き換える。
// オブジェクトと配列は要素ごとに再帰し、日時以外の文字列・数値・nullは
// そのまま返す。
func localizeValues(v any, loc *time.Location) any {
	switch val := v.(type) {
	case map[string]any:
		for key, elem := range val {
			val[key] = localizeValues(elem, loc)
		}
		return val
	case []any:
		for i, elem := range val {
			val[i] = localizeValues(elem, loc)
		}
		return val
	case string:
		if t, ok := parseTimestamp(val); ok {
			return t.In(loc).Format(displayFormat)
		}
		return val
	default:
		return val
	}
}

// parseTimestamp は文字列をtimestampLayoutsの順で日時としてパースする。
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
