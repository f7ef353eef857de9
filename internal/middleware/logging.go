package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// RequestRecorder はHTTPリクエストのメトリクス記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type RequestRecorder interface {
	RecordRequest(method string, statusCode int, duration time.Duration)
}

// userIDHolder は下流の認証ミドルウェアが解決したユーザーIDを上流の
// ロギングミドルウェアへ伝えるための可変ホルダー。認証はコンテキストを
// 派生させるため、上流からは注入された値そのものは見えない。
type userIDHolder struct {
	id string
}

// userIDHolderKey はリクエストコンテキストにuserIDHolderを格納するためのキー。
var userIDHolderKey = contextKey("user_id_holder")

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力し、
// メトリクスを記録するミドルウェアを返す。
// ログにはmethod、path、status、duration_ms、user_id（認証済みの場合）を含む。
// recorderがnilの場合はメトリクス記録をスキップする。
func NewLoggingMiddleware(logger *slog.Logger, recorder RequestRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			holder := &userIDHolder{}
			r = r.WithContext(context.WithValue(r.Context(), userIDHolderKey, holder))

			next.ServeHTTP(rec, r)

			duration := time.Since(start)

			if recorder != nil {
				recorder.RecordRequest(r.Method, rec.statusCode, duration)
			}

			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", float64(duration.Nanoseconds())/float64(time.Millisecond)),
			}

			// 下流の認証ミドルウェアが解決したユーザーがいれば追加
			if holder.id != "" {
				args = append(args, slog.String("user_id", holder.id))
			} else if user, err := UserFromContext(r.Context()); err == nil {
				args = append(args, slog.String("user_id", user.ID))
			}

			// ステータスコードに応じてログレベルを変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
