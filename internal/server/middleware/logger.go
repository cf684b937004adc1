// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/logger"
)

// StatusRecorder запоминает статус и размер ответа.
//
// Фиксируется первый записанный статус: повторный WriteHeader net/http всё
// равно игнорирует. Flush и Unwrap пробрасываются в исходный writer, поэтому
// http.ResponseController продолжает работать через мидлу.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
	Size   int
}

func (w *StatusRecorder) WriteHeader(status int) {
	if w.Status == 0 {
		w.Status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecorder) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	size, err := w.ResponseWriter.Write(b)
	w.Size += size
	return size, err
}

// Flush отправляет буферизованные данные клиенту, если writer это умеет.
func (w *StatusRecorder) Flush() {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap возвращает исходный http.ResponseWriter.
func (w *StatusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LoggerMiddleware пишет в log одну запись на каждый входящий запрос.
//
// Если хендлер ничего не записал, в лог попадает 200: именно его отдаст net/http.
func LoggerMiddleware(log *logger.HTTPLogger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &StatusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.Status
			if status == 0 {
				status = http.StatusOK
			}
			log.LogRequest(r.Method, r.RequestURI, status, rec.Size, float64(time.Since(start).Microseconds())/1000)
		})
	}
}
