package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

const internalErrorPage = `<!doctype html>
<html lang="pt-BR"><head><meta charset="utf-8"><title>Erro interno</title></head>
<body><h1>Erro interno</h1><p>Não foi possível concluir a solicitação. Tente novamente mais tarde.</p>
<p><a href="/">Voltar ao início</a></p></body></html>
`

// Recover devolve a página genérica de erro em caso de panic.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Str("path", r.URL.Path).Msg("panic recuperado")
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// InternalError responde a página genérica de erro 500.
func InternalError(w http.ResponseWriter) {
	writeInternalError(w)
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(internalErrorPage))
}
