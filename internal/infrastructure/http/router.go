package httpapi

import "net/http"

func NewRouter(handler *WebhookHandler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/webhook", handler)

	return mux
}
