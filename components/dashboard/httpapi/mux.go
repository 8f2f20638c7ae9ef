package httpapi

import (
	"net/http"

	"github.com/goliatone/go-commsdash/components/dashboard"
)

// Register mounts the handlers on mux under prefix using method-qualified
// patterns. A non-nil broadcast adds the /ws and /events streams.
func Register(mux *http.ServeMux, prefix string, h *Handlers, broadcast *dashboard.BroadcastHook) {
	mux.HandleFunc("GET "+prefix+"/sections", h.HandleSections)
	mux.HandleFunc("POST "+prefix+"/sessions", h.HandleOpenSession)
	mux.HandleFunc("DELETE "+prefix+"/sessions/{session}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleCloseSession(w, r, r.PathValue("session"))
	})
	mux.HandleFunc("POST "+prefix+"/sessions/{session}/sections/{section}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleOpenSection(w, r, r.PathValue("session"), r.PathValue("section"))
	})
	mux.HandleFunc("GET "+prefix+"/sessions/{session}/views/{view}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleSnapshot(w, r, r.PathValue("session"), r.PathValue("view"))
	})
	mux.HandleFunc("POST "+prefix+"/sessions/{session}/views/{view}/filters", func(w http.ResponseWriter, r *http.Request) {
		h.HandleApplyFilters(w, r, r.PathValue("session"), r.PathValue("view"))
	})
	mux.HandleFunc("DELETE "+prefix+"/sessions/{session}/views/{view}/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleDeleteRecord(w, r, r.PathValue("session"), r.PathValue("view"), r.PathValue("id"))
	})
	mux.HandleFunc("POST "+prefix+"/sessions/{session}/views/{view}/records/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
		h.HandleToggleRecord(w, r, r.PathValue("session"), r.PathValue("view"), r.PathValue("id"))
	})
	mux.HandleFunc("GET "+prefix+"/sessions/{session}/panels/{panel}", func(w http.ResponseWriter, r *http.Request) {
		h.HandlePanel(w, r, r.PathValue("session"), r.PathValue("panel"))
	})
	mux.HandleFunc("GET "+prefix+"/collections/{entity}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleCollection(w, r, r.PathValue("entity"))
	})
	if broadcast != nil {
		mux.HandleFunc("GET "+prefix+"/ws", broadcast.ServeWebSocket)
		mux.HandleFunc("GET "+prefix+"/events", broadcast.ServeSSE)
	}
}
