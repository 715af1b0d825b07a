package tracker

import (
	"fmt"
	"net/http"

	"tailscale.com/tsweb"

	"github.com/banshee-data/telescope.tracker/internal/httputil"
)

// AttachAdminRoutes registers the tracker's pages on the /debug/ index.
func (t *Tracker) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.KVFunc("Tracking", func() any {
		s := t.Status()
		if !s.Tracking || s.Object == nil {
			return "nothing"
		}
		return fmt.Sprintf("%s (%s)", s.Object.LocalizedName, s.LastPayload)
	})

	debug.Handle("tracker", "current tracking status as JSON", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w, http.MethodGet)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, t.Status())
	}))

	debug.Handle("prometheus", "tracker metrics", t.cfg.Metrics.Handler())
}
