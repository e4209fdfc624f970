package handlers

import (
	"net/http"

	"github.com/navkeep/submitd/internal/httpserver/deps"
	"github.com/navkeep/submitd/internal/logger"
)

// Reload triggers a manual reload of the site metadata file.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SiteReload == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"status": "no site metadata file configured",
			})
			return
		}

		select {
		case d.SiteReload <- struct{}{}:
			d.Logger.Info("manual site metadata reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("reload triggered\n"))
		default:
			d.Logger.Warn("site metadata reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("reload already in progress, please wait\n"))
		}
	}
}
