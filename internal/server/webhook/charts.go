package webhook

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/dmitrijs2005/mealbot/internal/common"
	"github.com/dmitrijs2005/mealbot/internal/server/auth"
	"github.com/go-chi/chi/v5"
)

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request) {
	name, err := auth.ParseChartToken(chi.URLParam(r, "token"), s.opts.ChartSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			http.Error(w, "link expired", http.StatusGone)
			return
		}
		http.NotFound(w, r)
		return
	}

	if filepath.Base(name) != name || filepath.Ext(name) != ".png" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=900")
	http.ServeFile(w, r, filepath.Join(s.opts.ChartDir, name))
}
