package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/bookforge/internal/template"
)

// TemplateInfo is one catalog entry in the templates response.
type TemplateInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	TitleFont   string `json:"title_font"`
	BodyFont    string `json:"body_font"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	all := template.All()
	out := make([]TemplateInfo, 0, len(all))
	for _, t := range all {
		out = append(out, TemplateInfo{
			Name:        t.Name,
			DisplayName: t.DisplayName,
			Description: t.Description,
			TitleFont:   t.TitleStyle.Font,
			BodyFont:    t.ParagraphStyle.Font,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"templates": out,
		"default":   s.cfg.DefaultTemplate,
	})
}
