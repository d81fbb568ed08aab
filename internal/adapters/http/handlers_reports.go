package web

import (
	"errors"
	"net/http"
	"path"

	"congrega/internal/adapters/archive"
	"congrega/internal/adapters/http/middleware"
	"congrega/internal/application/dataaccess"
	"congrega/internal/application/forms"
	"congrega/internal/application/orchestrators"
	"congrega/internal/application/projections"
	"congrega/internal/domain/report"
)

// reportsForm is the "Gerar Relatório" form.
type reportsForm struct {
	Kind      string
	SendEmail bool
	// CanEmail is false when no recipients are configured.
	CanEmail bool
}

func (s *server) renderReports(w http.ResponseWriter, r *http.Request, status int, fv formView) {
	result, err := projections.QueryGetReports(r.Context(), projections.GetReportsQuery{
		Now: s.Now(),
	}, projections.GetReportsDeps{
		ReportStore:        s.Reports,
		EventStore:         s.Registry.Events(),
		ReinforcementStore: s.Registry.Reinforcements(),
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if fv.Input == nil {
		fv.Input = reportsForm{Kind: report.KindMonthly, CanEmail: s.canEmail()}
	}
	s.render(w, r, status, "reports.html", pageData{
		Title:  "Relatórios",
		Active: "/relatorios",
		Page:   result,
		Form:   fv,
	})
}

func (s *server) canEmail() bool {
	return s.Sender != nil && len(s.ReportRecipients) > 0
}

// handleReports handles GET /relatorios
func (s *server) handleReports(w http.ResponseWriter, r *http.Request) {
	s.renderReports(w, r, http.StatusOK, formView{})
}

// handleGenerateReport handles POST /relatorios
func (s *server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	in := reportsForm{
		Kind:      r.PostForm.Get("kind"),
		SendEmail: r.PostForm.Get("send_email") != "",
		CanEmail:  s.canEmail(),
	}
	requestedBy := "sistema"
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		requestedBy = sess.Email
	}

	if s.Archive == nil || s.Reports == nil {
		s.renderReports(w, r, http.StatusServiceUnavailable, formView{Open: true, Input: in, Notice: &forms.Notice{
			Title: "Erro ao gerar relatório", Description: "arquivo de relatórios não configurado", Error: true,
		}})
		return
	}

	g, err := orchestrators.ExecuteGenerateReport(r.Context(), orchestrators.GenerateReportInput{
		Kind:        in.Kind,
		RequestedBy: requestedBy,
		SendEmail:   in.SendEmail,
	}, orchestrators.GenerateReportDeps{
		Congregations:  s.Registry.Congregations(),
		Members:        s.Registry.MinistryMembers(),
		Musicians:      s.Registry.Musicians(),
		Events:         s.Registry.Events(),
		Reinforcements: s.Registry.Reinforcements(),
		Archive:        s.Archive,
		Reports:        s.Reports,
		Sender:         s.Sender,
		From:           s.ReportFrom,
		Recipients:     s.ReportRecipients,
		Metrics:        s.Metrics,
		Now:            s.Now,
	})
	switch {
	case errors.Is(err, report.ErrInvalidKind):
		s.renderReports(w, r, http.StatusUnprocessableEntity, formView{Open: true, Input: in,
			Errors: forms.FieldErrors{"kind": "Selecione o tipo de relatório"}})
		return
	case err != nil && g.ID != "":
		// Archived and recorded; only the email failed.
		s.flash.Set(w, middleware.Flash{Title: "Relatório gerado sem envio", Description: err.Error(), Error: true})
	case err != nil:
		s.renderReports(w, r, http.StatusInternalServerError, formView{Open: true, Input: in, Notice: &forms.Notice{
			Title: "Erro ao gerar relatório", Description: err.Error(), Error: true,
		}})
		return
	default:
		s.flash.Set(w, middleware.Flash{Title: "Relatório gerado!", Description: g.Name + " está disponível para download."})
	}
	http.Redirect(w, r, "/relatorios", http.StatusSeeOther)
}

// handleReportDownload handles GET /relatorios/{id}/arquivo
func (s *server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	if s.Archive == nil || s.Reports == nil {
		http.NotFound(w, r)
		return
	}
	g, err := s.Reports.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, dataaccess.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	body, err := s.Archive.Get(r.Context(), g.ArchiveKey)
	if errors.Is(err, archive.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(g.ArchiveKey)+`"`)
	w.Write(body)
}
