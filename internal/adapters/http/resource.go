package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"congrega/internal/adapters/http/middleware"
	"congrega/internal/application/dataaccess"
	"congrega/internal/application/forms"
	"congrega/internal/application/orchestrators"
)

// maxBodyBytes caps posted forms and JSON bodies.
const maxBodyBytes = 1 << 20

// recordHook is the part of a data-access hook the routes call directly.
type recordHook[T any] interface {
	Get(ctx context.Context, id string) (T, error)
	Delete(ctx context.Context, id string) error
}

// resource binds one entity's page, modal form and JSON API.
// F is the entity's form input.
type resource[T any, F any] struct {
	path  string
	api   string
	title string
	// label names one record in delete toasts, e.g. "Congregação".
	label string
	page  string

	hook   recordHook[T]
	list   func(ctx context.Context) ([]T, error)
	view   func(r *http.Request) (any, error)
	decode func(url.Values) F
	blank  func() F
	from   func(T) F
	submit func(ctx context.Context, id string, form F) forms.Outcome[T]
	// fields returns the visible fields of form; nil means all.
	fields func(form F) []string
}

func (rs resource[T, F]) register(mux *http.ServeMux, s *server) {
	mux.Handle("GET "+rs.path, s.protect(rs.handlePage(s)))
	mux.Handle("POST "+rs.path, s.protect(rs.handleSubmit(s, false)))
	mux.Handle("POST "+rs.path+"/{id}", s.protect(rs.handleSubmit(s, true)))
	mux.Handle("POST "+rs.path+"/{id}/excluir", s.protect(rs.handleDelete(s)))

	mux.Handle("GET "+rs.api, s.protect(rs.handleAPIList))
	mux.Handle("POST "+rs.api, s.protect(rs.handleAPISubmit(false)))
	mux.Handle("GET "+rs.api+"/{id}", s.protect(rs.handleAPIGet))
	mux.Handle("PUT "+rs.api+"/{id}", s.protect(rs.handleAPISubmit(true)))
	mux.Handle("DELETE "+rs.api+"/{id}", s.protect(rs.handleAPIDelete))
}

func (rs resource[T, F]) formFor(form F) formView {
	fv := formView{Open: true, Input: form}
	if rs.fields != nil {
		fv.Fields = rs.fields(form)
	}
	return fv
}

// handlePage handles GET on the page path. ?novo=1 opens an empty form,
// ?editar={id} opens the form pre-populated from the record.
func (rs resource[T, F]) handlePage(s *server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var fv formView
		status := http.StatusOK
		switch {
		case q.Get("editar") != "":
			id := q.Get("editar")
			record, err := rs.hook.Get(r.Context(), id)
			switch {
			case errors.Is(err, dataaccess.ErrNotFound):
				status = http.StatusNotFound
				fv.Notice = &forms.Notice{Title: "Registro não encontrado", Description: err.Error(), Error: true}
			case err != nil:
				internalError(w, err)
				return
			default:
				fv = rs.formFor(rs.from(record))
				fv.ID = id
			}
		case q.Get("novo") != "":
			fv = rs.formFor(rs.blank())
		default:
			fv.Input = rs.blank()
		}
		rs.renderPage(w, r, s, status, fv)
	}
}

func (rs resource[T, F]) renderPage(w http.ResponseWriter, r *http.Request, s *server, status int, fv formView) {
	page, err := rs.view(r)
	if err != nil {
		internalError(w, err)
		return
	}
	s.render(w, r, status, rs.page, pageData{
		Title:  rs.title,
		Active: rs.path,
		Page:   page,
		Form:   fv,
	})
}

// handleSubmit handles the create (POST path) and update (POST path/{id}) forms.
// Success redirects with a toast; Invalid (422) and Failed (500, 404 or 409) re-render
// the page with the modal open and the posted input kept.
func (rs resource[T, F]) handleSubmit(s *server, update bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		id := ""
		if update {
			id = r.PathValue("id")
		}
		form := rs.decode(r.PostForm)
		outcome := rs.submit(r.Context(), id, form)

		switch outcome.State {
		case forms.StateSuccess:
			s.flash.Set(w, flashOf(outcome.Notice))
			http.Redirect(w, r, rs.path, http.StatusSeeOther)
		case forms.StateInvalid:
			fv := rs.formFor(form)
			fv.ID = id
			fv.Errors = outcome.FieldErrors
			rs.renderPage(w, r, s, http.StatusUnprocessableEntity, fv)
		default:
			fv := rs.formFor(form)
			fv.ID = id
			fv.Notice = &outcome.Notice
			rs.renderPage(w, r, s, failureStatus(outcome.Err), fv)
		}
	}
}

// handleDelete handles POST path/{id}/excluir.
func (rs resource[T, F]) handleDelete(s *server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Failures are logged by the orchestrator and shown through the notice.
		notice, _ := orchestrators.ExecuteDeleteRecord(r.Context(), orchestrators.DeleteRecordInput{
			ID:    r.PathValue("id"),
			Label: rs.label,
		}, orchestrators.DeleteRecordDeps{Records: rs.hook})
		s.flash.Set(w, flashOf(notice))
		http.Redirect(w, r, rs.path, http.StatusSeeOther)
	}
}

func (rs resource[T, F]) handleAPIList(w http.ResponseWriter, r *http.Request) {
	list, err := rs.list(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (rs resource[T, F]) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	record, err := rs.hook.Get(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, dataaccess.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case err != nil:
		internalError(w, err)
	default:
		writeJSON(w, http.StatusOK, record)
	}
}

// handleAPISubmit handles POST api (create) and PUT api/{id} (update).
// The body is a JSON object keyed by form field names. An update only needs
// the changed keys; the rest come from the stored record.
func (rs resource[T, F]) handleAPISubmit(update bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := decodeJSONForm(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		id := ""
		status := http.StatusCreated
		if update {
			id = r.PathValue("id")
			status = http.StatusOK
			existing, err := rs.hook.Get(r.Context(), id)
			switch {
			case errors.Is(err, dataaccess.ErrNotFound):
				writeJSONError(w, http.StatusNotFound, err.Error())
				return
			case err != nil:
				internalError(w, err)
				return
			}
			values = forms.Overlay(forms.Encode(rs.from(existing)), values)
		}
		outcome := rs.submit(r.Context(), id, rs.decode(values))
		switch outcome.State {
		case forms.StateSuccess:
			writeJSON(w, status, outcome.Record)
		case forms.StateInvalid:
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "dados inválidos",
				"fields": outcome.FieldErrors,
			})
		default:
			writeJSONError(w, failureStatus(outcome.Err), outcome.Err.Error())
		}
	}
}

// failureStatus maps a failed save to its HTTP status.
func failureStatus(err error) int {
	switch {
	case errors.Is(err, dataaccess.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataaccess.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (rs resource[T, F]) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteDeleteRecord(r.Context(), orchestrators.DeleteRecordInput{
		ID:    r.PathValue("id"),
		Label: rs.label,
	}, orchestrators.DeleteRecordDeps{Records: rs.hook})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSONForm reads a flat JSON object into form values so API calls go
// through the same decoding and validation as posted forms. Arrays become
// repeated values and an empty array clears the field; null is skipped.
func decodeJSONForm(body io.Reader) (url.Values, error) {
	var raw map[string]any
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	values := url.Values{}
	for key, v := range raw {
		switch v := v.(type) {
		case nil:
		case []any:
			values[key] = []string{}
			for _, item := range v {
				s, err := scalar(key, item)
				if err != nil {
					return nil, err
				}
				values.Add(key, s)
			}
		default:
			s, err := scalar(key, v)
			if err != nil {
				return nil, err
			}
			values.Set(key, s)
		}
	}
	return values, nil
}

func scalar(key string, v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return "", fmt.Errorf("field %q must be a string, number or boolean", key)
}

func flashOf(n forms.Notice) middleware.Flash {
	return middleware.Flash{Title: n.Title, Description: n.Description, Error: n.Error}
}
