// Package forms holds the dashboard's form inputs: decoding from posted
// values, field validation with Portuguese messages, conditional field
// visibility and the submit lifecycle states.
package forms

import (
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"congrega/internal/domain/event"
	"congrega/internal/domain/musician"
	"congrega/internal/domain/reinforcement"
)

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

// Has reports whether field has an error.
func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Error implements error so FieldErrors can travel through error returns.
func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+": "+v)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return event.IsValidTime(fl.Field().String())
	}))
	must(v.RegisterValidation("intgte", intCompare(func(n, p int) bool { return n >= p })))
	must(v.RegisterValidation("intlte", intCompare(func(n, p int) bool { return n <= p })))
	must(v.RegisterValidation("instrument", func(fl validator.FieldLevel) bool {
		return musician.IsKnownInstrument(fl.Field().String())
	}))
	must(v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		cents, err := reinforcement.ParseAmount(fl.Field().String())
		return err == nil && cents > 0
	}))
	must(v.RegisterValidation("amount0", func(fl validator.FieldLevel) bool {
		_, err := reinforcement.ParseAmount(fl.Field().String())
		return err == nil
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func intCompare(ok func(n, p int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		if err != nil {
			return false
		}
		p, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return ok(n, p)
	}
}

// Validate checks input against its validate tags.
// Returns nil when valid. Never touches a store.
func Validate(input any) FieldErrors {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_form": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = message(name, fe.Tag(), fe.Param())
	}
	return out
}

// messages holds field-specific texts keyed "field.tag".
var messages = map[string]string{
	"name.min":                      "Nome deve ter pelo menos 3 caracteres",
	"name.max":                      "Nome muito longo",
	"address.min":                   "Endereço deve ter pelo menos 5 caracteres",
	"address.max":                   "Endereço muito longo",
	"city.min":                      "Cidade deve ter pelo menos 2 caracteres",
	"city.max":                      "Cidade muito longa",
	"state.len":                     "Use a sigla do estado (ex: SP)",
	"phone.min":                     "Telefone deve ter pelo menos 10 dígitos",
	"phone.max":                     "Telefone inválido",
	"responsible.min":               "Nome do responsável deve ter pelo menos 3 caracteres",
	"responsible.max":               "Nome muito longo",
	"capacity.number":               "Capacidade deve ser um número",
	"capacity.intgte":               "Capacidade deve ser maior que 0",
	"capacity.intlte":               "Capacidade muito alta",
	"status.required":               "Selecione o status",
	"status.oneof":                  "Selecione o status",
	"email.required":                "Informe o email",
	"email.email":                   "Email inválido",
	"password.required":             "Informe a senha",
	"current_password.required":     "Informe a senha atual",
	"new_password.required":         "Informe a nova senha",
	"new_password.min":              "A nova senha deve ter pelo menos 12 caracteres",
	"new_password.max":              "Senha muito longa",
	"confirm_password.required":     "Confirme a nova senha",
	"confirm_password.eqfield":      "As senhas não conferem",
	"instrument.required":           "Selecione um instrumento",
	"instrument.instrument":         "Selecione um instrumento",
	"congregation_id.required":      "Selecione uma congregação",
	"start_date.datetime":           "Data de início inválida",
	"notes.max":                     "Observações muito longas",
	"title.min":                     "Título deve ter pelo menos 3 caracteres",
	"title.max":                     "Título muito longo",
	"type.required":                 "Selecione o tipo de evento",
	"type.oneof":                    "Selecione o tipo de evento",
	"date.required":                 "Selecione uma data",
	"date.datetime":                 "Selecione uma data",
	"time.required":                 "Informe o horário",
	"description.max":               "Descrição muito longa",
	"expected_attendees.number":     "Número deve ser maior que 0",
	"expected_attendees.intgte":     "Número deve ser maior que 0",
	"role.required":                 "Selecione o cargo",
	"role.oneof":                    "Selecione o cargo",
	"ordination_date.required":      "Selecione a data de apresentação/ordenação",
	"ordination_date.datetime":      "Selecione a data de apresentação/ordenação",
	"ordained_by.min":               "Nome deve ter pelo menos 3 caracteres",
	"ordained_by.max":               "Nome muito longo",
	"main_congregation_id.required": "Selecione a congregação principal",
	"congregation_name.required":    "Selecione uma congregação",
	"event_type.required":           "Selecione o tipo de culto",
	"event_type.oneof":              "Selecione o tipo de culto",
	"objective.min":                 "Objetivo deve ter pelo menos 3 caracteres",
	"objective.max":                 "Objetivo muito longo",
	"goal.required":                 "Informe a meta",
	"goal.amount":                   "Meta deve ser maior que zero",
	"collected.amount0":             "Valor arrecadado inválido",
}

// fallback holds texts per tag when no field-specific one exists.
var fallback = map[string]string{
	"required": "Campo obrigatório",
	"oneof":    "Opção inválida",
	"email":    "Email inválido",
	"hhmm":     "Horário inválido (use HH:MM)",
	"datetime": "Data inválida",
	"number":   "Informe um número",
}

func message(field, tag, param string) string {
	if m, ok := messages[field+"."+tag]; ok {
		return m
	}
	// An empty value fails "required" before "min"; both read the same to the user.
	if tag == "required" {
		if m, ok := messages[field+".min"]; ok {
			return m
		}
	}
	switch tag {
	case "min":
		return "Deve ter pelo menos " + param + " caracteres"
	case "max":
		return "Deve ter no máximo " + param + " caracteres"
	}
	if m, ok := fallback[tag]; ok {
		return m
	}
	return "Valor inválido"
}

// value returns the trimmed posted value of name.
func value(v url.Values, name string) string {
	return strings.TrimSpace(v.Get(name))
}

// values returns the trimmed, non-empty posted values of name.
func values(v url.Values, name string) []string {
	var out []string
	for _, s := range v[name] {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// checked reports whether a checkbox was posted as on.
func checked(v url.Values, name string) bool {
	switch strings.ToLower(value(v, name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Encode renders input back into posted values using its form tags, so a
// stored record can be overlaid with a partial update and decoded again.
// Empty strings and false checkboxes are omitted.
func Encode(input any) url.Values {
	out := url.Values{}
	rv := reflect.Indirect(reflect.ValueOf(input))
	rt := rv.Type()
	for i := range rt.NumField() {
		name := rt.Field(i).Tag.Get("form")
		if name == "" {
			continue
		}
		switch f := rv.Field(i); f.Kind() {
		case reflect.String:
			if s := f.String(); s != "" {
				out.Set(name, s)
			}
		case reflect.Bool:
			if f.Bool() {
				out.Set(name, "true")
			}
		case reflect.Slice:
			if f.Type().Elem().Kind() == reflect.String {
				out[name] = append([]string(nil), f.Interface().([]string)...)
			}
		}
	}
	return out
}

// Overlay returns base with every key present in patch replaced by patch's values.
func Overlay(base, patch url.Values) url.Values {
	out := make(url.Values, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
