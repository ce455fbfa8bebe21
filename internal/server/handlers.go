package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func (s *Server) showForm(c *gin.Context) {
	form := formFrom(c)
	name := form.Name

	store := sessionFrom(c)
	req := orchestrator.Request{
		Form:         form.Name,
		Errors:       store,
		ThemeName:    c.Query("theme"),
		ThemeVariant: c.Query("variant"),
	}
	if form.CSRF {
		req.CSRFToken = s.csrf.Issue(store)
	}

	out, err := s.forms.Generate(c.Request.Context(), req)
	if err != nil {
		s.log.Error().Err(err).Str("form", name).Msg("render form")
		c.String(http.StatusInternalServerError, "unable to render form")
		return
	}

	var page bytes.Buffer
	if message, ok := store.Read(session.FormErrorKey); ok {
		writeAlert(&page, "alert alert-danger", message)
	}
	if message, ok := store.Flash(SuccessKey); ok {
		writeAlert(&page, "alert alert-success", message)
	}
	page.Write(out)

	// Errors are shown once.
	session.ClearErrors(store)

	c.Data(http.StatusOK, render.ContentType, page.Bytes())
}

func (s *Server) submitForm(c *gin.Context) {
	form := formFrom(c)
	name := form.Name

	store := sessionFrom(c)
	if form.CSRF {
		if err := s.csrf.Verify(store, c.PostForm(builder.CSRFField)); err != nil {
			s.log.Warn().Err(err).Str("form", name).Msg("csrf check failed")
			c.String(http.StatusForbidden, "invalid csrf token")
			return
		}
	}

	fields := form.FieldNames()
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field] = c.PostForm(field)
	}

	failures, err := validation.Fields(values, form.Rules())
	if err != nil {
		s.log.Error().Err(err).Str("form", name).Msg("validate submission")
		c.String(http.StatusInternalServerError, "unable to validate submission")
		return
	}

	session.ClearErrors(store)
	if len(failures) > 0 {
		mapping := session.RecordErrors(store, failures, fields...)
		s.log.Info().Str("form", name).Int("errors", len(mapping.Fields)).Msg("submission rejected")
	} else {
		store.Set(SuccessKey, "Thank you, your submission was received.")
		if form.CSRF {
			s.csrf.Rotate(store)
		}
		s.log.Info().Str("form", name).Msg("submission accepted")
	}

	c.Redirect(http.StatusSeeOther, "/forms/"+name)
}

func writeAlert(buf *bytes.Buffer, class, message string) {
	buf.WriteString(`<div class="` + class + `" role="alert">`)
	buf.WriteString(html.EscapeString(message))
	buf.WriteString("</div>\n")
}
