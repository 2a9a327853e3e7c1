package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	httpmiddleware "github.com/gestaozabele/sst/internal/http/middleware"
	"github.com/gestaozabele/sst/internal/ouvidoria"
	"github.com/gestaozabele/sst/internal/session"
	"github.com/gestaozabele/sst/internal/util"
)

const msgMessageNotFound = "Mensagem não encontrada."

type ouvidoriaView struct {
	Categories []string
	Messages   []ouvidoria.Message
}

type responsesView struct {
	Messages       []ouvidoria.Message
	AllowOverwrite bool
}

// OuvidoriaForm exibe o formulário e as mensagens do próprio usuário.
func (h *Handler) OuvidoriaForm(w http.ResponseWriter, r *http.Request) {
	user, err := httpmiddleware.GetSessionContext(r.Context()).RequireAuthenticated()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	msgs, err := h.messages.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "ouvidoria", "Ouvidoria", ouvidoriaView{Categories: ouvidoria.Categories, Messages: msgs})
}

// OuvidoriaSubmit registra mensagem em nome do usuário logado.
func (h *Handler) OuvidoriaSubmit(w http.ResponseWriter, r *http.Request) {
	user, err := httpmiddleware.GetSessionContext(r.Context()).RequireAuthenticated()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	_, err = h.messages.Submit(r.Context(), user.ID, ouvidoria.SubmitInput{
		Category:    r.PostFormValue("category"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	})
	if err != nil {
		if msg, ok := util.ValidationMessage(err); ok {
			h.flashRedirect(w, r, session.FlashError, msg, "/ouvidoria")
			return
		}
		h.fail(w, r, err)
		return
	}

	h.flashRedirect(w, r, session.FlashSuccess, "Mensagem enviada com sucesso!", "/ouvidoria")
}

// OuvidoriaResponses lista todas as mensagens para a administração.
func (h *Handler) OuvidoriaResponses(w http.ResponseWriter, r *http.Request) {
	if _, err := httpmiddleware.GetSessionContext(r.Context()).RequireAdmin(); err != nil {
		h.fail(w, r, err)
		return
	}

	msgs, err := h.messages.ListAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "respostas", "Respostas da ouvidoria", responsesView{
		Messages:       msgs,
		AllowOverwrite: h.messages.Policy() == ouvidoria.PolicyOverwrite,
	})
}

// OuvidoriaRespond grava a resposta da administração.
func (h *Handler) OuvidoriaRespond(w http.ResponseWriter, r *http.Request) {
	if _, err := httpmiddleware.GetSessionContext(r.Context()).RequireAdmin(); err != nil {
		h.fail(w, r, err)
		return
	}

	const back = "/ouvidoria/respostas"

	id, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("message_id")), 10, 64)
	if err != nil || id <= 0 {
		h.flashRedirect(w, r, session.FlashError, msgMessageNotFound, back)
		return
	}

	_, err = h.messages.Respond(r.Context(), id, r.PostFormValue("response"))
	switch {
	case err == nil:
		h.flashRedirect(w, r, session.FlashSuccess, "Resposta registrada.", back)
	case errors.Is(err, ouvidoria.ErrNotFound):
		h.flashRedirect(w, r, session.FlashError, msgMessageNotFound, back)
	case errors.Is(err, ouvidoria.ErrAlreadyResponded):
		h.flashRedirect(w, r, session.FlashError, "Esta mensagem já foi respondida.", back)
	default:
		if msg, ok := util.ValidationMessage(err); ok {
			h.flashRedirect(w, r, session.FlashError, msg, back)
			return
		}
		h.fail(w, r, err)
	}
}
