package http

import (
	"net/http"

	"github.com/gestaozabele/sst/internal/session"
	"github.com/gestaozabele/sst/internal/survey"
	"github.com/gestaozabele/sst/internal/util"
)

type surveyQuestion struct {
	Field    survey.Field
	Question string
	Options  []string
}

type surveyView struct {
	Questions []surveyQuestion
}

// SurveyForm exibe o questionário.
func (h *Handler) SurveyForm(w http.ResponseWriter, r *http.Request) {
	view := surveyView{Questions: make([]surveyQuestion, 0, len(survey.Fields))}
	for _, f := range survey.Fields {
		view.Questions = append(view.Questions, surveyQuestion{Field: f, Question: f.Question(), Options: f.Options()})
	}
	h.render(w, r, "survey", "Pesquisa", view)
}

// SurveySubmit registra uma resposta.
func (h *Handler) SurveySubmit(w http.ResponseWriter, r *http.Request) {
	_, err := h.surveys.Submit(r.Context(), survey.SubmitInput{
		Satisfaction:     r.PostFormValue(string(survey.FieldSatisfaction)),
		SafetyPerception: r.PostFormValue(string(survey.FieldSafetyPerception)),
		SupportAccess:    r.PostFormValue(string(survey.FieldSupportAccess)),
		Comments:         r.PostFormValue("comments"),
	})
	if err != nil {
		if msg, ok := util.ValidationMessage(err); ok {
			h.flashRedirect(w, r, session.FlashError, msg, "/survey")
			return
		}
		h.fail(w, r, err)
		return
	}

	h.flashRedirect(w, r, session.FlashSuccess, "Resposta registrada com sucesso!", "/survey")
}
