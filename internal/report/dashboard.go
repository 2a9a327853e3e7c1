// Package report monta o painel administrativo a partir dos agregados da pesquisa e da ouvidoria.
package report

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gestaozabele/sst/internal/ouvidoria"
	"github.com/gestaozabele/sst/internal/service"
	"github.com/gestaozabele/sst/internal/survey"
)

// LatestCommentsLimit é o número de comentários recentes exibidos.
const LatestCommentsLimit = 5

// SurveyReader expõe as leituras agregadas da pesquisa.
type SurveyReader interface {
	TotalCount(ctx context.Context) (int, error)
	AggregateBy(ctx context.Context, field survey.Field) ([]survey.Count, error)
	CountWithComments(ctx context.Context) (int, error)
	LatestComments(ctx context.Context, limit int) ([]survey.Comment, error)
}

// OuvidoriaReader expõe as leituras agregadas da ouvidoria.
type OuvidoriaReader interface {
	Totals(ctx context.Context) (ouvidoria.Totals, error)
	AggregateByCategory(ctx context.Context) ([]ouvidoria.Count, error)
}

// QuestionSummary agrega uma pergunta da pesquisa.
type QuestionSummary struct {
	Field    survey.Field
	Question string
	Counts   []survey.Count
}

// Dashboard é o modelo de visão do painel.
type Dashboard struct {
	SurveyTotal        int
	Questions          []QuestionSummary
	SurveyWithComments int
	LatestComments     []survey.Comment

	MessagesTotal     int
	MessagesResponded int
	MessagesOpen      int
	Categories        []ouvidoria.Count
}

// Question devolve o resumo de uma pergunta.
func (d Dashboard) Question(field survey.Field) QuestionSummary {
	for _, q := range d.Questions {
		if q.Field == field {
			return q
		}
	}
	return QuestionSummary{Field: field, Question: field.Question()}
}

// Assembler recalcula o painel a cada chamada.
type Assembler struct {
	surveys  SurveyReader
	messages OuvidoriaReader
}

// NewAssembler cria o montador.
func NewAssembler(surveys SurveyReader, messages OuvidoriaReader) *Assembler {
	return &Assembler{surveys: surveys, messages: messages}
}

// Build exige admin e lê todos os agregados em paralelo.
func (a *Assembler) Build(ctx context.Context, sc service.SessionContext) (Dashboard, error) {
	if _, err := sc.RequireAdmin(); err != nil {
		return Dashboard{}, err
	}

	var d Dashboard
	d.Questions = make([]QuestionSummary, len(survey.Fields))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.SurveyTotal, err = a.surveys.TotalCount(gctx)
		return err
	})
	for i, field := range survey.Fields {
		g.Go(func() error {
			counts, err := a.surveys.AggregateBy(gctx, field)
			if err != nil {
				return err
			}
			d.Questions[i] = QuestionSummary{Field: field, Question: field.Question(), Counts: counts}
			return nil
		})
	}
	g.Go(func() (err error) {
		d.SurveyWithComments, err = a.surveys.CountWithComments(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.LatestComments, err = a.surveys.LatestComments(gctx, LatestCommentsLimit)
		return err
	})
	g.Go(func() error {
		totals, err := a.messages.Totals(gctx)
		if err != nil {
			return err
		}
		d.MessagesTotal = totals.Total
		d.MessagesResponded = totals.Responded
		d.MessagesOpen = totals.Open()
		return nil
	})
	g.Go(func() (err error) {
		d.Categories, err = a.messages.AggregateByCategory(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return d, nil
}
