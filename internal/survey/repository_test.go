package survey

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/sst/internal/db/dbtest"
	"github.com/gestaozabele/sst/internal/util"
)

func submit(t *testing.T, r *Repository, satisfaction, safety, support, comments string) Response {
	t.Helper()
	resp, err := r.Submit(context.Background(), SubmitInput{
		Satisfaction:     satisfaction,
		SafetyPerception: safety,
		SupportAccess:    support,
		Comments:         comments,
	})
	require.NoError(t, err)
	return resp
}

func TestSubmitSingleResponse(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(dbtest.New(t))

	resp := submit(t, r, "Satisfeito", "Seguro", "Fácil", "")
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Satisfeito", resp.Satisfaction)
	assert.Equal(t, "Seguro", resp.SafetyPerception)
	assert.Equal(t, "Fácil", resp.SupportAccess)
	assert.Nil(t, resp.Comments)
	assert.False(t, resp.CreatedAt.IsZero())

	total, err := r.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	counts, err := r.AggregateBy(ctx, FieldSatisfaction)
	require.NoError(t, err)
	assert.Equal(t, []Count{{Label: "Satisfeito", Count: 1}}, counts)
}

func TestSubmitRejectsMissingAnswers(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(dbtest.New(t))

	cases := []SubmitInput{
		{SafetyPerception: "Seguro", SupportAccess: "Fácil"},
		{Satisfaction: "Satisfeito", SupportAccess: "Fácil"},
		{Satisfaction: "Satisfeito", SafetyPerception: "Seguro"},
		{},
	}
	for _, in := range cases {
		_, err := r.Submit(ctx, in)
		require.Error(t, err)
		msg, ok := util.ValidationMessage(err)
		require.True(t, ok)
		assert.Equal(t, MsgMissingAnswers, msg)
	}

	total, err := r.TotalCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSubmitStoresAnswersAsReceived(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t)
	r := NewRepository(conn)

	in := SubmitInput{
		Satisfaction:     " Satisfeito",
		SafetyPerception: "Seguro\t",
		SupportAccess:    "Fácil",
		Comments:         "  ok  ",
	}
	resp, err := r.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in.Satisfaction, resp.Satisfaction)
	assert.Equal(t, in.SafetyPerception, resp.SafetyPerception)
	assert.Equal(t, in.SupportAccess, resp.SupportAccess)
	require.NotNil(t, resp.Comments)
	assert.Equal(t, in.Comments, *resp.Comments)

	var stored Response
	require.NoError(t, conn.GetContext(ctx, &stored,
		`SELECT id, satisfaction, safety_perception, support_access, comments, created_at FROM survey_responses WHERE id = ?`, resp.ID))
	assert.Equal(t, in.Satisfaction, stored.Satisfaction)
	assert.Equal(t, in.SafetyPerception, stored.SafetyPerception)
	require.NotNil(t, stored.Comments)
	assert.Equal(t, in.Comments, *stored.Comments)

	counts, err := r.AggregateBy(ctx, FieldSatisfaction)
	require.NoError(t, err)
	assert.Equal(t, []Count{{Label: " Satisfeito", Count: 1}}, counts)
}

func TestAggregateOrderAndSums(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(dbtest.New(t))

	submit(t, r, "Neutro", "Seguro", "Fácil", "")
	submit(t, r, "Satisfeito", "Seguro", "Difícil", "")
	submit(t, r, "Satisfeito", "Inseguro", "Razoável", "")
	submit(t, r, "Insatisfeito", "Seguro", "Difícil", "")

	counts, err := r.AggregateBy(ctx, FieldSatisfaction)
	require.NoError(t, err)
	assert.Equal(t, []Count{
		{Label: "Satisfeito", Count: 2},
		{Label: "Neutro", Count: 1},
		{Label: "Insatisfeito", Count: 1},
	}, counts)

	total, err := r.TotalCount(ctx)
	require.NoError(t, err)
	for _, field := range Fields {
		counts, err := r.AggregateBy(ctx, field)
		require.NoError(t, err)
		sum := 0
		for _, c := range counts {
			sum += c.Count
		}
		assert.Equal(t, total, sum, field)
	}
}

func TestAggregateRejectsUnknownField(t *testing.T) {
	r := NewRepository(dbtest.New(t))

	_, err := r.AggregateBy(context.Background(), Field("comments; DROP TABLE users"))
	require.Error(t, err)
}

func TestAggregateEmpty(t *testing.T) {
	r := NewRepository(dbtest.New(t))

	counts, err := r.AggregateBy(context.Background(), FieldSupportAccess)
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.NotNil(t, counts)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(dbtest.New(t))

	submit(t, r, "Neutro", "Seguro", "Fácil", "  ")
	submit(t, r, "Neutro", "Seguro", "Fácil", "Falta EPI no setor B")
	submit(t, r, "Neutro", "Seguro", "Fácil", "Treinamento ótimo")

	n, err := r.CountWithComments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	latest, err := r.LatestComments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "Treinamento ótimo", latest[0].Text)
}
