package judging

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/forgehack/platform/internal/judging/domain"
	"github.com/forgehack/platform/internal/mailer"
	maildomain "github.com/forgehack/platform/internal/mailer/domain"
	"github.com/forgehack/platform/internal/registration"
	regdomain "github.com/forgehack/platform/internal/registration/domain"
	"github.com/forgehack/platform/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dropMailer struct{}

func (dropMailer) Send(context.Context, *maildomain.EmailMessage) maildomain.SendResult {
	return maildomain.SendResult{Success: true}
}

func (dropMailer) SendBatch(_ context.Context, msgs []*maildomain.EmailMessage) []maildomain.SendResult {
	out := make([]maildomain.SendResult, len(msgs))
	for i := range out {
		out[i] = maildomain.SendResult{Success: true}
	}
	return out
}

func newTestHarness(t *testing.T) (domain.Service, regdomain.Service) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&regdomain.Team{}, &regdomain.TeamMember{}, &domain.Score{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	templates := mailer.NewTemplates("ForgeHack <no-reply@forgehack.dev>", 10)
	teams := registration.NewService(registration.NewRepository(conn), node, dropMailer{}, templates, zap.NewNop())
	judges := NewService(conn, teams, nil, node, zap.NewNop())
	return judges, teams
}

func registerTeam(t *testing.T, teams regdomain.Service, name string) *regdomain.Team {
	t.Helper()
	team, err := teams.Register(context.Background(), regdomain.RegisterRequest{
		Name:         name,
		ContactEmail: "captain@example.com",
		Track:        "AI/ML",
	})
	require.NoError(t, err)
	return team
}

func TestSubmitScore(t *testing.T) {
	judges, teams := newTestHarness(t)
	team := registerTeam(t, teams, "Team Rocket")

	score, err := judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID:       team.ID,
		JudgeID:      "judge@example.com",
		Innovation:   8,
		Execution:    7,
		Presentation: 9,
		Notes:        "strong demo",
	})
	require.NoError(t, err)
	assert.Equal(t, 24, score.Total)
	assert.NotEmpty(t, score.ID)
}

func TestResubmitReplacesPreviousScore(t *testing.T) {
	judges, teams := newTestHarness(t)
	team := registerTeam(t, teams, "Team Rocket")

	first, err := judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID: team.ID, JudgeID: "judge@example.com",
		Innovation: 5, Execution: 5, Presentation: 5,
	})
	require.NoError(t, err)

	second, err := judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID: team.ID, JudgeID: "judge@example.com",
		Innovation: 9, Execution: 9, Presentation: 9, Notes: "revised",
	})
	require.NoError(t, err)

	// Same row, new values: the latest submission wins.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 27, second.Total)
	assert.Equal(t, "revised", second.Notes)

	scores, err := judges.TeamScores(context.Background(), team.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 27, scores[0].Total)
}

func TestSubmitValidation(t *testing.T) {
	judges, teams := newTestHarness(t)
	team := registerTeam(t, teams, "Team Rocket")

	_, err := judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID: team.ID, JudgeID: "judge@example.com", Innovation: 11,
	})
	assert.ErrorIs(t, err, domain.ErrScoreOutOfRange)

	_, err = judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID: team.ID, JudgeID: "judge@example.com", Execution: -1,
	})
	assert.ErrorIs(t, err, domain.ErrScoreOutOfRange)

	_, err = judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID: team.ID, JudgeID: "  ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSubmission)

	_, err = judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID: "missing", JudgeID: "judge@example.com",
	})
	assert.ErrorIs(t, err, regdomain.ErrTeamNotFound)
}

func TestLeaderboard(t *testing.T) {
	judges, teams := newTestHarness(t)
	rocket := registerTeam(t, teams, "Team Rocket")
	thought := registerTeam(t, teams, "Deep Thought")

	submit := func(teamID, judgeID string, innovation, execution, presentation int) {
		t.Helper()
		_, err := judges.Submit(context.Background(), domain.SubmitRequest{
			TeamID: teamID, JudgeID: judgeID,
			Innovation: innovation, Execution: execution, Presentation: presentation,
		})
		require.NoError(t, err)
	}

	submit(rocket.ID, "judge1@example.com", 5, 5, 5)
	submit(rocket.ID, "judge2@example.com", 6, 6, 6)
	submit(thought.ID, "judge1@example.com", 9, 9, 9)

	board, err := judges.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 2)

	// Rocket: 15 + 18 = 33 across two judges; Deep Thought: 27 from one.
	assert.Equal(t, rocket.ID, board[0].TeamID)
	assert.Equal(t, 33, board[0].Total)
	assert.Equal(t, 2, board[0].Judges)
	assert.Equal(t, thought.ID, board[1].TeamID)
	assert.Equal(t, 27, board[1].Total)
	assert.Equal(t, "deep-thought", board[1].TeamSlug)
}

func TestLeaderboardCacheInvalidatedBySubmit(t *testing.T) {
	judges, teams := newTestHarness(t)
	team := registerTeam(t, teams, "Team Rocket")

	_, err := judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID: team.ID, JudgeID: "judge1@example.com",
		Innovation: 5, Execution: 5, Presentation: 5,
	})
	require.NoError(t, err)

	board, err := judges.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, 15, board[0].Total)

	// A new submission must bust the cached standings.
	_, err = judges.Submit(context.Background(), domain.SubmitRequest{
		TeamID: team.ID, JudgeID: "judge2@example.com",
		Innovation: 10, Execution: 10, Presentation: 10,
	})
	require.NoError(t, err)

	board, err = judges.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, 45, board[0].Total)
	assert.Equal(t, 2, board[0].Judges)
}
