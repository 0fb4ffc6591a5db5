package logs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takumi-tak/takumi/taktest"
)

func TestRepository(t *testing.T) {
	repo, err := Open(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// white builds the third rank while black plays elsewhere
	road := taktest.Position(5, "a1 e5 a3 a5 b3 b5 c3 c5 d3 d5")
	require.NoError(t, repo.InsertGame(FromPosition("g1", "alice", "bob", road, at)))

	g, err := repo.Game("g1")
	require.NoError(t, err)
	assert.Equal(t, "alice", g.White)
	assert.Equal(t, "bob", g.Black)
	assert.Equal(t, "", g.Winner)
	assert.Equal(t, 10, g.Moves)
	assert.True(t, at.Equal(g.Timestamp), g.Timestamp)
	assert.True(t, strings.Contains(g.PTN, `[Player1 "alice"]`), g.PTN)

	won := taktest.Position(5, "a1 e5 a3 a5 b3 b5 c3 c5 d3 d5 e3")
	lost := taktest.Position(5, "a1 e5 a3 a5 b3 b5 c3 c5 d3 d5 e3")
	require.NoError(t, repo.InsertGames([]*Game{
		FromPosition("g2", "alice", "bob", won, at),
		FromPosition("g3", "bob", "alice", lost, at),
	}))

	g, err = repo.Game("g2")
	require.NoError(t, err)
	assert.Equal(t, "white", g.Winner)
	assert.Equal(t, "road", g.Reason)
	assert.Equal(t, "R-0", g.Result)

	rec, err := repo.Record("alice")
	require.NoError(t, err)
	assert.Equal(t, Record{Wins: 1, Losses: 1, Ties: 1}, rec)

	rec, err = repo.Record("carol")
	require.NoError(t, err)
	assert.Equal(t, Record{}, rec)
}

func TestInsertGamesAtomic(t *testing.T) {
	repo, err := Open(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	p := taktest.Position(5, "a1 e5")
	g := FromPosition("dup", "a", "b", p, time.Now())
	err = repo.InsertGames([]*Game{g, g})
	assert.Error(t, err)

	_, err = repo.Game("dup")
	assert.Error(t, err)
}
