// Package logs records finished games in a sqlite database.
package logs

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // repository assumes sqlite

	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
)

type Repository struct {
	db *sqlx.DB
}

type Game struct {
	ID        string    `db:"id"`
	Timestamp time.Time `db:"time"`
	Size      int       `db:"size"`
	Komi      string    `db:"komi"`
	White     string    `db:"white"`
	Black     string    `db:"black"`
	Result    string    `db:"result"`
	Winner    string    `db:"winner"`
	Reason    string    `db:"reason"`
	Moves     int       `db:"moves"`
	PTN       string    `db:"ptn"`
}

// Record is a player's results over every logged game.
type Record struct {
	Wins   int `db:"wins"`
	Losses int `db:"losses"`
	Ties   int `db:"ties"`
}

func Open(dsn string) (*Repository, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createGameTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create game table: %w", err)
	}
	if _, err := db.Exec(createPlayerView); err != nil {
		db.Close()
		return nil, fmt.Errorf("create player_games view: %w", err)
	}
	return &Repository{db: db}, nil
}

// FromPosition describes a finished game. p is its final position.
func FromPosition(id, white, black string, p *tak.Position, at time.Time) *Game {
	o := p.Status()
	record := ptn.FromPosition(p,
		ptn.Tag{Name: "Player1", Value: white},
		ptn.Tag{Name: "Player2", Value: black},
	)
	g := &Game{
		ID:        id,
		Timestamp: at,
		Size:      p.Size(),
		Komi:      ptn.FormatKomi(p.Komi()),
		White:     white,
		Black:     black,
		Moves:     p.MoveNumber(),
		Result:    record.FindTag("Result"),
		PTN:       record.Render(),
	}
	if o.Over {
		g.Reason = o.Reason.String()
		switch o.Winner {
		case tak.White, tak.Black:
			g.Winner = o.Winner.String()
		default:
			g.Winner = "tie"
		}
	}
	return g
}

func (r *Repository) InsertGame(g *Game) error {
	_, err := r.db.NamedExec(insertGame, g)
	return err
}

func (r *Repository) InsertGames(gs []*Game) error {
	txn, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer txn.Rollback()
	for _, g := range gs {
		if _, e := txn.NamedExec(insertGame, g); e != nil {
			return fmt.Errorf("insert %s: %w", g.ID, e)
		}
	}
	return txn.Commit()
}

func (r *Repository) Game(id string) (*Game, error) {
	var g Game
	if err := r.db.Get(&g, selectGame, id); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repository) Record(player string) (Record, error) {
	var rec Record
	err := r.db.Get(&rec, selectRecord, player)
	return rec, err
}

func (r *Repository) Close() error {
	return r.db.Close()
}
