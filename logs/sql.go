package logs

const createGameTable = `
CREATE TABLE IF NOT EXISTS games (
  id varchar primary key,
  time datetime,
  size int,
  komi varchar,
  white varchar,
  black varchar,
  result varchar,
  winner varchar,
  reason varchar,
  moves int,
  ptn text
)`

const createPlayerView = `
CREATE VIEW IF NOT EXISTS player_games (
  id, player, opponent, color, win, result, size, moves
) AS
SELECT id, black, white, 'black',
       CASE winner WHEN 'white' THEN 'lose' WHEN 'black' THEN 'win' ELSE 'tie' END,
       result, size, moves
 FROM games
UNION ALL
SELECT id, white, black, 'white',
       CASE winner WHEN 'white' THEN 'win' WHEN 'black' THEN 'lose' ELSE 'tie' END,
       result, size, moves
 FROM games
`

const insertGame = `
INSERT INTO games (id, time, size, komi, white, black, result, winner, reason, moves, ptn)
VALUES (:id, :time, :size, :komi, :white, :black, :result, :winner, :reason, :moves, :ptn)
`

const selectGame = `
SELECT id, time, size, komi, white, black, result, winner, reason, moves, ptn
FROM games WHERE id = ?
`

const selectRecord = `
SELECT
  COALESCE(SUM(win = 'win'), 0) AS wins,
  COALESCE(SUM(win = 'lose'), 0) AS losses,
  COALESCE(SUM(win = 'tie'), 0) AS ties
FROM player_games WHERE player = ?
`
