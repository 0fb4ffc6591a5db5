package wsbridge

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/bridge"
	"github.com/takumi-tak/takumi/ptn"
)

// envelope is the JSON frame in both directions. Clients send "start"
// and "cancel"; the server sends "queued", "progress", "result",
// "aborted" and "error".
type envelope struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	TPS    string `json:"tps,omitempty"`
	TimeMs int64  `json:"time_ms,omitempty"`
	Nodes  uint64 `json:"nodes,omitempty"`

	Move  string   `json:"move,omitempty"`
	PV    []string `json:"pv,omitempty"`
	Score int64    `json:"score,omitempty"`
	Depth int      `json:"depth,omitempty"`

	Error string `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func fromResult(typ, id string, r ai.Result) envelope {
	e := envelope{
		Type:  typ,
		ID:    id,
		Move:  ptn.FormatMove(r.Move),
		Score: r.Score,
		Depth: r.Depth,
		Nodes: r.Nodes,
	}
	for _, m := range r.PV {
		e.PV = append(e.PV, ptn.FormatMove(m))
	}
	return e
}

func fromMessage(m bridge.Message) envelope {
	switch m := m.(type) {
	case bridge.Progress:
		return fromResult("progress", m.ID, m.Result)
	case bridge.Result:
		return fromResult("result", m.ID, m.Result)
	case bridge.Aborted:
		return envelope{Type: "aborted", ID: m.ID}
	case bridge.Failed:
		return envelope{Type: "error", ID: m.ID, Error: m.Err.Error()}
	default:
		panic("wsbridge: bad message")
	}
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}
	defer conn.Close()

	host := bridge.New(s.Engine)
	host.Debug = s.Debug
	go host.Run(c.Request.Context())

	replies := make(chan envelope, 16)
	written := make(chan struct{})
	go func() {
		defer close(written)
		s.write(conn, host.Messages(), replies)
	}()

	for {
		var in envelope
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: read: %v", err)
			}
			break
		}
		s.handle(host, in, func(e envelope) { replies <- e })
	}
	host.Close()
	<-written
}

// handle turns one client frame into a bridge request. Replies are
// queued before the request is sent so that they precede any message
// of the search.
func (s *Server) handle(host *bridge.Host, in envelope, reply func(envelope)) {
	switch in.Type {
	case "start":
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		p, err := ptn.ParseTPS(in.TPS)
		if err != nil {
			reply(envelope{Type: "error", ID: id, Error: err.Error()})
			return
		}
		limits := ai.Limits{
			Time:  time.Duration(in.TimeMs) * time.Millisecond,
			Nodes: in.Nodes,
		}
		if limits.Time == 0 && limits.Nodes == 0 {
			limits.Time = s.MaxTime
		}
		reply(envelope{Type: "queued", ID: id})
		if err := host.Send(bridge.StartSearch{ID: id, Position: p, Limits: limits}); err != nil {
			reply(envelope{Type: "error", ID: id, Error: err.Error()})
		}
	case "cancel":
		if err := host.Send(bridge.Cancel{ID: in.ID}); err != nil {
			reply(envelope{Type: "error", ID: in.ID, Error: err.Error()})
		}
	default:
		reply(envelope{Type: "error", ID: in.ID, Error: "unknown message type: " + in.Type})
	}
}

// write is the only writer on conn.
func (s *Server) write(conn *websocket.Conn, msgs <-chan bridge.Message, replies <-chan envelope) {
	failed := false
	send := func(e envelope) {
		if failed {
			return
		}
		if err := conn.WriteJSON(e); err != nil {
			log.Printf("ws: write: %v", err)
			failed = true
		}
	}
	for {
		select {
		case m, ok := <-msgs:
			if !ok {
				return
			}
			for drained := false; !drained; {
				select {
				case e := <-replies:
					send(e)
				default:
					drained = true
				}
			}
			send(fromMessage(m))
		case e := <-replies:
			send(e)
		}
	}
}
