package rpc

import (
	"context"
	"errors"
	"log"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/cache"
	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/symmetry"
	"github.com/takumi-tak/takumi/tak"
)

// Server implements TakumiServer. Each Analyze call runs its own
// search, so calls may proceed concurrently.
type Server struct {
	Config ai.MinimaxConfig

	// MaxTime caps the time of every search. Zero means no cap.
	MaxTime time.Duration

	// Weights, if set, replaces the evaluation in Config. Cache
	// entries are keyed by it, with nil meaning DefaultWeights.
	Weights *ai.Weights

	// Cache, if set, answers repeated searches that are bounded by
	// depth or nodes only. Entries are shared between positions that
	// are rotations or reflections of each other.
	Cache *cache.Cache
}

var _ TakumiServer = &Server{}

func parsePosition(tps string) (*tak.Position, error) {
	p, err := ptn.ParseTPS(tps)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "parse tps: %v", err)
	}
	return p, nil
}

func (s *Server) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	p, err := parsePosition(req.Position)
	if err != nil {
		return nil, err
	}
	if req.Depth < 0 || req.TimeMs < 0 {
		return nil, status.Error(codes.InvalidArgument, "negative search bound")
	}

	cfg := s.Config
	weights := &ai.DefaultWeights
	if s.Weights != nil {
		weights = s.Weights
		cfg.Evaluate = ai.MakeEvaluator(s.Weights)
	}
	if req.Depth > 0 {
		cfg.Depth = int(req.Depth)
	}
	limits := ai.Limits{
		Time:  time.Duration(req.TimeMs) * time.Millisecond,
		Nodes: req.Nodes,
	}
	if s.MaxTime > 0 && (limits.Time == 0 || limits.Time > s.MaxTime) {
		limits.Time = s.MaxTime
	}

	var key string
	var sym symmetry.Symmetry
	if s.Cache != nil && limits.Time == 0 {
		var tps string
		tps, sym, err = symmetry.Canonical(p)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		key = cache.Key(weights.Fingerprint(), tps, ai.NewMinimax(cfg).Config().Depth, limits.Nodes)
		e, ok, err := s.Cache.Get(key)
		if err != nil {
			log.Printf("cache get: %v", err)
		} else if ok {
			pv, err := transformPV(p.Size(), sym.Inverse(), e.PV)
			if err == nil {
				return &AnalyzeResponse{
					Pv:     pv,
					Value:  e.Score,
					Depth:  int32(e.Depth),
					Nodes:  e.Nodes,
					Cached: true,
				}, nil
			}
			log.Printf("cache entry %s: %v", key, err)
		}
	}

	res, err := ai.NewMinimax(cfg).Analyze(ctx, p, limits)
	switch {
	case errors.Is(err, ai.ErrSearchExhausted):
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return nil, status.Error(codes.Canceled, err.Error())
	case err != nil:
		return nil, status.Error(codes.Internal, err.Error())
	}

	resp := &AnalyzeResponse{
		Value: res.Score,
		Depth: int32(res.Depth),
		Nodes: res.Nodes,
	}
	for _, m := range res.PV {
		resp.Pv = append(resp.Pv, ptn.FormatMove(m))
	}
	if key != "" {
		if pv, err := transformPV(p.Size(), sym, resp.Pv); err != nil {
			log.Printf("cache put %s: %v", key, err)
		} else if err := s.Cache.Put(key, cache.Entry{
			PV:    pv,
			Score: resp.Value,
			Depth: res.Depth,
			Nodes: res.Nodes,
		}); err != nil {
			log.Printf("cache put: %v", err)
		}
	}
	return resp, nil
}

// transformPV maps PTN moves through sym.
func transformPV(size int, sym symmetry.Symmetry, pv []string) ([]string, error) {
	out := make([]string, 0, len(pv))
	for _, str := range pv {
		m, err := ptn.ParseMove(str)
		if err != nil {
			return nil, err
		}
		out = append(out, ptn.FormatMove(symmetry.TransformMove(size, sym, m)))
	}
	return out, nil
}

func (s *Server) LegalMoves(ctx context.Context, req *LegalMovesRequest) (*LegalMovesResponse, error) {
	p, err := parsePosition(req.Position)
	if err != nil {
		return nil, err
	}
	resp := &LegalMovesResponse{Moves: []string{}}
	for _, m := range p.AllMoves(nil) {
		resp.Moves = append(resp.Moves, ptn.FormatMove(m))
	}
	return resp, nil
}

func (s *Server) Status(ctx context.Context, req *StatusRequest) (*StatusResponse, error) {
	p, err := parsePosition(req.Position)
	if err != nil {
		return nil, err
	}
	o := p.Status()
	resp := &StatusResponse{
		Over:       o.Over,
		WhiteFlats: o.WhiteFlats,
		BlackFlats: o.BlackFlats,
	}
	if o.Over {
		resp.Reason = o.Reason.String()
		if o.Winner == tak.NoColor {
			resp.Winner = "draw"
		} else {
			resp.Winner = o.Winner.String()
		}
	}
	return resp, nil
}
