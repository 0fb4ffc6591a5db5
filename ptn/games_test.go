package ptn

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var games = flag.String("games", "", "Directory of .ptn files to self-check on")

func TestPlayPTNs(t *testing.T) {
	if *games == "" {
		t.SkipNow()
	}
	ents, err := os.ReadDir(*games)
	if err != nil {
		t.Fatalf("read %s: %v", *games, err)
	}
	for _, de := range ents {
		if !strings.HasSuffix(de.Name(), ".ptn") {
			continue
		}
		t.Run(de.Name(), func(t *testing.T) {
			playPTN(t, filepath.Join(*games, de.Name()))
		})
	}
}

func playPTN(t *testing.T, path string) {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := ParsePTN(f)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	it := g.Iterator()
	for it.Next() {
	}
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	want := g.FindTag("Result")
	switch want {
	case "R-0", "0-R", "F-0", "0-F":
		o := it.Position().Status()
		if !o.Over {
			t.Fatalf("result %s but the game is not over", want)
		}
		if got := formatResult(o); got != want {
			t.Errorf("result %s, replay gives %s", want, got)
		}
	}
}
