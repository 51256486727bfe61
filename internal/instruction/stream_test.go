package instruction_test

import (
	"bytes"
	"testing"

	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

func drain(s instruction.Stream, tick uint64) []instruction.Envelope {
	var out []instruction.Envelope
	for {
		env, ok := s.Next(tick)
		if !ok {
			return out
		}
		out = append(out, env)
	}
}

func TestPlayStreamOrdering(t *testing.T) {
	s := instruction.NewPlayStream(nil)
	s.PushAt(5, &instruction.SelectBlock{ID: 3})
	s.PushAt(2, &instruction.SelectBlock{ID: 1})
	s.PushAt(5, &instruction.SelectBlock{ID: 4})
	s.Push(&instruction.SelectBlock{ID: 0})
	s.PushAt(2, &instruction.SelectBlock{ID: 2})

	if got := drain(s, 1); len(got) != 1 {
		t.Fatalf("tick 1: got %d, want 1", len(got))
	}
	got := drain(s, 5)
	var ids []field.BlockID
	for _, env := range got {
		if env.Tick != 5 {
			t.Errorf("late instruction stamped %d, want execution tick 5", env.Tick)
		}
		ids = append(ids, env.Instruction.(*instruction.SelectBlock).ID)
	}
	want := []field.BlockID{1, 2, 3, 4}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d", s.Pending())
	}
}

func TestPlayStreamPushUsesCurrentTick(t *testing.T) {
	s := instruction.NewPlayStream(nil)
	drain(s, 10)
	s.Push(&instruction.ClearSelection{})
	if _, ok := s.Next(10); !ok {
		t.Fatal("push during tick 10 should run on tick 10")
	}
}

func TestPlayThenReplay(t *testing.T) {
	var buf bytes.Buffer
	rec, err := instruction.NewRecorder(&buf, instruction.Header{Mode: "add", Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	play := instruction.NewPlayStream(rec)
	play.PushAt(3, &instruction.SetSum{Target: field.Int(9)})
	play.PushAt(7, &instruction.SelectBlock{ID: 2})
	play.PushAt(7, &instruction.RemoveBlocks{IDs: []field.BlockID{2}})

	var played []instruction.Envelope
	for tick := uint64(0); tick < 20; tick++ {
		played = append(played, drain(play, tick)...)
	}
	if err := play.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	play.Push(&instruction.ClearSelection{})
	if play.Pending() != 0 {
		t.Error("push after Close should be ignored")
	}

	lg, err := instruction.DecodeLog(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeLog: %v", err)
	}
	replay := instruction.NewReplayStream(lg)
	if replay.Live() {
		t.Error("replay stream must not be live")
	}
	replay.Push(&instruction.ClearSelection{})

	var replayed []instruction.Envelope
	var tick uint64
	for ; !replay.Done(tick); tick++ {
		replayed = append(replayed, drain(replay, tick)...)
	}
	if tick != 19 {
		t.Errorf("replay ended at %d, want 19", tick)
	}
	if len(replayed) != len(played) {
		t.Fatalf("replayed %d, played %d", len(replayed), len(played))
	}
	for i := range played {
		if replayed[i].Tick != played[i].Tick || replayed[i].Instruction.Kind() != played[i].Instruction.Kind() {
			t.Errorf("envelope %d: got %d/%s, want %d/%s", i,
				replayed[i].Tick, replayed[i].Instruction.Kind(),
				played[i].Tick, played[i].Instruction.Kind())
		}
	}
	if done, total := replay.Progress(); done != total || total != 3 {
		t.Errorf("Progress = %d/%d", done, total)
	}
}
