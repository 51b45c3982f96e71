package render

import (
	"math"
	"testing"
	"time"

	"github.com/routeviz/bgpmap/pkg/layout"
)

func pointerSample(t *testing.T) (*Pointer, *layout.Engine) {
	t.Helper()
	tp, x, e := renderSample(t)
	tp.SetInfo("R1", "IOS 15.2, uptime 4d")
	return NewPointer(tp, x, e, 0), e
}

func TestPointerDragMovesNode(t *testing.T) {
	p, e := pointerSample(t)
	start, _ := e.Position("R1")
	others := e.Positions()

	t0 := time.Unix(0, 0)
	if ev := p.Down(start.X, start.Y, t0); ev.Action != ActionDragStart || ev.Node != "R1" {
		t.Fatalf("Down = %+v, want drag start on R1", ev)
	}
	if ev := p.Move(start.X+0.1, start.Y-0.05); ev.Action != ActionDrag {
		t.Fatalf("Move = %+v, want drag", ev)
	}
	if ev := p.Up(start.X+0.1, start.Y-0.05, t0.Add(time.Second)); ev.Action != ActionDragEnd {
		t.Fatalf("Up = %+v, want drag end", ev)
	}

	got, _ := e.Position("R1")
	want := layout.Point{X: start.X + 0.1, Y: start.Y - 0.05}
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("R1 = %+v, want %+v", got, want)
	}
	for _, id := range []string{"R2", "R3"} {
		if now, _ := e.Position(id); now != others[id] {
			t.Errorf("%s moved during a drag of R1", id)
		}
	}
	// The AS100 container follows its only member.
	if as, _ := e.Position("AS100"); math.Abs(as.X-got.X) > 1e-12 || math.Abs(as.Y-got.Y) > 1e-12 {
		t.Errorf("AS100 = %+v, want recentered on R1 %+v", as, got)
	}
}

func TestPointerMoveWithoutDrag(t *testing.T) {
	p, _ := pointerSample(t)
	if ev := p.Move(0.1, 0.1); ev.Action != ActionNone {
		t.Errorf("Move outside drag = %+v, want none", ev)
	}
	if ev := p.Up(0.1, 0.1, time.Unix(1, 0)); ev.Action != ActionNone {
		t.Errorf("Up outside drag = %+v, want none", ev)
	}
}

func TestPointerMiss(t *testing.T) {
	p, _ := pointerSample(t)
	if ev := p.Down(50, 50, time.Unix(0, 0)); ev.Action != ActionNone {
		t.Errorf("Down in empty space = %+v, want none", ev)
	}
}

func TestPointerDoubleClickInspectsRouter(t *testing.T) {
	p, e := pointerSample(t)
	pos, _ := e.Position("R1")

	t0 := time.Unix(10, 0)
	p.Down(pos.X, pos.Y, t0)
	p.Up(pos.X, pos.Y, t0)

	ev := p.Down(pos.X, pos.Y, t0.Add(200*time.Millisecond))
	if ev.Action != ActionInspect || ev.Node != "R1" {
		t.Fatalf("second Down = %+v, want inspect R1", ev)
	}
	if ev.Info != "IOS 15.2, uptime 4d" {
		t.Errorf("Info = %q", ev.Info)
	}
}

func TestPointerDoubleClickInspectsInterface(t *testing.T) {
	p, e := pointerSample(t)
	pos, _ := e.Position("R1_Gi0/0")

	t0 := time.Unix(20, 0)
	p.Down(pos.X, pos.Y, t0)
	p.Up(pos.X, pos.Y, t0)

	ev := p.Down(pos.X, pos.Y, t0.Add(100*time.Millisecond))
	if ev.Action != ActionInspect || ev.Node != "R1_Gi0/0" {
		t.Fatalf("second Down = %+v, want inspect R1_Gi0/0", ev)
	}
	if ev.Info != "Gi0/0: 10.12.12.1/24" {
		t.Errorf("Info = %q", ev.Info)
	}
}

func TestPointerDoubleClickWindowExpires(t *testing.T) {
	p, e := pointerSample(t)
	pos, _ := e.Position("R2")

	t0 := time.Unix(30, 0)
	p.Down(pos.X, pos.Y, t0)
	p.Up(pos.X, pos.Y, t0)

	ev := p.Down(pos.X, pos.Y, t0.Add(DoubleClickWindow+time.Millisecond))
	if ev.Action != ActionDragStart {
		t.Errorf("late second Down = %+v, want fresh drag start", ev)
	}
}

func TestPointerDoubleClickDifferentNodes(t *testing.T) {
	p, e := pointerSample(t)
	p2, _ := e.Position("R2")
	p3, _ := e.Position("R3")

	t0 := time.Unix(40, 0)
	p.Down(p2.X, p2.Y, t0)
	p.Up(p2.X, p2.Y, t0)

	ev := p.Down(p3.X, p3.Y, t0.Add(100*time.Millisecond))
	if ev.Action != ActionDragStart || ev.Node != "R3" {
		t.Errorf("Down on different node = %+v, want drag start on R3", ev)
	}
}

func TestPointerInspectFallbackInfo(t *testing.T) {
	p, e := pointerSample(t)
	pos, _ := e.Position("R3")

	t0 := time.Unix(50, 0)
	p.Down(pos.X, pos.Y, t0)
	p.Up(pos.X, pos.Y, t0)

	ev := p.Down(pos.X, pos.Y, t0.Add(100*time.Millisecond))
	if ev.Action != ActionInspect {
		t.Fatalf("second Down = %+v, want inspect", ev)
	}
	if ev.Info != "no information available for R3" {
		t.Errorf("Info = %q", ev.Info)
	}
}
