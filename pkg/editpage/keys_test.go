package editpage_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordedit/pkg/editpage"
)

func TestIsSaveAccelerator(t *testing.T) {
	cases := []struct {
		name     string
		ev       editpage.KeyEvent
		platform editpage.Platform
		want     bool
	}{
		{name: "cmd+s on mac", ev: editpage.KeyEvent{Key: "s", Meta: true}, platform: editpage.PlatformMac, want: true},
		{name: "ctrl+s on mac", ev: editpage.KeyEvent{Key: "s", Ctrl: true}, platform: editpage.PlatformMac, want: false},
		{name: "ctrl+s elsewhere", ev: editpage.KeyEvent{Key: "s", Ctrl: true}, platform: editpage.PlatformOther, want: true},
		{name: "ctrl+shift+S elsewhere", ev: editpage.KeyEvent{Key: "S", Ctrl: true, Shift: true}, platform: editpage.PlatformOther, want: true},
		{name: "meta+s elsewhere", ev: editpage.KeyEvent{Key: "s", Meta: true}, platform: editpage.PlatformOther, want: false},
		{name: "plain s", ev: editpage.KeyEvent{Key: "s"}, platform: editpage.PlatformOther, want: false},
		{name: "ctrl+d", ev: editpage.KeyEvent{Key: "d", Ctrl: true}, platform: editpage.PlatformOther, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := tc.ev
			if got := editpage.IsSaveAccelerator(&ev, tc.platform); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestKeyBus_OrderAndUnsubscribe(t *testing.T) {
	bus := editpage.NewKeyBus()
	var calls []string

	unsubA := bus.Subscribe(func(*editpage.KeyEvent) { calls = append(calls, "a") })
	bus.Subscribe(func(ev *editpage.KeyEvent) {
		calls = append(calls, "b")
		ev.PreventDefault()
	})

	if !bus.Dispatch(&editpage.KeyEvent{Key: "x"}) {
		t.Fatalf("expected prevented event")
	}
	unsubA()
	unsubA()
	if bus.Dispatch(&editpage.KeyEvent{Key: "x"}) != true {
		t.Fatalf("remaining handler should still prevent")
	}
	if diff := cmp.Diff([]string{"a", "b", "b"}, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if bus.Len() != 1 {
		t.Fatalf("expected one handler, got %d", bus.Len())
	}
}

func TestParsePlatform(t *testing.T) {
	if editpage.ParsePlatform("macOS") != editpage.PlatformMac {
		t.Fatalf("macOS should map to mac")
	}
	if editpage.ParsePlatform("linux") != editpage.PlatformOther {
		t.Fatalf("linux should map to other")
	}
	if editpage.ParsePlatform("auto") != editpage.DetectPlatform() {
		t.Fatalf("auto should detect")
	}
}
