package transport

import "testing"

func TestUT_FakeAdapter_01_ConnectThenOpen_DeliversOpenEvent(t *testing.T) {
	a := NewFakeAdapter()
	opened := false
	a.On(EventOpen, func(payload interface{}) { opened = true })

	a.Connect("ws://example")
	a.EmitOpen()

	if !opened {
		t.Fatal("expected open event to fire")
	}
	if !a.IsOpen() {
		t.Fatal("expected adapter to report open")
	}
}

func TestUT_FakeAdapter_02_SendWhileClosed_ReturnsFalseWithoutPanic(t *testing.T) {
	a := NewFakeAdapter()
	if a.Send("hello") {
		t.Fatal("expected send to fail while closed")
	}
}

func TestUT_FakeAdapter_03_DisconnectDoesNotEmitClose(t *testing.T) {
	a := NewFakeAdapter()
	closed := false
	a.On(EventClose, func(payload interface{}) { closed = true })

	a.Connect("ws://example")
	a.EmitOpen()
	a.Disconnect(1000, "bye")

	if closed {
		t.Fatal("caller-initiated disconnect must not itself emit a close event")
	}
	if a.IsOpen() {
		t.Fatal("expected adapter to report closed")
	}
}

func TestUT_FakeAdapter_04_EmitCloseDeliversCloseEvent(t *testing.T) {
	a := NewFakeAdapter()
	var gotCode int
	a.On(EventClose, func(payload interface{}) {
		evt := payload.(*CloseEvent)
		gotCode = evt.Code
	})

	a.Connect("ws://example")
	a.EmitOpen()
	a.EmitClose(1006, "dropped")

	if gotCode != 1006 {
		t.Fatalf("expected code 1006, got %d", gotCode)
	}
}
