package renderer

import "testing"

func TestNoopRenderAcceptsNilBlock(t *testing.T) {
	var n Noop
	if err := n.Render(nil, nil); err != nil {
		t.Fatalf("expected Noop.Render to never error, got %v", err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("expected Noop.Close to never error, got %v", err)
	}
}
