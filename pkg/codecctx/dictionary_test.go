package codecctx

import "testing"

func TestDictionaryRemainingKeysReportsUnset(t *testing.T) {
	dict := NewDictionary(map[string]string{"lowres": "1", "threads": "2"})
	defer dict.Free()

	keys := dict.RemainingKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 unconsumed keys before any open, got %d: %v", len(keys), keys)
	}
}

func TestDictionarySetAddsKey(t *testing.T) {
	dict := NewDictionary(nil)
	defer dict.Free()

	if got := dict.RemainingKeys(); len(got) != 0 {
		t.Fatalf("expected empty dictionary, got %v", got)
	}

	dict.Set("refcounted_frames", "1")
	if got := dict.RemainingKeys(); len(got) != 1 || got[0] != "refcounted_frames" {
		t.Fatalf("expected one key 'refcounted_frames', got %v", got)
	}
}

func TestDictionaryFreeIsSafeOnEmpty(t *testing.T) {
	var dict *Dictionary
	dict.Free() // must not panic on nil receiver

	empty := NewDictionary(nil)
	empty.Free()
	empty.Free() // must not panic / double free on already-empty dictionary
}
