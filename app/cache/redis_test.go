package cache

import (
	"testing"
)

func TestKey(t *testing.T) {
	key := Key("youtube", "go tutorial", 10)

	expected := "youtube:go tutorial:10"
	if key != expected {
		t.Errorf("Expected key %s, got %s", expected, key)
	}
}

func TestKeyDeterministic(t *testing.T) {
	key1 := Key("youtube", "golang", 10)
	key2 := Key("youtube", "golang", 10)

	if key1 != key2 {
		t.Errorf("Expected identical keys for identical inputs, got %s != %s", key1, key2)
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	base := Key("youtube", "golang", 10)

	if Key("instagram", "golang", 10) == base {
		t.Error("Expected different keys for different sources")
	}
	if Key("youtube", "rust", 10) == base {
		t.Error("Expected different keys for different keywords")
	}
	if Key("youtube", "golang", 20) == base {
		t.Error("Expected different keys for different result limits")
	}
}
