package lock

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestOwnerKey(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	key := ownerKey(ownerID)

	if !strings.HasPrefix(key, "flowplan:owner_lock:") {
		t.Errorf("key %q missing namespace prefix", key)
	}
	if !strings.HasSuffix(key, ownerID.String()) {
		t.Errorf("key %q does not embed the owner id", key)
	}
	if key != ownerKey(ownerID) {
		t.Error("key derivation must be deterministic")
	}
}

func TestNewRedisLockerRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisLocker("not-a-url"); err == nil {
		t.Error("expected error for malformed Redis URL")
	}
}
