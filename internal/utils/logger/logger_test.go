package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "pw123456",
		"Authorization", "Bearer abc",
		"path", "/api/recipes",
		"jwt_secret", "s3cr3t",
		"dangling",
	})

	want := []interface{}{
		"password", "[REDACTED]",
		"Authorization", "[REDACTED]",
		"path", "/api/recipes",
		"jwt_secret", "[REDACTED]",
		"dangling",
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("item %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestSanitizeValueRedactsJWTLookingStrings(t *testing.T) {
	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VyX2lkIjoiMSJ9.signature"
	if got := sanitizeValue("value", jwtLike); got != "[REDACTED]" {
		t.Errorf("expected jwt to be redacted, got %v", got)
	}
	if got := sanitizeValue("value", "v1.2.3"); got != "v1.2.3" {
		t.Errorf("expected short dotted string to pass through, got %v", got)
	}
}
