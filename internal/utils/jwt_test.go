package utils

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("secret-a")

	token, err := GenerateJWT("admin@splendidsupplies.shop", "admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Email != "admin@splendidsupplies.shop" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTWrongSecretRejected(t *testing.T) {
	SetJWTSecret("secret-a")
	token, err := GenerateJWT("admin@splendidsupplies.shop", "admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	SetJWTSecret("secret-b")
	if _, err := ValidateJWT(token); err == nil {
		t.Fatalf("token signed with another secret must not validate")
	}
}

func TestSignatureVerify(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	sig := GenerateSignature(payload, "whsec")

	if !VerifySignature(payload, sig, "whsec") {
		t.Fatalf("valid signature rejected")
	}
	if VerifySignature(payload, sig, "other") {
		t.Fatalf("signature verified with the wrong secret")
	}
	if VerifySignature([]byte("tampered"), sig, "whsec") {
		t.Fatalf("signature verified for tampered payload")
	}
}
