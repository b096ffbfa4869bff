package jwt

import "testing"

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("ST-01", "Officer Reyes", "OFFICER", testSecret, 60)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.StaffID != "ST-01" || claims.Name != "Officer Reyes" || claims.Role != "OFFICER" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("ST-01", "Officer Reyes", "OFFICER", testSecret, 60)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); err != ErrTokenInvalid {
		t.Errorf("Expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	token, err := GenerateAccessToken("ST-01", "Officer Reyes", "OFFICER", testSecret, -1)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err != ErrTokenExpired {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}
