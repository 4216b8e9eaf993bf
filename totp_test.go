package authcore

import (
	"strings"
	"testing"
	"time"
)

func rfcManager(algorithm string) *totpManager {
	return newTOTPManager(MFAConfig{
		Issuer:    "Enterprise Platform",
		Digits:    8,
		Period:    30,
		Algorithm: algorithm,
		Skew:      0,
	})
}

func TestTOTPVerifyRFCVectorsSHA1(t *testing.T) {
	m := rfcManager("SHA1")
	secret := b32.EncodeToString([]byte("12345678901234567890"))
	cases := []struct {
		ts   int64
		code string
	}{
		{59, "94287082"},
		{1111111109, "07081804"},
		{1111111111, "14050471"},
		{1234567890, "89005924"},
		{2000000000, "69279037"},
		{20000000000, "65353130"},
	}

	for _, tc := range cases {
		ok, err := m.VerifyCode(secret, tc.code, time.Unix(tc.ts, 0))
		if err != nil || !ok {
			t.Fatalf("SHA1 vector failed at t=%d, ok=%v err=%v", tc.ts, ok, err)
		}
	}
}

func TestTOTPVerifyRFCVectorsSHA256(t *testing.T) {
	m := rfcManager("SHA256")
	secret := b32.EncodeToString([]byte("12345678901234567890123456789012"))
	cases := []struct {
		ts   int64
		code string
	}{
		{59, "46119246"},
		{1111111109, "68084774"},
		{1111111111, "67062674"},
		{1234567890, "91819424"},
		{2000000000, "90698825"},
		{20000000000, "77737706"},
	}

	for _, tc := range cases {
		ok, err := m.VerifyCode(secret, tc.code, time.Unix(tc.ts, 0))
		if err != nil || !ok {
			t.Fatalf("SHA256 vector failed at t=%d, ok=%v err=%v", tc.ts, ok, err)
		}
	}
}

func TestTOTPVerifyRFCVectorsSHA512(t *testing.T) {
	m := rfcManager("SHA512")
	secret := b32.EncodeToString([]byte("1234567890123456789012345678901234567890123456789012345678901234"))
	cases := []struct {
		ts   int64
		code string
	}{
		{59, "90693936"},
		{1111111109, "25091201"},
		{1111111111, "99943326"},
		{1234567890, "93441116"},
		{2000000000, "38618901"},
		{20000000000, "47863826"},
	}

	for _, tc := range cases {
		ok, err := m.VerifyCode(secret, tc.code, time.Unix(tc.ts, 0))
		if err != nil || !ok {
			t.Fatalf("SHA512 vector failed at t=%d, ok=%v err=%v", tc.ts, ok, err)
		}
	}
}

func TestTOTPSkewWindow(t *testing.T) {
	m := newTOTPManager(MFAConfig{Digits: 8, Period: 30, Algorithm: "SHA1", Skew: 2})
	secret := b32.EncodeToString([]byte("12345678901234567890"))

	// The T=59 vector belongs to step 1; it must verify up to two steps away
	// on either side and fail at three.
	for _, ts := range []int64{59 - 60, 59 - 30, 59, 59 + 30, 59 + 60} {
		ok, err := m.VerifyCode(secret, "94287082", time.Unix(ts, 0))
		if err != nil || !ok {
			t.Fatalf("expected code to verify at t=%d, ok=%v err=%v", ts, ok, err)
		}
	}
	ok, err := m.VerifyCode(secret, "94287082", time.Unix(59+90, 0))
	if err != nil || ok {
		t.Fatalf("code three steps old must not verify, ok=%v err=%v", ok, err)
	}
}

func TestTOTPRejectsMalformedInput(t *testing.T) {
	m := newTOTPManager(DefaultConfig().MFA)
	secret := b32.EncodeToString([]byte("12345678901234567890"))
	now := time.Now()

	for _, code := range []string{"", "12345", "1234567", "12345a", "123 456"} {
		ok, err := m.VerifyCode(secret, code, now)
		if err != nil || ok {
			t.Fatalf("code %q must be rejected without error, ok=%v err=%v", code, ok, err)
		}
	}

	if _, err := m.VerifyCode("not-base32!", "123456", now); err == nil {
		t.Fatal("expected error for malformed secret")
	}
}

func TestTOTPGenerateSecret(t *testing.T) {
	m := newTOTPManager(DefaultConfig().MFA)

	a, err := m.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	b, err := m.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct secrets")
	}
	if _, err := b32.DecodeString(a); err != nil {
		t.Fatalf("secret is not valid base32: %v", err)
	}
}

func TestTOTPProvisionURI(t *testing.T) {
	m := newTOTPManager(DefaultConfig().MFA)
	uri := m.ProvisionURI("JBSWY3DPEHPK3PXP", "alice@example.com")

	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("expected otpauth uri, got %s", uri)
	}
	for _, want := range []string{"secret=JBSWY3DPEHPK3PXP", "digits=6", "period=30", "algorithm=SHA1"} {
		if !strings.Contains(uri, want) {
			t.Fatalf("uri missing %q: %s", want, uri)
		}
	}
}
