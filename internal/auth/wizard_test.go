// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/model"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func newWizardClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		RatePerSec: 1000,
	}, api.StaticToken(""))
}

func currentCode(t *testing.T) string {
	t.Helper()
	code, err := totp.GenerateCode(testSecret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	return code
}

// =============================================================================
// ADMIN WIZARD
// =============================================================================

func adminBackend(t *testing.T, completed *api.RegisterAdminRequest) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/register/init":
			json.NewEncoder(w).Encode(api.RegisterInitResult{
				TempSecret: testSecret,
				QRCodeURL:  "otpauth://totp/eFine:new?secret=" + testSecret,
			})
		case "/api/admin/register/complete":
			json.NewDecoder(r.Body).Decode(completed)
			json.NewEncoder(w).Encode(map[string]any{
				"user": model.AdminUser{ID: "u9", Email: completed.Email, IsTwoFactorEnabled: true},
			})
		default:
			http.NotFound(w, r)
		}
	})
}

func validAdminDetails() AdminDetails {
	return AdminDetails{
		Name:     "K. Jayasuriya",
		Email:    "kj@police.lk",
		Password: "pw1234",
		Role:     model.RoleAdminOfficer,
	}
}

func TestAdminWizard_HappyPath(t *testing.T) {
	var completed api.RegisterAdminRequest
	w := NewAdminWizard(newWizardClient(t, adminBackend(t, &completed)))

	if w.Step() != AdminStepDetails {
		t.Fatalf("step = %v", w.Step())
	}
	if err := w.SubmitDetails(context.Background(), validAdminDetails()); err != nil {
		t.Fatalf("SubmitDetails failed: %v", err)
	}
	if w.Step() != AdminStepTwoFactor {
		t.Fatalf("step = %v, want TwoFactor", w.Step())
	}
	if w.TempSecret() != testSecret || w.QRCodeURL() == "" {
		t.Errorf("secret=%q qr=%q", w.TempSecret(), w.QRCodeURL())
	}

	user, err := w.SubmitCode(context.Background(), currentCode(t))
	if err != nil {
		t.Fatalf("SubmitCode failed: %v", err)
	}
	if w.Step() != AdminStepComplete {
		t.Errorf("step = %v", w.Step())
	}
	if !user.IsTwoFactorEnabled {
		t.Error("created account should have 2FA on")
	}

	// The provisional secret was carried into the completion call
	// unmodified, then wiped from the wizard.
	if completed.Secret != testSecret {
		t.Errorf("completed secret = %q", completed.Secret)
	}
	if w.TempSecret() != "" {
		t.Error("secret not wiped after completion")
	}
}

func TestAdminWizard_LocalCodeCheck(t *testing.T) {
	var completed api.RegisterAdminRequest
	reached := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/admin/register/complete" {
			reached = true
		}
		adminBackend(t, &completed).ServeHTTP(w, r)
	})
	w := NewAdminWizard(newWizardClient(t, handler))

	if err := w.SubmitDetails(context.Background(), validAdminDetails()); err != nil {
		t.Fatalf("SubmitDetails failed: %v", err)
	}

	var ve *ValidationError
	if _, err := w.SubmitCode(context.Background(), "12345"); !errors.As(err, &ve) {
		t.Errorf("short code: err = %v", err)
	}
	if _, err := w.SubmitCode(context.Background(), "000000"); !errors.As(err, &ve) {
		t.Errorf("mismatched code: err = %v", err)
	}
	if reached {
		t.Error("rejected codes must not reach the backend")
	}
	// Still on the verification step.
	if w.Step() != AdminStepTwoFactor {
		t.Errorf("step = %v", w.Step())
	}
}

func TestAdminWizard_FailedStepStaysPut(t *testing.T) {
	w := NewAdminWizard(newWizardClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Email already registered"}`, http.StatusConflict)
	})))

	err := w.SubmitDetails(context.Background(), validAdminDetails())
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *api.ClientError
	if !errors.As(err, &ce) || ce.Message != "Email already registered" {
		t.Errorf("err = %v", err)
	}
	if w.Step() != AdminStepDetails {
		t.Errorf("step = %v, want Details", w.Step())
	}
}

func TestAdminWizard_CancelDiscardsSecret(t *testing.T) {
	var completed api.RegisterAdminRequest
	w := NewAdminWizard(newWizardClient(t, adminBackend(t, &completed)))

	if err := w.SubmitDetails(context.Background(), validAdminDetails()); err != nil {
		t.Fatalf("SubmitDetails failed: %v", err)
	}
	w.Cancel()

	if w.Step() != AdminStepDetails {
		t.Errorf("step = %v", w.Step())
	}
	if w.TempSecret() != "" || w.QRCodeURL() != "" {
		t.Error("cancel must discard the provisional secret")
	}
}

// =============================================================================
// OFFICER WIZARD
// =============================================================================

type officerBackendState struct {
	registerCalls []api.RegisterOfficerRequest
	failRegisters int
}

func officerBackend(t *testing.T, state *officerBackendState) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/request-verification":
			w.Write([]byte(`{"message":"OTP sent to station email"}`))
		case "/api/auth/verify-otp":
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			if req["otp"] != "042531" {
				http.Error(w, `{"message":"Invalid OTP"}`, http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"message":"verified"}`))
		case "/api/auth/register-police":
			var req api.RegisterOfficerRequest
			json.NewDecoder(r.Body).Decode(&req)
			state.registerCalls = append(state.registerCalls, req)
			if state.failRegisters > 0 {
				state.failRegisters--
				http.Error(w, `{"message":"Email already registered"}`, http.StatusConflict)
				return
			}
			w.Write([]byte(`{"message":"created"}`))
		default:
			http.NotFound(w, r)
		}
	})
}

func TestOfficerWizard_HappyPath(t *testing.T) {
	state := &officerBackendState{}
	w := NewOfficerWizard(newWizardClient(t, officerBackend(t, state)))

	if err := w.SubmitVerification(context.Background(), "B1234", "CMB-01"); err != nil {
		t.Fatalf("SubmitVerification failed: %v", err)
	}
	if w.Step() != OfficerStepOTP {
		t.Fatalf("step = %v", w.Step())
	}

	if err := w.SubmitOTP(context.Background(), "042531"); err != nil {
		t.Fatalf("SubmitOTP failed: %v", err)
	}
	if w.Step() != OfficerStepDetails {
		t.Fatalf("step = %v", w.Step())
	}

	err := w.SubmitDetails(context.Background(), OfficerDetails{
		Name: "W. Silva", Email: "ws@police.lk", Password: "pw1234", Position: "Sergeant",
	})
	if err != nil {
		t.Fatalf("SubmitDetails failed: %v", err)
	}
	if w.Step() != OfficerStepComplete {
		t.Errorf("step = %v", w.Step())
	}

	call := state.registerCalls[0]
	if call.OTP != "042531" || call.BadgeNumber != "B1234" || call.StationCode != "CMB-01" {
		t.Errorf("register call = %+v", call)
	}
}

func TestOfficerWizard_OTPResentVerbatimAcrossRetries(t *testing.T) {
	state := &officerBackendState{failRegisters: 2}
	w := NewOfficerWizard(newWizardClient(t, officerBackend(t, state)))

	if err := w.SubmitVerification(context.Background(), "B1234", "CMB-01"); err != nil {
		t.Fatalf("SubmitVerification failed: %v", err)
	}
	if err := w.SubmitOTP(context.Background(), "042531"); err != nil {
		t.Fatalf("SubmitOTP failed: %v", err)
	}

	// Two rejected submissions with edited fields, then a success.
	details := OfficerDetails{Name: "W. Silva", Email: "ws@police.lk", Password: "pw1234", Position: "Constable"}
	if err := w.SubmitDetails(context.Background(), details); err == nil {
		t.Fatal("expected first submit to fail")
	}
	if w.Step() != OfficerStepDetails {
		t.Fatalf("failed submit moved the wizard: %v", w.Step())
	}
	details.Email = "w.silva@police.lk"
	if err := w.SubmitDetails(context.Background(), details); err == nil {
		t.Fatal("expected second submit to fail")
	}
	details.Position = "Sergeant"
	if err := w.SubmitDetails(context.Background(), details); err != nil {
		t.Fatalf("final submit failed: %v", err)
	}

	// Every submission carried the step-2 OTP byte-identical.
	if len(state.registerCalls) != 3 {
		t.Fatalf("register calls = %d", len(state.registerCalls))
	}
	for i, call := range state.registerCalls {
		if call.OTP != "042531" {
			t.Errorf("call %d OTP = %q", i, call.OTP)
		}
	}
}

func TestOfficerWizard_WrongOTPStaysPut(t *testing.T) {
	state := &officerBackendState{}
	w := NewOfficerWizard(newWizardClient(t, officerBackend(t, state)))

	if err := w.SubmitVerification(context.Background(), "B1234", "CMB-01"); err != nil {
		t.Fatalf("SubmitVerification failed: %v", err)
	}
	if err := w.SubmitOTP(context.Background(), "999999"); err == nil {
		t.Fatal("expected error for wrong OTP")
	}
	if w.Step() != OfficerStepOTP {
		t.Errorf("step = %v, want OTP", w.Step())
	}
}

func TestOfficerWizard_StepOrderEnforced(t *testing.T) {
	w := NewOfficerWizard(newWizardClient(t, http.NotFoundHandler()))

	if err := w.SubmitOTP(context.Background(), "042531"); err == nil {
		t.Error("OTP before verification should fail")
	}
	if err := w.SubmitDetails(context.Background(), OfficerDetails{}); err == nil {
		t.Error("details before OTP should fail")
	}
}
