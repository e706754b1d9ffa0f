// File: services/user/otp.go
package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"drutaseva/models"
	"drutaseva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	otpPrefix    = "otp:"
	otpResendKey = "otpResend:"
	otpTTL       = 5 * time.Minute
	otpResendTTL = 60 * time.Second
)

// SendOTP generates a one-time code for the phone number and hands it to the
// SMS sender. Resends inside the cooldown window are throttled so the client
// countdown stays meaningful.
func (s *DefaultUserService) SendOTP(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return newAuthError(CodeInvalidOTP, "phone number is required")
	}

	ok, err := s.OTPCache.SetNX(ctx, otpResendKey+phone, "1", otpResendTTL).Result()
	if err != nil {
		utils.GetLogger().Error("SendOTP: throttle check failed", zap.Error(err))
		return fmt.Errorf("failed to send OTP, please try again")
	}
	if !ok {
		return newAuthError(CodeOTPThrottled, "please wait before requesting another code")
	}

	code, err := generateOTP()
	if err != nil {
		utils.GetLogger().Error("SendOTP: code generation failed", zap.Error(err))
		return fmt.Errorf("failed to send OTP, please try again")
	}

	if err := s.OTPCache.Set(ctx, otpPrefix+phone, code, otpTTL).Err(); err != nil {
		utils.GetLogger().Error("SendOTP: failed to store code", zap.Error(err))
		return fmt.Errorf("failed to send OTP, please try again")
	}

	if err := s.SMS.Send(phone, fmt.Sprintf("Your DrutaSeva verification code is %s", code)); err != nil {
		utils.GetLogger().Error("SendOTP: sms delivery failed", zap.String("phone", phone), zap.Error(err))
		return fmt.Errorf("failed to send OTP, please try again")
	}

	utils.GetLogger().Info("OTP sent", zap.String("phone", phone))
	return nil
}

// VerifyOTP checks the submitted code. A wrong code leaves the stored code
// and the resend cooldown untouched so the rider can retry within the same
// window. On success the code is consumed and the rider is signed in,
// creating the account on first verification.
func (s *DefaultUserService) VerifyOTP(ctx context.Context, phone, code string) (*AuthResponse, error) {
	phone = strings.TrimSpace(phone)

	stored, err := s.OTPCache.Get(ctx, otpPrefix+phone).Result()
	if err != nil {
		return nil, newAuthError(CodeInvalidOTP, "invalid or expired code")
	}
	if stored != strings.TrimSpace(code) {
		return nil, newAuthError(CodeInvalidOTP, "invalid or expired code")
	}

	if err := s.OTPCache.Del(ctx, otpPrefix+phone).Err(); err != nil {
		utils.GetLogger().Warn("VerifyOTP: failed to consume code", zap.Error(err))
	}

	userRec, err := s.Repo.GetByPhone(phone)
	if err != nil {
		utils.GetLogger().Error("VerifyOTP: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("verification failed, please try again")
	}
	if userRec == nil {
		userRec = &models.User{
			ID:          uuid.New().String(),
			PhoneNumber: phone,
		}
		if err := s.Repo.Create(userRec); err != nil {
			return nil, fmt.Errorf("verification failed, please try again")
		}
	}

	return s.issueToken(ctx, userRec)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// LoggedSMSSender writes messages to the log instead of a carrier. Used in
// development and as the default until an SMS provider is wired in.
type LoggedSMSSender struct{}

func (LoggedSMSSender) Send(phone, message string) error {
	utils.GetLogger().Info("SMS (logged)", zap.String("phone", phone), zap.String("message", message))
	return nil
}
