package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "GlassTrade"

// TOTPService implements optional 2FA for admin users.
type TOTPService struct {
	userRepo *repositories.UserRepository
	totpRepo *repositories.TOTPRepository
}

func NewTOTPService(userRepo *repositories.UserRepository, totpRepo *repositories.TOTPRepository) *TOTPService {
	return &TOTPService{userRepo: userRepo, totpRepo: totpRepo}
}

// GenerateSetup creates a new TOTP secret and QR code for a user.
// Enrollment stays disabled until the first code verifies.
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, apperrors.Storage("generate totp key", err)
	}

	if err := s.totpRepo.Save(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, apperrors.Render("totp qr image", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperrors.Render("totp qr encode", err)
	}

	return &models.TOTPSetupResponse{
		Secret:    key.Secret(),
		QRCodePNG: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyAndEnable checks the first code after setup and turns 2FA on.
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	secret, err := s.totpRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	if !totp.Validate(code, secret.Secret) {
		return apperrors.Validation("invalid verification code")
	}

	if err := s.totpRepo.Enable(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.SetTOTPEnabled(ctx, userID, true)
}

// Verify checks a code for a user with 2FA already enabled.
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) error {
	secret, err := s.totpRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !secret.Enabled {
		return apperrors.Validation("2FA is not enabled")
	}
	if !totp.Validate(code, secret.Secret) {
		return apperrors.Validation("invalid verification code")
	}
	return nil
}

// Disable removes the enrollment.
func (s *TOTPService) Disable(ctx context.Context, userID int) error {
	if err := s.totpRepo.Delete(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.SetTOTPEnabled(ctx, userID, false)
}
