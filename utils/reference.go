package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

// ReferralType represents the type of entity for which a referral code is
// being generated
type ReferralType string

const (
	AffiliateType ReferralType = "AFF"
	MarketerType  ReferralType = "MKT"
)

// GenerateReferralCode generates a unique referral code for the specified
// entity type. Format: {TYPE}-{RANDOM} where RANDOM is 6 alphanumeric
// characters. Example: AFF-ABC123, MKT-XYZ789
func GenerateReferralCode(entityType ReferralType) (string, error) {
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	// Convert to base32 and take first 6 characters
	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = randomStr[:6]

	randomStr = strings.ToUpper(randomStr)
	randomStr = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, randomStr)

	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	return string(entityType) + "-" + randomStr, nil
}

// GenerateAffiliateReferralCode generates a referral code for an affiliate
func GenerateAffiliateReferralCode() (string, error) {
	return GenerateReferralCode(AffiliateType)
}

// GenerateMarketerReferralCode generates a referral code for a marketer
func GenerateMarketerReferralCode() (string, error) {
	return GenerateReferralCode(MarketerType)
}

// GenerateWithdrawalReference returns the human-facing reference printed on
// payout receipts, e.g. WDR-9F86D081.
func GenerateWithdrawalReference() string {
	id := uuid.New().String()
	return "WDR-" + strings.ToUpper(id[:8])
}
