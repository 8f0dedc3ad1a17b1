package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// DisplayClaims are the claims of a Google ID token decoded WITHOUT
// signature verification. Good enough to prefill a name on a form, never a
// basis for a role or any other trust decision — that is what the verified
// user record is for.
type DisplayClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// ParseDisplayClaims decodes the credential payload locally.
func ParseDisplayClaims(credential string) (DisplayClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return DisplayClaims{}, err
	}

	var dc DisplayClaims
	if v, ok := claims["email"].(string); ok {
		dc.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		dc.Name = v
	}
	if v, ok := claims["picture"].(string); ok {
		dc.Picture = v
	}
	if dc.Email == "" {
		return DisplayClaims{}, errors.New("credential has no email claim")
	}
	return dc, nil
}
