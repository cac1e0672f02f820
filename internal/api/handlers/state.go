package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rohits-web03/warbler/internal/utils"
)

var errInvalidState = errors.New("invalid oauth state")

// GenerateState builds an OAuth state value "nonce.payload.signature" where
// payload is the base64 JSON of data and signature is an HMAC over both.
func GenerateState(secret []byte, data map[string]string) (string, error) {
	nonce, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	payloadBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)

	return nonce + "." + payload + "." + signState(secret, nonce+"."+payload), nil
}

// DecodeState checks the signature and returns the embedded data.
func DecodeState(secret []byte, state string) (map[string]string, error) {
	parts := strings.Split(state, ".")
	if len(parts) != 3 {
		return nil, errInvalidState
	}
	expected := signState(secret, parts[0]+"."+parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, errInvalidState
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(payloadBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state JSON: %w", err)
	}
	return data, nil
}

func signState(secret []byte, msg string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(msg))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
