package oauth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// stateTTL bounds how long a state parameter stays valid.
const stateTTL = 5 * time.Minute

// StateManager signs and verifies OAuth state parameters.
type StateManager struct {
	secret []byte
}

// NewStateManager creates a new state manager
func NewStateManager(secret string) *StateManager {
	return &StateManager{secret: []byte(secret)}
}

// GenerateState generates a signed state parameter
func (sm *StateManager) GenerateState(data *StateData) (string, error) {
	if data.Timestamp == 0 {
		data.Timestamp = time.Now().Unix()
	}
	if data.Nonce == "" {
		data.Nonce = sm.generateNonce()
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	payload := base64.RawURLEncoding.EncodeToString(jsonData)
	return payload + "." + sm.sign(payload), nil
}

// ParseState verifies the signature and expiry of a state parameter.
func (sm *StateManager) ParseState(state string) (*StateData, error) {
	payload, sig, ok := strings.Cut(state, ".")
	if !ok {
		return nil, ErrStateInvalid
	}
	if !hmac.Equal([]byte(sm.sign(payload)), []byte(sig)) {
		return nil, ErrStateInvalid
	}

	jsonData, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrStateInvalid
	}

	var data StateData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, ErrStateInvalid
	}

	if time.Now().Unix()-data.Timestamp > int64(stateTTL.Seconds()) {
		return nil, ErrStateExpired
	}

	return &data, nil
}

// sign computes the HMAC-SHA256 signature of a payload.
func (sm *StateManager) sign(payload string) string {
	mac := hmac.New(sha256.New, sm.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// generateNonce generates a random nonce
func (sm *StateManager) generateNonce() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
