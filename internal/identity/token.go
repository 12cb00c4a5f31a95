package identity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimsHeader carries a JSON object of decoded claims forwarded by a gateway.
const ClaimsHeader = "X-Auth-Claims"

// ClaimsFromRequest extracts caller claims from r. The gateway has already
// verified the token, so the bearer token is decoded without signature
// verification. ClaimsHeader takes precedence when present. A request
// carrying neither yields empty claims.
func ClaimsFromRequest(r *http.Request) (Claims, error) {
	if raw := r.Header.Get(ClaimsHeader); raw != "" {
		return claimsFromJSON([]byte(raw))
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return Claims{}, nil
	}

	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: malformed authorization header", ErrUnauthorized)
	}

	return ClaimsFromToken(strings.TrimSpace(token))
}

// ClaimsFromToken decodes the claims of a JWT without verifying its signature.
func ClaimsFromToken(token string) (Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser(jwt.WithJSONNumber()).ParseUnverified(token, mapClaims); err != nil {
		return nil, fmt.Errorf("%w: decode token: %w", ErrUnauthorized, err)
	}
	return flatten(mapClaims), nil
}

func claimsFromJSON(data []byte) (Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrUnauthorized, ClaimsHeader, err)
	}
	return flatten(raw), nil
}

// flatten keeps claims whose values have a scalar string form. Numbers keep
// their exact JSON text.
func flatten(raw map[string]any) Claims {
	claims := make(Claims, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			claims[k] = val
		case json.Number:
			claims[k] = val.String()
		case bool:
			claims[k] = strconv.FormatBool(val)
		}
	}
	return claims
}
