package jwt

import "time"

// getPayload extracts payload from token claims
func getPayload(claims map[string]any) (map[string]any, bool) {
	if payload, ok := claims["payload"].(map[string]any); ok {
		return payload, true
	}
	return nil, false
}

// getString safely extracts string value from payload
func getString(payload map[string]any, key string) string {
	if val, ok := payload[key].(string); ok {
		return val
	}
	return ""
}

// getBool safely extracts boolean value from payload
func getBool(payload map[string]any, key string) bool {
	if val, ok := payload[key].(bool); ok {
		return val
	}
	return false
}

// getStringSlice safely extracts string slice from payload
func getStringSlice(payload map[string]any, key string) []string {
	if val, ok := payload[key].([]any); ok {
		result := make([]string, 0, len(val))
		for _, item := range val {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}

// GetTokenIDFromToken extracts JWT ID (jti) from token claims
func GetTokenIDFromToken(claims map[string]any) string {
	if jti, ok := claims["jti"].(string); ok {
		return jti
	}
	return ""
}

// GetSubjectFromToken extracts subject (sub) from token claims
func GetSubjectFromToken(claims map[string]any) string {
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

// GetExpirationFromToken extracts expiration time from token claims
func GetExpirationFromToken(claims map[string]any) time.Time {
	if exp, ok := claims["exp"].(float64); ok && exp > 0 {
		return time.Unix(int64(exp), 0)
	}
	return time.Time{}
}

// GetUserIDFromToken extracts user ID from token claims
func GetUserIDFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, "user_id")
	}
	return ""
}

// GetEmailFromToken extracts email from token claims
func GetEmailFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, "email")
	}
	return ""
}

// GetRolesFromToken extracts roles from token claims
func GetRolesFromToken(claims map[string]any) []string {
	if payload, ok := getPayload(claims); ok {
		return getStringSlice(payload, "roles")
	}
	return []string{}
}

// IsAdminFromToken checks if user is admin from token claims
func IsAdminFromToken(claims map[string]any) bool {
	if payload, ok := getPayload(claims); ok {
		return getBool(payload, "is_admin")
	}
	return false
}

// HasRole checks if user has specific role in token
func HasRole(claims map[string]any, role string) bool {
	for _, r := range GetRolesFromToken(claims) {
		if r == role {
			return true
		}
	}
	return false
}

// IsAccessToken checks if token is an access token
func IsAccessToken(claims map[string]any) bool {
	return GetSubjectFromToken(claims) == "access"
}
