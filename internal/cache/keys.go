package cache

import "strings"

const (
	GlobalKeyPrefix = "skillcheck"
)

// GenerateCacheKey builds "skillcheck:<service>:<object>:<id>". Extra params
// are joined by "_" and appended as one more segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// HistoryKey is the read-cache key for one learner/skill history.
func HistoryKey(userID, skill string) string {
	return GenerateCacheKey("history", "records", userID, strings.ReplaceAll(skill, " ", "-"))
}

// SessionKey is the key of a learner's in-flight assessment.
func SessionKey(userID string) string {
	return GenerateCacheKey("assessment", "session", userID)
}
