package cache

import "strings"

const (
	GlobalKeyPrefix = "onlinecourse"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ExamResultKey addresses a graded submission cached against a course version.
func ExamResultKey(submissionID, courseVersion string) string {
	return GenerateCacheKey("exam", "result", submissionID, courseVersion)
}

// CourseVersionKey holds the token that changes whenever a course's questions or choices change.
func CourseVersionKey(courseID string) string {
	return GenerateCacheKey("course", "version", courseID)
}

// RevokedSessionKey marks a session token id as logged out.
func RevokedSessionKey(tokenID string) string {
	return GenerateCacheKey("auth", "revoked", tokenID)
}
