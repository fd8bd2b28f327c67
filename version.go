package main

import "go.uber.org/zap"

// Set through -ldflags "-X main.gitSHA1=...".
var (
	gitSHA1   string = "unknown"
	gitDirty  string = "unknown"
	buildID   string = "unknown"
	buildDate string = "unknown"
)

func RedisGitSHA1() string {
	return gitSHA1
}

func RedisGitDirty() string {
	return gitDirty
}

func versionFields() []zap.Field {
	return []zap.Field{
		zap.String("git_sha1", RedisGitSHA1()),
		zap.String("git_dirty", RedisGitDirty()),
		zap.String("build_id", buildID),
		zap.String("build_date", buildDate),
	}
}
