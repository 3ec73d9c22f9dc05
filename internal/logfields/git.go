package logfields

import "go.uber.org/zap"

func PullRequest(val int) zap.Field {
	return zap.Int("github.pull_request", val)
}

func Repository(val string) zap.Field {
	return zap.String("git.repository", val)
}

func BaseBranch(val string) zap.Field {
	return zap.String("git.base_branch", val)
}

func Commit(val string) zap.Field {
	return zap.String("git.commit", val)
}

func Check(val string) zap.Field {
	return zap.String("github.check", val)
}

func Label(val string) zap.Field {
	return zap.String("github.label", val)
}

func Sender(val string) zap.Field {
	return zap.String("github.sender", val)
}
