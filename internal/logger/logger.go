package logger

import "go.uber.org/zap"

// Log starts as a no-op logger so packages can log before Init runs.
// Init swaps in the real production logger at startup.
var Log = zap.NewNop()

func Init() {
	Log = zap.Must(zap.NewProduction())
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
