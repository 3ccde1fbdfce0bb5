package common

import (
	"time"

	"go.uber.org/zap"
)

type Benchmarker struct {
	start  time.Time
	label  string
	logger *zap.Logger
}

func RuntimeBenchmark[T any](logger *zap.Logger, label string, functionUnderTest func() (T, error)) (T, error) {
	benchmarker := NewBenchmarker(logger, label)
	defer benchmarker.Close()
	return functionUnderTest()
}

func NewBenchmarker(logger *zap.Logger, label string) *Benchmarker {
	return &Benchmarker{start: time.Now(), label: label, logger: logger}
}

func (benchmarker *Benchmarker) Close() {
	elapsed := time.Since(benchmarker.start)
	benchmarker.logger.Debug("bench", zap.String("op", benchmarker.label), zap.Duration("took", elapsed))
}
